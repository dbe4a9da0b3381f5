package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ConnHub recebe conexões websocket já aceitas
type ConnHub interface {
	Attach(conn *websocket.Conn, userID string)
}

// WSHandler upgrade do canal de notificações
type WSHandler struct {
	hub      ConnHub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWSHandler cria WSHandler; originAllowed decide o CheckOrigin do handshake
func NewWSHandler(hub ConnHub, originAllowed func(origin string) bool, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// ServeWS
// GET /api/v1/ws
func (h *WSHandler) ServeWS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade já respondeu com o status adequado
		h.logger.Warn("falha no upgrade do websocket", zap.String("user_id", userID), zap.Error(err))
		return
	}

	h.hub.Attach(conn, userID)
}
