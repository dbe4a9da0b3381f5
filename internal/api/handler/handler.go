package handler

import (
	"github.com/fbomateus/gestao-tcc/internal/service"
)

// Handler agrega todos os handlers
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Orientador *OrientadorHandler
	Dashboard  *DashboardHandler
	Tema       *TemaHandler
	Entrega    *EntregaHandler
	Export     *ExportHandler
	WS         *WSHandler
}

// NewHandler cria o agregado; ws pode ser nil quando não há hub de notificações
func NewHandler(svc *service.Service, ws *WSHandler) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Orientador: NewOrientadorHandler(svc.Orientador),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		Tema:       NewTemaHandler(svc.Tema),
		Entrega:    NewEntregaHandler(svc.Entrega),
		Export:     NewExportHandler(svc.Export),
		WS:         ws,
	}
}
