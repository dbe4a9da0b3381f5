package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fbomateus/gestao-tcc/internal/service"
	"github.com/fbomateus/gestao-tcc/pkg/response"
)

// OrientadorHandler diretório de orientadores
type OrientadorHandler struct {
	orientadorSvc service.OrientadorService
}

// NewOrientadorHandler cria OrientadorHandler
func NewOrientadorHandler(orientadorSvc service.OrientadorService) *OrientadorHandler {
	return &OrientadorHandler{orientadorSvc: orientadorSvc}
}

// ListOrientadores orientadores ativos
// GET /api/v1/orientadores
func (h *OrientadorHandler) ListOrientadores(c *gin.Context) {
	list, err := h.orientadorSvc.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetOrientador orientador e temas orientados
// GET /api/v1/orientadores/:id
func (h *OrientadorHandler) GetOrientador(c *gin.Context) {
	detail, err := h.orientadorSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrientadorNotFound) {
			response.NotFound(c, 13001, err.Error())
			return
		}
		internalError(c, err)
		return
	}

	response.OK(c, detail)
}
