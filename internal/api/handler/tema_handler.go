package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/service"
	"github.com/fbomateus/gestao-tcc/pkg/response"
)

// TemaHandler CRUD de temas
type TemaHandler struct {
	temaSvc service.TemaService
}

// NewTemaHandler cria TemaHandler
func NewTemaHandler(temaSvc service.TemaService) *TemaHandler {
	return &TemaHandler{temaSvc: temaSvc}
}

// ListTemas temas no escopo do usuário
// GET /api/v1/temas
func (h *TemaHandler) ListTemas(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.TemaListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	temas, err := h.temaSvc.List(c.Request.Context(), &req, callerID, role)
	if err != nil {
		h.handleTemaError(c, err)
		return
	}

	response.OK(c, gin.H{"list": temas})
}

// GetTema
// GET /api/v1/temas/:id
func (h *TemaHandler) GetTema(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	tema, err := h.temaSvc.Get(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleTemaError(c, err)
		return
	}

	response.OK(c, tema)
}

// CreateTema (ALUNO)
// POST /api/v1/temas
func (h *TemaHandler) CreateTema(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateTemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tema, err := h.temaSvc.Create(c.Request.Context(), &req, callerID, role)
	if err != nil {
		h.handleTemaError(c, err)
		return
	}

	response.Created(c, tema)
}

// UpdateTema atualização parcial com controle de versão
// PUT /api/v1/temas/:id
func (h *TemaHandler) UpdateTema(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateTemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tema, err := h.temaSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID, role)
	if err != nil {
		h.handleTemaError(c, err)
		return
	}

	response.OK(c, tema)
}

// DeleteTema remove o tema e as entregas
// DELETE /api/v1/temas/:id
func (h *TemaHandler) DeleteTema(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.temaSvc.Delete(c.Request.Context(), c.Param("id"), callerID, role); err != nil {
		h.handleTemaError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *TemaHandler) handleTemaError(c *gin.Context, err error) {
	if fieldErrors(c, 14001, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrTemaNotFound):
		response.NotFound(c, 14002, err.Error())
	case errors.Is(err, service.ErrSomenteAlunoCriar):
		response.Forbidden(c, 14003, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.Unauthorized(c, 10002, "não autenticado")
	default:
		internalError(c, err)
	}
}
