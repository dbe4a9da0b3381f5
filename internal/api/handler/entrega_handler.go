package handler

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/fbomateus/gestao-tcc/internal/api/middleware"
	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/service"
	"github.com/fbomateus/gestao-tcc/pkg/response"
)

// campo multipart do arquivo
const arquivoField = "arquivo"

// EntregaHandler entregas de um tema
type EntregaHandler struct {
	entregaSvc service.EntregaService
}

// NewEntregaHandler cria EntregaHandler
func NewEntregaHandler(entregaSvc service.EntregaService) *EntregaHandler {
	return &EntregaHandler{entregaSvc: entregaSvc}
}

// ListEntregas entregas do tema, mais recentes primeiro
// GET /api/v1/temas/:id/entregas
func (h *EntregaHandler) ListEntregas(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.entregaSvc.ListByTema(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleEntregaError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateEntrega envio multipart: titulo, arquivo, data_entrega opcional
// POST /api/v1/temas/:id/entregas
func (h *EntregaHandler) CreateEntrega(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateEntregaRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	fh, err := c.FormFile(arquivoField)
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			internalError(c, err)
			return
		}
		defer f.Close()
		req.File = &dto.UploadedFile{Name: fh.Filename, Size: fh.Size, Reader: f}
	case errors.Is(err, http.ErrMissingFile):
		// o serviço marca o campo como obrigatório
	case middleware.IsBodyTooLarge(err):
		bindFailed(c, err)
		return
	default:
		response.BadRequest(c, 10001, "formulário multipart inválido")
		return
	}

	entrega, err := h.entregaSvc.Create(c.Request.Context(), c.Param("id"), &req, callerID, role)
	if err != nil {
		h.handleEntregaError(c, err)
		return
	}

	response.Created(c, entrega)
}

// DownloadArquivo devolve o arquivo da entrega como anexo
// GET /api/v1/entregas/:id/arquivo
func (h *EntregaHandler) DownloadArquivo(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	file, err := h.entregaSvc.Download(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleEntregaError(c, err)
		return
	}
	defer file.Content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(file.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, file.Size, contentType, file.Content, map[string]string{
		"Content-Disposition": attachment(file.Name),
	})
}

// EntregaFeedback comentário e nota do orientador
// PUT /api/v1/entregas/:id/feedback
func (h *EntregaHandler) EntregaFeedback(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.EntregaFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	entrega, err := h.entregaSvc.Feedback(c.Request.Context(), c.Param("id"), &req, callerID, role)
	if err != nil {
		h.handleEntregaError(c, err)
		return
	}

	response.OK(c, entrega)
}

func (h *EntregaHandler) handleEntregaError(c *gin.Context, err error) {
	if fieldErrors(c, 15001, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrTemaNotFound):
		response.NotFound(c, 15002, err.Error())
	case errors.Is(err, service.ErrEntregaNotFound):
		response.NotFound(c, 15003, err.Error())
	case errors.Is(err, service.ErrArquivoNotFound):
		response.NotFound(c, 15004, err.Error())
	case errors.Is(err, service.ErrEntregaViewDenied),
		errors.Is(err, service.ErrEntregaSubmitDenied),
		errors.Is(err, service.ErrFeedbackDenied),
		errors.Is(err, service.ErrFeedbackAlunoDenied):
		response.Forbidden(c, 15005, err.Error())
	default:
		internalError(c, err)
	}
}

// attachment Content-Disposition com nome UTF-8 (RFC 5987)
func attachment(name string) string {
	return "attachment; filename*=UTF-8''" + url.PathEscape(name)
}
