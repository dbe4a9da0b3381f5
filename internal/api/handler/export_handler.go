package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fbomateus/gestao-tcc/internal/service"
	"github.com/fbomateus/gestao-tcc/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler exportação de temas
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler cria ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTemas planilha com temas e entregas (ADMIN)
// GET /api/v1/export/temas
func (h *ExportHandler) ExportTemas(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportTemas(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", attachment(filename))
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportCalendario feed iCalendar dos temas do usuário
// GET /api/v1/export/calendario
func (h *ExportHandler) ExportCalendario(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportCalendario(c.Request.Context(), callerID, role)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", attachment(filename))
	c.Data(http.StatusOK, contentTypeICS, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 16101, err.Error())
	default:
		internalError(c, err)
	}
}
