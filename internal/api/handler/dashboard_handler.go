package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fbomateus/gestao-tcc/internal/service"
	"github.com/fbomateus/gestao-tcc/pkg/response"
)

// DashboardHandler painel inicial por papel
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler cria DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetDashboard
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	dash, err := h.dashboardSvc.Get(c.Request.Context(), callerID, role)
	if err != nil {
		if errors.Is(err, service.ErrNoPermission) {
			response.Forbidden(c, 17001, err.Error())
			return
		}
		internalError(c, err)
		return
	}

	response.OK(c, dash)
}
