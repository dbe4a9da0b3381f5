package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fbomateus/gestao-tcc/internal/dto"
	"github.com/fbomateus/gestao-tcc/internal/service"
	"github.com/fbomateus/gestao-tcc/pkg/response"
)

// UserHandler administração de usuários
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler cria UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers usuários não-admin, paginado (ADMIN)
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// CreateUser (ADMIN)
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, user)
}

// UpdateUser atualização parcial (ADMIN)
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// GetUser detalhe com temas (ADMIN ou o próprio)
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	detail, err := h.userSvc.GetDetail(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, detail)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if fieldErrors(c, 12001, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12002, err.Error())
	case errors.Is(err, service.ErrAdminNotEditable):
		response.Forbidden(c, 12003, err.Error())
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 12004, err.Error())
	default:
		internalError(c, err)
	}
}
