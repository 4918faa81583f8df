package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"unilink/backend/internal/dto"
	"unilink/backend/internal/service"
	"unilink/backend/pkg/response"
)

// UserHandler 用户管理模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List 列出全部用户
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.NewUserResponseList(users))
}

// Get 查询单个用户
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11002, "User not found.")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, dto.NewUserResponse(user))
}

// Create 创建用户
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters")
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, dto.NewUserResponse(user))
}

// Update 更新用户资料（部分更新）
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters")
		return
	}

	err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFieldsToUpdate):
			response.BadRequest(c, 10001, "No fields to update")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11002, "User not found.")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// Delete 删除用户，HOD 账号不可删除
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	err := h.userSvc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotDeleteHOD):
			response.Forbidden(c, 11003, "The HOD account cannot be deleted.")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11002, "User not found.")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// UpdateStatus 本人切换在线状态
// PUT /api/v1/users/me/status
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters")
		return
	}

	if err := h.userSvc.UpdateStatus(c.Request.Context(), userID, req.Status); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
