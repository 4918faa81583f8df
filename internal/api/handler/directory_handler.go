package handler

import (
	"github.com/gin-gonic/gin"

	"unilink/backend/internal/dto"
	"unilink/backend/internal/model"
	"unilink/backend/internal/service"
	"unilink/backend/pkg/response"
)

// DirectoryHandler 人员目录模块 HTTP 处理器
type DirectoryHandler struct {
	dirSvc service.DirectoryService
}

// NewDirectoryHandler 创建 DirectoryHandler
func NewDirectoryHandler(dirSvc service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{dirSvc: dirSvc}
}

// ListByRole 按角色列出用户
// GET /api/v1/directory?role=staff
func (h *DirectoryHandler) ListByRole(c *gin.Context) {
	role := c.Query("role")
	switch role {
	case model.RoleStudent, model.RoleStaff, model.RoleHOD:
	default:
		response.BadRequest(c, 10001, "Invalid role")
		return
	}

	users, err := h.dirSvc.ListByRole(c.Request.Context(), role)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.NewUserResponseList(users))
}

// ListMeetingTargets 列出可作为会面对象的 staff 与 hod（去重、排除本人）
// GET /api/v1/directory/meeting-targets
func (h *DirectoryHandler) ListMeetingTargets(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	users, err := h.dirSvc.DistinctStaffAndLeads(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.NewUserResponseList(users))
}
