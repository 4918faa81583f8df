package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"unilink/backend/internal/dto"
	"unilink/backend/internal/service"
	"unilink/backend/pkg/response"
)

// MeetingHandler 会面申请模块 HTTP 处理器
type MeetingHandler struct {
	meetingSvc service.MeetingService
}

// NewMeetingHandler 创建 MeetingHandler
func NewMeetingHandler(meetingSvc service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingSvc: meetingSvc}
}

// Create 发起会面申请
// POST /api/v1/meetings
func (h *MeetingHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters")
		return
	}

	meetingID, err := h.meetingSvc.CreateRequest(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyPurpose):
			response.BadRequest(c, 12001, "Please enter a purpose for the meeting.")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11002, "User not found.")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, dto.CreateMeetingResponse{MeetingID: meetingID})
}

// ListPending 列出发给当前用户的待决申请
// GET /api/v1/meetings/pending
func (h *MeetingHandler) ListPending(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	meetings, err := h.meetingSvc.ListPendingForUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, meetings)
}

// Resolve 批准或拒绝申请
// PUT /api/v1/meetings/:id/resolve
func (h *MeetingHandler) Resolve(c *gin.Context) {
	var req dto.ResolveMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters")
		return
	}

	err := h.meetingSvc.Resolve(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMeetingStatus):
			response.BadRequest(c, 12002, "Invalid meeting status")
		case errors.Is(err, service.ErrMeetingNotFound):
			response.NotFound(c, 12003, "Meeting request not found.")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
