package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"unilink/backend/internal/dto"
	"unilink/backend/internal/service"
	"unilink/backend/pkg/response"
)

// 课表上传文件大小上限
const maxTimetableUploadBytes = 5 << 20

// TimetableHandler 课表模块 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// Get 查看指定用户的课表
// GET /api/v1/users/:id/timetable
func (h *TimetableHandler) Get(c *gin.Context) {
	entries, err := h.timetableSvc.GetForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, entries)
}

// Replace 整表替换本人课表
// PUT /api/v1/timetables/me
func (h *TimetableHandler) Replace(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReplaceTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters")
		return
	}

	if err := h.timetableSvc.Replace(c.Request.Context(), userID, req.ToModel()); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ImportFile 上传 ICS 文件导入本人课表
// POST /api/v1/timetables/import (multipart, 字段名 file)
func (h *TimetableHandler) ImportFile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "Missing calendar file")
		return
	}
	defer file.Close()

	if header.Size > maxTimetableUploadBytes {
		response.BadRequest(c, 13001, "The calendar file is too large.")
		return
	}

	entries, err := h.timetableSvc.ImportICS(c.Request.Context(), userID, file)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, entries)
}

// ImportURL 从订阅链接导入本人课表
// POST /api/v1/timetables/import-url
func (h *TimetableHandler) ImportURL(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ImportTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters")
		return
	}

	entries, err := h.timetableSvc.ImportICSFromURL(c.Request.Context(), userID, req.URL)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, entries)
}

func (h *TimetableHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoTimetableEvents):
		response.BadRequest(c, 13002, "No usable events found in the calendar file.")
	case errors.Is(err, service.ErrICSTooLarge):
		response.BadRequest(c, 13001, "The calendar file is too large.")
	default:
		response.BadRequest(c, 13003, "Could not parse the calendar file.")
	}
}
