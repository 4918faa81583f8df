package handler

import (
	"go.uber.org/zap"

	"unilink/backend/internal/alert"
	"unilink/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Directory    *DirectoryHandler
	Meeting      *MeetingHandler
	Notification *NotificationHandler
	Timetable    *TimetableHandler
	Export       *ExportHandler
	Alert        *AlertHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, feed alert.Feed, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Directory:    NewDirectoryHandler(svc.Directory),
		Meeting:      NewMeetingHandler(svc.Meeting),
		Notification: NewNotificationHandler(svc.Notification),
		Timetable:    NewTimetableHandler(svc.Timetable),
		Export:       NewExportHandler(svc.Export),
		Alert:        NewAlertHandler(feed, logger),
	}
}
