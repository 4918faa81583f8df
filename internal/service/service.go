package service

import (
	"go.uber.org/zap"

	"unilink/backend/config"
	"unilink/backend/internal/alert"
	"unilink/backend/internal/repository"
	"unilink/backend/pkg/jwt"
	"unilink/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Directory    DirectoryService
	Meeting      MeetingService
	Notification NotificationService
	Timetable    TimetableService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	feed alert.Feed,
	logger *zap.Logger,
) *Service {
	notif := NewNotificationService(repo, feed, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Directory:    NewDirectoryService(repo, logger),
		Meeting:      NewMeetingService(repo, notif, feed, logger),
		Notification: notif,
		Timetable:    NewTimetableService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
