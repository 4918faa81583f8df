package service

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"unilink/backend/internal/alert"
	"unilink/backend/internal/model"
	"unilink/backend/internal/repository"
)

// NotificationService 通知投递
//
// 独立于会面工作流，但由其在状态迁移时调用（扇出副作用）。
type NotificationService interface {
	// Notify 写入一条通知并广播新增事件
	Notify(ctx context.Context, notification *model.Notification) error
	// ListForUser 列出接收方的全部通知，按创建时间倒序
	ListForUser(ctx context.Context, userID string) ([]model.Notification, error)
	// MarkRead 无条件置已读，幂等
	MarkRead(ctx context.Context, notificationID string) error
}

type notificationService struct {
	repo   *repository.Repository
	feed   alert.Feed
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, feed alert.Feed, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, feed: feed, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, notification *model.Notification) error {
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Error("创建通知失败", zap.Error(err))
		return err
	}

	payload, err := json.Marshal(alert.NotificationAdded{
		NotificationID: notification.NotificationID,
		Type:           notification.Type,
		ToUserID:       notification.ToUserID,
		Message:        notification.Message,
		Read:           notification.Read,
	})
	if err == nil {
		if err := s.feed.Publish(ctx, alert.TopicNotificationAdded, payload); err != nil {
			s.logger.Warn("广播通知事件失败", zap.Error(err))
		}
	}
	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	notifications, err := s.repo.Notification.ListByRecipient(ctx, userID)
	if err != nil {
		s.logger.Error("查询通知失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 排序不依赖存储层
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID string) error {
	if err := s.repo.Notification.MarkRead(ctx, notificationID); err != nil {
		s.logger.Error("标记通知已读失败", zap.String("notification_id", notificationID), zap.Error(err))
		return err
	}
	return nil
}
