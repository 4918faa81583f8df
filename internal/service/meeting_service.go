package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"unilink/backend/internal/alert"
	"unilink/backend/internal/dto"
	"unilink/backend/internal/model"
	"unilink/backend/internal/repository"
	pkgerrors "unilink/backend/pkg/errors"
)

var (
	ErrEmptyPurpose         = errors.New("Please enter a purpose for the meeting.")
	ErrMeetingNotFound      = errors.New("Meeting request not found.")
	ErrInvalidMeetingStatus = errors.New("Meeting status must be approved or denied.")
)

// MeetingService 会面申请工作流
//
// 状态机：pending→approved / pending→denied。决议不做前置状态检查：
// 对同一申请二次决议会覆盖状态并再次扇出通知，与存储层
// last-write-wins 的一致性模型保持一致（已知幂等缺口，保留原行为）。
type MeetingService interface {
	// CreateRequest 创建会面申请并向接收方扇出一条 meeting_request 通知。
	// 通知写入仅在申请写入成功后进行；通知写入失败时申请已落库，
	// 错误原样上抛（接受的非事务性部分状态）。
	CreateRequest(ctx context.Context, fromUserID string, req *dto.CreateMeetingRequest) (string, error)
	// ListPendingForUser 列出接收方的待决申请，按创建时间倒序。
	// 存储层拒绝复合查询时退化为单条件查询 + 内存过滤，两条路径结果一致。
	ListPendingForUser(ctx context.Context, userID string) ([]model.MeetingRequest, error)
	// Resolve 决议申请并向原发起方扇出一条 meeting_response 通知
	Resolve(ctx context.Context, meetingID, status string) error
}

type meetingService struct {
	repo   *repository.Repository
	notif  NotificationService
	feed   alert.Feed
	logger *zap.Logger
}

// NewMeetingService 创建 MeetingService 实例
func NewMeetingService(repo *repository.Repository, notif NotificationService, feed alert.Feed, logger *zap.Logger) MeetingService {
	return &meetingService{repo: repo, notif: notif, feed: feed, logger: logger}
}

func (s *meetingService) CreateRequest(ctx context.Context, fromUserID string, req *dto.CreateMeetingRequest) (string, error) {
	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		return "", ErrEmptyPurpose
	}

	// 双方身份快照取自当前用户记录，不信任客户端传入的姓名与角色
	requester, err := s.repo.User.GetByID(ctx, fromUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		s.logger.Error("查询发起方失败", zap.Error(err))
		return "", err
	}
	target, err := s.repo.User.GetByID(ctx, req.ToUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		s.logger.Error("查询接收方失败", zap.Error(err))
		return "", err
	}

	meeting := &model.MeetingRequest{
		FromUserID:   requester.UserID,
		FromUserName: requester.Name,
		FromUserRole: requester.Role,
		ToUserID:     target.UserID,
		ToUserName:   target.Name,
		ToUserRole:   target.Role,
		Purpose:      purpose,
		Status:       model.MeetingPending,
	}
	if err := s.repo.Meeting.Create(ctx, meeting); err != nil {
		s.logger.Error("创建会面申请失败", zap.Error(err))
		return "", err
	}

	s.publishMeetingAdded(ctx, meeting)

	// 扇出通知（申请已落库后才走到这里）
	err = s.notif.Notify(ctx, &model.Notification{
		Type:         model.NotificationMeetingRequest,
		MeetingID:    meeting.MeetingID,
		FromUserID:   meeting.FromUserID,
		FromUserName: meeting.FromUserName,
		ToUserID:     meeting.ToUserID,
		ToUserName:   meeting.ToUserName,
		Message:      fmt.Sprintf("Meeting request from %s: %s", meeting.FromUserName, meeting.Purpose),
	})
	if err != nil {
		s.logger.Error("会面申请通知写入失败，申请已创建",
			zap.String("meeting_id", meeting.MeetingID), zap.Error(err))
		return "", err
	}

	return meeting.MeetingID, nil
}

func (s *meetingService) ListPendingForUser(ctx context.Context, userID string) ([]model.MeetingRequest, error) {
	meetings, err := s.repo.Meeting.ListPendingForTarget(ctx, userID)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrUnsupportedQueryShape) {
			s.logger.Error("查询待决会面申请失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}

		// 复合查询被拒：退化为仅按接收方查询，再在内存中过滤 pending
		all, ferr := s.repo.Meeting.ListByTarget(ctx, userID)
		if ferr != nil {
			s.logger.Error("退化会面申请查询失败", zap.String("user_id", userID), zap.Error(ferr))
			return nil, ferr
		}
		meetings = meetings[:0]
		for _, m := range all {
			if m.Status == model.MeetingPending {
				meetings = append(meetings, m)
			}
		}
	}

	// 排序不依赖存储层，两条查询路径统一在此按创建时间倒序
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].CreatedAt.After(meetings[j].CreatedAt)
	})
	return meetings, nil
}

func (s *meetingService) Resolve(ctx context.Context, meetingID, status string) error {
	if status != model.MeetingApproved && status != model.MeetingDenied {
		return ErrInvalidMeetingStatus
	}

	if err := s.repo.Meeting.UpdateStatus(ctx, meetingID, status); err != nil {
		s.logger.Error("更新会面申请状态失败", zap.String("meeting_id", meetingID), zap.Error(err))
		return err
	}

	// 回读拿到 purpose 与双方姓名；对不存在的 id，更新影响 0 行，在这里暴露
	meeting, err := s.repo.Meeting.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMeetingNotFound
		}
		s.logger.Error("回读会面申请失败", zap.String("meeting_id", meetingID), zap.Error(err))
		return err
	}

	// 回执通知：申请的接收方 → 原发起方
	return s.notif.Notify(ctx, &model.Notification{
		Type:         model.NotificationMeetingResponse,
		MeetingID:    meeting.MeetingID,
		FromUserID:   meeting.ToUserID,
		FromUserName: meeting.ToUserName,
		ToUserID:     meeting.FromUserID,
		ToUserName:   meeting.FromUserName,
		Message: fmt.Sprintf("Your meeting request %q has been %s by %s",
			meeting.Purpose, status, meeting.ToUserName),
	})
}

func (s *meetingService) publishMeetingAdded(ctx context.Context, m *model.MeetingRequest) {
	payload, err := json.Marshal(alert.MeetingAdded{
		MeetingID:    m.MeetingID,
		FromUserID:   m.FromUserID,
		FromUserName: m.FromUserName,
		ToUserID:     m.ToUserID,
		Status:       m.Status,
	})
	if err != nil {
		return
	}
	if err := s.feed.Publish(ctx, alert.TopicMeetingAdded, payload); err != nil {
		s.logger.Warn("广播会面申请事件失败", zap.Error(err))
	}
}
