package repository

import (
	"context"

	"gorm.io/gorm"

	"unilink/backend/internal/model"
)

// MeetingRepository 会面申请数据访问接口
//
// 两个列表查询均不带 ORDER BY：排序不信任存储层，
// 由 service 层在内存中按创建时间倒序排列。
type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.MeetingRequest) error
	GetByID(ctx context.Context, id string) (*model.MeetingRequest, error)
	// ListPendingForTarget 复合查询：接收方 + pending。
	// 存储层不支持该组合时返回 pkg/errors.ErrUnsupportedQueryShape。
	ListPendingForTarget(ctx context.Context, userID string) ([]model.MeetingRequest, error)
	// ListByTarget 退化查询：仅按接收方过滤
	ListByTarget(ctx context.Context, userID string) ([]model.MeetingRequest, error)
	// UpdateStatus 无条件覆盖状态，updated_at 取数据库时钟
	UpdateStatus(ctx context.Context, id, status string) error
}

// meetingRepo MeetingRepository 的 GORM 实现
type meetingRepo struct {
	db *gorm.DB
}

// NewMeetingRepo 创建 MeetingRepository 实例
func NewMeetingRepo(db *gorm.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

func (r *meetingRepo) Create(ctx context.Context, meeting *model.MeetingRequest) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

func (r *meetingRepo) GetByID(ctx context.Context, id string) (*model.MeetingRequest, error) {
	var meeting model.MeetingRequest
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", id).
		First(&meeting).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepo) ListPendingForTarget(ctx context.Context, userID string) ([]model.MeetingRequest, error) {
	var meetings []model.MeetingRequest
	if err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", userID, model.MeetingPending).
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (r *meetingRepo) ListByTarget(ctx context.Context, userID string) ([]model.MeetingRequest, error) {
	var meetings []model.MeetingRequest
	if err := r.db.WithContext(ctx).
		Where("to_user_id = ?", userID).
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (r *meetingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.MeetingRequest{}).
		Where("meeting_id = ?", id).
		UpdateColumns(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}
