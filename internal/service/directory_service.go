package service

import (
	"context"

	"go.uber.org/zap"

	"unilink/backend/internal/model"
	"unilink/backend/internal/repository"
)

// DirectoryService 用户目录
type DirectoryService interface {
	// ListByRole 按角色列出用户
	ListByRole(ctx context.Context, role string) ([]model.User, error)
	// DistinctStaffAndLeads 合并 staff 与 hod 两份列表并去重。
	// 去重键为 (id, username) 复合键：两者都相同才视为重复，
	// 首次出现者保留；excludeUserID 从结果中剔除。
	// 结果保持合并顺序（staff 在前，hod 在后），不做展示排序。
	DistinctStaffAndLeads(ctx context.Context, excludeUserID string) ([]model.User, error)
}

type directoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDirectoryService 创建 DirectoryService 实例
func NewDirectoryService(repo *repository.Repository, logger *zap.Logger) DirectoryService {
	return &directoryService{repo: repo, logger: logger}
}

func (s *directoryService) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	users, err := s.repo.User.ListByRole(ctx, role)
	if err != nil {
		s.logger.Error("按角色查询用户失败", zap.String("role", role), zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (s *directoryService) DistinctStaffAndLeads(ctx context.Context, excludeUserID string) ([]model.User, error) {
	staff, err := s.repo.User.ListByRole(ctx, model.RoleStaff)
	if err != nil {
		s.logger.Error("查询 staff 列表失败", zap.Error(err))
		return nil, err
	}
	leads, err := s.repo.User.ListByRole(ctx, model.RoleHOD)
	if err != nil {
		s.logger.Error("查询 hod 列表失败", zap.Error(err))
		return nil, err
	}

	union := make([]model.User, 0, len(staff)+len(leads))
	union = append(union, staff...)
	union = append(union, leads...)

	// 目录数据中偶见 id 相同而 username 不同（或相反）的记录，
	// 仅当两者同时匹配才按重复处理
	type dedupeKey struct {
		id       string
		username string
	}
	seen := make(map[dedupeKey]struct{}, len(union))
	result := make([]model.User, 0, len(union))
	for _, u := range union {
		if u.UserID == excludeUserID {
			continue
		}
		key := dedupeKey{id: u.UserID, username: u.Username}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, u)
	}
	return result, nil
}
