package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"unilink/backend/internal/dto"
	"unilink/backend/internal/model"
	"unilink/backend/internal/repository"
)

var (
	ErrCannotDeleteHOD  = errors.New("HOD accounts cannot be deleted.")
	ErrNoFieldsToUpdate = errors.New("No fields to update.")
)

// UserService 用户管理（管理面板 + 本人状态切换）
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) error
	Delete(ctx context.Context, id string) error
	// UpdateStatus 本人切换在线状态（available | busy | offline）
	UpdateStatus(ctx context.Context, userID, status string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.User.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         req.Role,
		Dept:         req.Dept,
		Photo:        req.Photo,
		Year:         req.Year,
		Blood:        req.Blood,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Dept != nil {
		updates["dept"] = *req.Dept
	}
	if req.Photo != nil {
		updates["photo"] = *req.Photo
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Blood != nil {
		updates["blood"] = *req.Blood
	}
	if len(updates) == 0 {
		return ErrNoFieldsToUpdate
	}

	if err := s.repo.User.UpdateFields(ctx, id, updates); err != nil {
		s.logger.Error("更新用户失败", zap.String("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleHOD {
		return ErrCannotDeleteHOD
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.String("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *userService) UpdateStatus(ctx context.Context, userID, status string) error {
	if err := s.repo.User.UpdateFields(ctx, userID, map[string]interface{}{"status": status}); err != nil {
		s.logger.Error("更新用户状态失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}
