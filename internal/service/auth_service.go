package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"unilink/backend/config"
	"unilink/backend/internal/dto"
	"unilink/backend/internal/repository"
	"unilink/backend/pkg/jwt"
	"unilink/backend/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("Invalid register number or password. Please check your credentials.")
	ErrUserNotFound       = errors.New("User not found.")
)

// AuthService 认证业务接口
//
// 凭证以 bcrypt 加盐哈希存储比对，登录契约保持
// login(username, credential, role) → User | AuthError 不变。
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID, jti string, expiresAt time.Time) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 按注册号 + 角色查询用户
	user, err := s.repo.User.GetByUsernameAndRole(ctx, req.Username, req.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Username, user.Role, req.RememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	userResp := dto.NewUserResponse(user)

	// 4. 写入会话快照（Redis 不可用时降级为仅 Token 模式）
	if s.rdb != nil {
		ttl := s.cfg.Auth.RefreshTokenTTLDefault
		if req.RememberMe {
			ttl = s.cfg.Auth.RefreshTokenTTLRemember
		}
		if snapshot, err := json.Marshal(userResp); err == nil {
			if err := s.rdb.SaveSession(ctx, user.UserID, snapshot, ttl); err != nil {
				s.logger.Warn("写入会话快照失败", zap.Error(err))
			}
		}
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         userResp,
	}, nil
}

// Logout 显式销毁会话：Token 进黑名单，会话快照删除
func (s *authService) Logout(ctx context.Context, userID, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		return nil // Redis 降级模式下无黑名单与快照可清理
	}
	if err := s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	if err := s.rdb.DeleteSession(ctx, userID); err != nil {
		s.logger.Warn("删除会话快照失败", zap.Error(err))
	}
	return nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	// 优先读会话快照
	if s.rdb != nil {
		if snapshot, err := s.rdb.GetSession(ctx, userID); err == nil && snapshot != nil {
			var resp dto.UserResponse
			if err := json.Unmarshal(snapshot, &resp); err == nil {
				return &resp, nil
			}
			// 反序列化失败视为快照失效，回退数据库
			_ = s.rdb.DeleteSession(ctx, userID)
		}
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}
