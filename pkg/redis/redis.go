package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"unilink/backend/config"
)

// Client Redis 客户端封装
// 当前用于 Token 黑名单、会话快照与告警事件广播
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 会话快照 ──
//
// 登录成功后写入当前用户的序列化快照（固定键名，每个用户一份），
// 登出时删除。用于页面重载后的自动恢复。

const sessionPrefix = "session:user:"

// SaveSession 写入会话快照
func (c *Client) SaveSession(ctx context.Context, userID string, snapshot []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, sessionPrefix+userID, snapshot, ttl).Err()
}

// GetSession 读取会话快照；不存在时返回 (nil, nil)
func (c *Client) GetSession(ctx context.Context, userID string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, sessionPrefix+userID).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteSession 删除会话快照
func (c *Client) DeleteSession(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, sessionPrefix+userID).Err()
}

// ── Pub/Sub（告警事件广播）──

// Publish 向指定频道广播一条消息
func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe 订阅指定频道，调用方负责 Close
func (c *Client) Subscribe(ctx context.Context, channel string) *goredis.PubSub {
	return c.rdb.Subscribe(ctx, channel)
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
