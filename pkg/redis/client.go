package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/kscan/pkg/config"
	"github.com/wonny/kscan/pkg/logger"
)

// Client wraps the go-redis client with an enabled flag
// ⭐ SSOT: Redis 연결은 이 패키지에서만 생성
type Client struct {
	rdb     *redis.Client
	enabled bool
	logger  *logger.Logger
}

// New creates a new Redis client from config
// Redis가 비활성화된 경우에도 nil이 아닌 클라이언트를 반환한다 (no-op 동작)
func New(cfg *config.Config, log *logger.Logger) (*Client, error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, cache will be skipped")
		return &Client{enabled: false, logger: log}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		// 연결 실패는 치명적이지 않음: 캐시 없이 동작
		log.WithError(err).Warn("Redis unreachable, continuing without cache")
		return &Client{enabled: false, logger: log}, nil
	}

	return &Client{rdb: rdb, enabled: true, logger: log}, nil
}

// Enabled reports whether the cache is usable
func (c *Client) Enabled() bool {
	return c.enabled
}

// Redis returns the underlying redis client
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close closes the connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
