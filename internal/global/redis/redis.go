package redis

import (
	"context"
	"fmt"
	"time"

	"team-recruit/config"
	"team-recruit/internal/global/sentry/tracing"

	"github.com/redis/go-redis/v9"
)

// Open 未配置 Host 时返回 nil，调用方据此关闭依赖 redis 的功能
func Open(ctx context.Context, c config.Redis) (*redis.Client, error) {
	if c.Host == "" {
		return nil, nil
	}
	port := c.Port
	if port == "" {
		port = "6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", c.Host, port),
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if tracing.IsEnabled() {
		client.AddHook(tracing.NewRedisHook())
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 redis 失败: %w", err)
	}
	return client, nil
}
