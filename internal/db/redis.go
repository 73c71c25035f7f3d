package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/examdesk/examdesk/internal/config"
	"github.com/examdesk/examdesk/internal/pkg/logger"
)

// RedisClient wraps the redis connection used for short-lived report caches.
// The application works without it; callers treat cache errors as misses.
type RedisClient struct {
	Client *redis.Client
}

// NewRedisClient connects to redis. A failed ping is logged and tolerated
// so the service can run without a cache.
func NewRedisClient(cfg *config.Config) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, caching disabled")
	}

	return &RedisClient{Client: client}
}

// Healthy reports whether the redis connection answers a ping
func (r *RedisClient) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Close closing method
func (r *RedisClient) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}
