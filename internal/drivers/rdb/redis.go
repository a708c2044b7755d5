package rdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vlatan/storytime/internal/config"
	"go.uber.org/zap"
)

type Service struct {
	Client *redis.Client
	log    *zap.Logger
}

// Produce new Redis service
func New(cfg *config.Config, log *zap.Logger) (*Service, error) {

	if cfg == nil {
		return nil, errors.New("unable to create Redis service with nil config")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	if log == nil {
		log = zap.NewNop()
	}

	return &Service{Client: rdb, log: log}, nil
}

// Delete removes keys from the cache.
// Failures are logged, a stale cache is not fatal.
func (rs *Service) Delete(ctx context.Context, keys ...string) {
	if rs == nil || len(keys) == 0 {
		return
	}

	if err := rs.Client.Del(ctx, keys...).Err(); err != nil {
		rs.log.Warn("failed to delete cache keys", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Close closes the Redis client
func (rs *Service) Close() error {
	if rs == nil {
		return nil
	}
	return rs.Client.Close()
}

// Check if the Redis client is healthy
func (rs *Service) Health(ctx context.Context) map[string]any {

	if rs == nil {
		return map[string]any{"status": "disabled"}
	}

	start := time.Now()

	// Test connectivity
	ping, err := rs.Client.Ping(ctx).Result()
	if err != nil {
		return map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}

	// Get key count
	keyCount, _ := rs.Client.DBSize(ctx).Result()

	// Get server time (useful for checking if server is responsive)
	serverTime, _ := rs.Client.Time(ctx).Result()

	return map[string]any{
		"status":      "healthy",
		"ping":        ping,
		"response_ms": time.Since(start).Milliseconds(),
		"total_keys":  keyCount,
		"server_time": serverTime.Unix(),
	}
}
