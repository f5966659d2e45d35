package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisCommander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisSettingsRepository keeps console settings as plain Redis strings under a prefix.
type RedisSettingsRepository struct {
	client redisCommander
	prefix string
	logger *zap.Logger
}

// NewRedisSettingsRepository constructs a Redis backed settings store.
func NewRedisSettingsRepository(client redisCommander, prefix string, logger *zap.Logger) *RedisSettingsRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSettingsRepository{client: client, prefix: prefix, logger: logger}
}

// Get returns the stored value and whether it was present.
func (r *RedisSettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if r.client == nil {
		return "", false, nil
	}
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores the value without expiry.
func (r *RedisSettingsRepository) Set(ctx context.Context, key, value string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.logger.Debug("setting stored", zap.String("backend", "redis"), zap.String("key", key))
	return nil
}
