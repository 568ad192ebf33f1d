// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velora/velora/internal/platform/constants"
)

// RedisLoginThrottleRepository implements LoginThrottleRepository using Redis.
//
// # Why Redis?
//
// Attempt counters are volatile by nature and must expire on their own.
// Redis INCR + EXPIRE gives us atomic counting with automatic cleanup,
// without putting write pressure on the primary database during a
// credential-stuffing attack.
type RedisLoginThrottleRepository struct {
	client *redis.Client
}

// NewLoginThrottleRepository creates a Redis-backed login throttle.
func NewLoginThrottleRepository(client *redis.Client) *RedisLoginThrottleRepository {
	return &RedisLoginThrottleRepository{client: client}
}

// Hit increments the attempt counter for the key and returns the new count.
// The expiry is set only on the first hit so the window is fixed, not sliding.
func (repository *RedisLoginThrottleRepository) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := constants.RedisPrefixLoginAttempts + key

	count, err := repository.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_throttle_hit_failed: %w", err)
	}

	if count == 1 {
		if err := repository.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return count, fmt.Errorf("redis_login_throttle_expire_failed: %w", err)
		}
	}

	return count, nil
}

// Reset clears the attempt counter after a successful login.
func (repository *RedisLoginThrottleRepository) Reset(ctx context.Context, key string) error {
	redisKey := constants.RedisPrefixLoginAttempts + key
	if err := repository.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_reset_failed: %w", err)
	}
	return nil
}
