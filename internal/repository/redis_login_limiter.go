package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Simple brute-force protection: a per-username failure counter with a
// sliding expiry window.
const (
	maxFailedAttempts = 5
	failureWindow     = 15 * time.Minute
)

// RedisLoginLimiter implements domain.LoginLimiter using Redis.
type RedisLoginLimiter struct {
	client *redis.Client
}

// NewRedisLoginLimiter creates a new limiter instance.
func NewRedisLoginLimiter(client *redis.Client) *RedisLoginLimiter {
	return &RedisLoginLimiter{client: client}
}

// TooManyFailures reports whether the username has reached the failed-attempt
// ceiling within the current window.
func (r *RedisLoginLimiter) TooManyFailures(ctx context.Context, username string) (bool, error) {
	key := fmt.Sprintf("auth:failures:%s", username)

	count, err := r.client.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis error: %w", err)
	}

	return count >= maxFailedAttempts, nil
}

// RecordFailure counts one failed attempt and refreshes the window.
func (r *RedisLoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := fmt.Sprintf("auth:failures:%s", username)

	if err := r.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}

	return r.client.Expire(ctx, key, failureWindow).Err()
}
