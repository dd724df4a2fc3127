// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "ratelimit"

// RedisLimiter is a fixed-window counter stored in Redis. The window of a
// key starts with its first request.
type RedisLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
}

// NewRedisLimiter constructs a [RedisLimiter] on top of client.
func NewRedisLimiter(client *redis.Client, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, requests: requests, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf("%s:%s", redisKeyPrefix, key)
	d := Decision{Allowed: true, Limit: l.requests, Remaining: l.requests}

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return d, fmt.Errorf("redis error: %w", err)
	}

	window := ttl.Val()
	if window < 0 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return d, fmt.Errorf("redis error: %w", err)
		}
		window = l.window
	}

	count := int(incr.Val())
	d.Remaining = max(0, l.requests-count)
	if count > l.requests {
		d.Allowed = false
		d.RetryAfter = window
	}
	return d, nil
}

// Reset drops the counter of key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, fmt.Sprintf("%s:%s", redisKeyPrefix, key)).Err()
}

// Ping checks the connection to Redis.
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
