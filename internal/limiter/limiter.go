// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package limiter counts requests per client and decides whether a client
// exceeded its quota.
//
// Two backends are provided: [MemoryLimiter] keeps token buckets of
// golang.org/x/time/rate in a bounded LRU and serves a single instance,
// [RedisLimiter] keeps fixed-window counters in Redis and is shared between
// instances.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/go-redis/redis/v8"
)

// Decision is the outcome of one [Limiter.Allow] call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
//
// When the backend fails, Allow returns an allowing Decision together with
// the error so callers can fail open.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// New returns a [RedisLimiter] when cfg.RedisURL is set and a
// [MemoryLimiter] otherwise.
func New(ctx context.Context, cfg config.Limiter, log *logger.Logger) (Limiter, error) {
	if cfg.RedisURL == "" {
		log.Info().Str("func", "limiter.New").Int("requests", cfg.Requests).Dur("window", cfg.Window).Msg("using in-memory rate limiter")
		return NewMemoryLimiter(cfg.Requests, cfg.Window, cfg.CacheSize), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid limiter redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error connecting limiter redis: %w", err)
	}

	log.Info().Str("func", "limiter.New").Str("addr", opts.Addr).Msg("using redis rate limiter")
	return NewRedisLimiter(client, cfg.Requests, cfg.Window), nil
}
