// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"runtime"
	"time"
)

// Default values applied to every field no other source has set.
const (
	DefaultTokenIssuer        = "go-tours"
	DefaultTokenDuration      = 90 * 24 * time.Hour
	DefaultPasswordHashCost   = 12
	DefaultResetTokenTTL      = 10 * time.Minute
	DefaultLogLevel           = "debug"
	DefaultHTTPAddress        = "localhost:8080"
	DefaultResetURLBase       = "http://" + DefaultHTTPAddress
	DefaultRequestTimeout     = 30 * time.Second
	DefaultMaxBodyBytes       = 10 * 1024
	DefaultQueryTimeout       = 5 * time.Second
	DefaultMaxOpenConns       = 10
	DefaultNotifierTimeout    = 10 * time.Second
	DefaultLimiterRequests    = 100
	DefaultLimiterWindow      = time.Hour
	DefaultLimiterCacheSize   = 10_000
	DefaultResetSweepInterval = time.Minute
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:         DefaultTokenIssuer,
			TokenDuration:       DefaultTokenDuration,
			PasswordHashCost:    DefaultPasswordHashCost,
			PasswordHashWorkers: runtime.NumCPU(),
			ResetTokenTTL:       DefaultResetTokenTTL,
			ResetURLBase:        DefaultResetURLBase,
			LogLevel:            DefaultLogLevel,
		},
		Storage: Storage{
			DB: DB{
				QueryTimeout: DefaultQueryTimeout,
				MaxOpenConns: DefaultMaxOpenConns,
			},
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
			MaxBodyBytes:   DefaultMaxBodyBytes,
		},
		Adapter: Adapter{
			Notifier: Notifier{
				Kind:    NotifierLog,
				From:    "Tours <no-reply@tours.local>",
				Timeout: DefaultNotifierTimeout,
			},
		},
		Limiter: Limiter{
			Requests:  DefaultLimiterRequests,
			Window:    DefaultLimiterWindow,
			CacheSize: DefaultLimiterCacheSize,
		},
		Workers: Workers{
			ResetSweepInterval: DefaultResetSweepInterval,
		},
	}
}
