// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/store"
)

// ResetTokenJanitor periodically clears password reset tokens that expired
// without being used.
type ResetTokenJanitor struct {
	users    store.UserRepository
	interval time.Duration
	now      func() time.Time

	logger *logger.Logger
}

func NewResetTokenJanitor(users store.UserRepository, interval time.Duration, logger *logger.Logger) *ResetTokenJanitor {
	return &ResetTokenJanitor{
		users:    users,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Run sweeps once per interval until ctx is done. Sweep failures are
// logged and retried on the next tick.
func (j *ResetTokenJanitor) Run(ctx context.Context) error {
	if j.interval <= 0 {
		j.logger.Info().Msg("reset token janitor disabled")
		return nil
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ResetTokenJanitor) sweep(ctx context.Context) {
	cleared, err := j.users.ClearExpiredResetTokens(ctx, j.now().UTC())
	if err != nil {
		j.logger.Err(err).Str("func", "ResetTokenJanitor.sweep").Msg("error clearing expired reset tokens")
		return
	}
	if cleared > 0 {
		j.logger.Debug().Int64("cleared", cleared).Msg("expired reset tokens cleared")
	}
}
