// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"fmt"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/logger"
)

// NewNotifier constructs the [Notifier] selected by cfg.Kind.
func NewNotifier(cfg config.Notifier, log *logger.Logger) (Notifier, error) {
	log.Info().Str("func", "NewNotifier").Str("kind", cfg.Kind).Msg("creating notifier")

	switch cfg.Kind {
	case config.NotifierLog, "":
		return NewLogNotifier(log), nil
	case config.NotifierSMTP:
		return NewSMTPNotifier(cfg), nil
	case config.NotifierMailgun:
		return NewMailgunNotifier(cfg), nil
	case config.NotifierWebhook:
		return NewWebhookNotifier(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNotifier, cfg.Kind)
	}
}
