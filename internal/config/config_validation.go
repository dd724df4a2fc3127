// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/crypto/bcrypt"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: empty token sign key", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenDuration <= 0 {
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs)
	}
	if cfg.App.PasswordHashCost < bcrypt.MinCost || cfg.App.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: password hash cost must be in [%d, %d]", ErrInvalidAppConfigs, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.App.ResetTokenTTL <= 0 {
		return fmt.Errorf("%w: reset token ttl must be positive", ErrInvalidAppConfigs)
	}
	if err := validateBaseURL(cfg.App.ResetURLBase); err != nil {
		return fmt.Errorf("%w: reset url base: %w", ErrInvalidAppConfigs, err)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: empty http address", ErrInvalidServerConfigs)
	}
	if _, err := cfg.Server.TrustedPrefixes(); err != nil {
		return fmt.Errorf("%w: trusted proxies: %w", ErrInvalidServerConfigs, err)
	}

	if err := cfg.Adapter.Notifier.validate(); err != nil {
		return err
	}

	if cfg.Limiter.Requests <= 0 || cfg.Limiter.Window <= 0 {
		return ErrInvalidLimiterConfigs
	}

	if cfg.Workers.ResetSweepInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

// validateBaseURL accepts absolute http(s) URLs without query or fragment.
func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("empty url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) url", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%q must not carry a query or fragment", raw)
	}
	return nil
}

func (n Notifier) validate() error {
	switch n.Kind {
	case NotifierLog:
		return nil
	case NotifierSMTP:
		if n.SMTPHost == "" || n.SMTPPort == 0 || n.From == "" {
			return fmt.Errorf("%w: smtp notifier needs host, port and sender", ErrInvalidAdapterConfigs)
		}
	case NotifierMailgun:
		if n.MailgunDomain == "" || n.MailgunAPIKey == "" || n.From == "" {
			return fmt.Errorf("%w: mailgun notifier needs domain, api key and sender", ErrInvalidAdapterConfigs)
		}
	case NotifierWebhook:
		if n.WebhookURL == "" {
			return fmt.Errorf("%w: webhook notifier needs url", ErrInvalidAdapterConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown notifier kind %q", ErrInvalidAdapterConfigs, n.Kind)
	}
	return nil
}
