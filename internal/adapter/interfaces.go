// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter delivers outbound notifications such as password reset
// messages.
//
// The primary abstraction is [Notifier]. [NewNotifier] selects one backend
// from configuration: SMTP, the Mailgun HTTP API, a JSON webhook or the
// application log (development only).
//
// Transport failures are wrapped in [ErrDelivery] so callers can use
// [errors.Is] without knowing the backend.
package adapter

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/notifier_mock.go -package=mock

// Notifier sends a plain-text message to one recipient. Send blocks until
// the backend accepted the message, ctx is done or delivery failed.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
