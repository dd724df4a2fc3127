package adapter

import "errors"

var (
	// ErrDelivery wraps every failed delivery attempt.
	ErrDelivery = errors.New("notification delivery failed")

	ErrUnknownNotifier = errors.New("unknown notifier kind")

	// Webhook responses.
	ErrBadRequest          = errors.New("webhook rejected the message")
	ErrUnauthorized        = errors.New("notifier unauthorized")
	ErrForbidden           = errors.New("notifier forbidden")
	ErrNotFound            = errors.New("webhook endpoint not found")
	ErrRateLimited         = errors.New("notifier rate limited")
	ErrInternalServerError = errors.New("webhook internal error")
	ErrBadGateway          = errors.New("webhook bad gateway")
)
