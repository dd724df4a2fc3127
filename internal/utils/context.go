// Package utils provides general-purpose helpers used across the
// application: typed context keys, JSON response writing, the HTTP client,
// JWT generation and validation, and trace id generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-tours/models"
)

// contextKey is a private type for context keys, preventing collisions with
// string keys of other packages.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the key under which the authenticated user is stored.
var IdentityCtxKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying user as the current identity.
func WithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, user)
}

// GetIdentityFromContext returns the authenticated user stored in ctx.
// ok is false when the request did not pass the auth guard.
func GetIdentityFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(IdentityCtxKey).(*models.User)
	return user, ok && user != nil
}
