// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the business operations of the tours API:
// authentication and password management, self-service user operations,
// tour aggregates and the generic CRUD services of every resource.
//
// Services depend on store interfaces only and never on transport types.
package service

import (
	"context"

	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/models"
)

// TokenService issues and verifies stateless bearer tokens.
type TokenService interface {
	Issue(userID int64) (models.Token, error)

	// Verify returns ErrTokenIsExpiredOrInvalid for any bad token.
	Verify(tokenString string) (models.Token, error)
}

// AuthService owns every operation that reads or writes credentials.
type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (models.User, models.Token, error)
	Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error)

	// Authenticate resolves a bearer token to an active user. Tokens issued
	// before the last password change are rejected.
	Authenticate(ctx context.Context, tokenString string) (models.User, error)

	UpdatePassword(ctx context.Context, userID int64, req models.UpdatePasswordRequest) (models.User, models.Token, error)
}

// PasswordResetService implements the forgot/reset password flow.
type PasswordResetService interface {
	// Start emails a reset link to the user owning email. Unknown emails
	// succeed silently.
	Start(ctx context.Context, email string) error

	// Complete consumes token and sets the new password.
	Complete(ctx context.Context, token string, req models.ResetPasswordRequest) (models.User, models.Token, error)
}

// UserService implements the self-service operations of the current user.
type UserService interface {
	Me(ctx context.Context, userID int64) (models.User, error)

	// UpdateMe applies a JSON patch restricted to name, email and photo.
	UpdateMe(ctx context.Context, userID int64, patch []byte) (models.User, error)

	// DeleteMe deactivates the user.
	DeleteMe(ctx context.Context, userID int64) error
}

// ResourceService is the generic CRUD service of one resource type.
type ResourceService[T any] interface {
	List(ctx context.Context, spec query.Spec) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, record T) (T, error)

	// Update merges the JSON patch into the stored record and saves it.
	Update(ctx context.Context, id int64, patch []byte) (T, error)
	Delete(ctx context.Context, id int64) error

	// Name is the human readable resource name used in messages.
	Name() string
	Schema() *store.Schema[T]
}

// TourReportService computes tour aggregates.
type TourReportService interface {
	Stats(ctx context.Context) ([]models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetAppInfo(ctx context.Context) models.AppInfo
}

// HealthService reports whether the dependencies of the server are usable.
type HealthService interface {
	Check(ctx context.Context) error
}
