// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists users, tours and reviews.
//
// Two backends implement the same interfaces: PostgreSQL (squirrel-built
// statements over the pgx stdlib driver) and an in-memory store used for
// development and tests. Repositories resolve every query.Spec against the
// resource [Schema], so unknown fields never reach SQL.
package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the credential store. Lookups only ever match active
// users.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)

	// UpdatePassword stores a new digest and stamps password_changed_at.
	UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) (models.User, error)

	// DeactivateUser soft-deletes the user.
	DeactivateUser(ctx context.Context, id int64) error

	// SetPasswordResetToken stores the hash and expiry of a reset token.
	SetPasswordResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error
	ClearPasswordResetToken(ctx context.Context, id int64) error

	// ResetPassword atomically consumes an unexpired reset token and
	// replaces the password. It returns ErrUserNotFound when no user holds
	// a matching, unexpired token.
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (models.User, error)

	// ClearExpiredResetTokens removes reset tokens that expired before now.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// ResourceRepository is the generic CRUD store of one resource type.
// FindByID, Update and Delete return ErrNotFound for unknown ids.
type ResourceRepository[T any] interface {
	Find(ctx context.Context, spec query.Spec) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, record T) (T, error)

	// Update overwrites the writable fields of the record with id.
	Update(ctx context.Context, id int64, record T) (T, error)
	Delete(ctx context.Context, id int64) error

	Schema() *Schema[T]
}

type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
