// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// dummyPassword is hashed once per hasher so lookups of unknown users still
// pay for a full bcrypt comparison.
const dummyPassword = "dummy-password-for-timing"

const maxPasswordBytes = 72

// ErrPasswordTooLong is returned by Hash for passwords bcrypt cannot hash.
var ErrPasswordTooLong = errors.New("password is longer than 72 bytes")

type bcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
	dummy []byte
}

// NewPasswordHasher returns a bcrypt [PasswordHasher] running at most
// workers hash operations at once.
func NewPasswordHasher(cost, workers int) (PasswordHasher, error) {
	if workers < 1 {
		workers = 1
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("error preparing password hasher: %w", err)
	}

	return &bcryptHasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(workers)),
		dummy: dummy,
	}, nil
}

func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(digest), nil
}

func (h *bcryptHasher) Compare(ctx context.Context, digest, password string) (bool, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.slots.Release(1)

	// No stored digest can match a password longer than maxPasswordBytes.
	if digest == "" || len(password) > maxPasswordBytes {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("error comparing password: %w", err)
	}
}
