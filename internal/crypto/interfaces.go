// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds the password hashing and reset-token primitives of
// the tours API.
package crypto

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher computes and verifies salted, cost-parameterized password
// digests. Both calls block until a hashing slot is free or ctx is done.
type PasswordHasher interface {
	// Hash returns the digest of password.
	Hash(ctx context.Context, password string) (string, error)

	// Compare reports whether password matches digest. An empty digest is
	// compared against a dummy so the call costs the same as a real check.
	Compare(ctx context.Context, digest, password string) (bool, error)
}
