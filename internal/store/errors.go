package store

import "errors"

// Sentinel errors returned by repositories. Callers match them with
// [errors.Is].
var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrUserNotFound is returned by credential lookups that match no active user.
	ErrUserNotFound = errors.New("no user was found")

	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Low-level database operation errors.
var (
	ErrBuildingSQLQuery   = errors.New("error building sql query")
	ErrExecutingQuery     = errors.New("error executing sql query")
	ErrExecutingStatement = errors.New("failed to executing statement")
	ErrScanningRow        = errors.New("failed to scan row")
	ErrScanningRows       = errors.New("failed to scan rows")
)
