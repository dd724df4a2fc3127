package models

import "time"

// User represents an account entity used for authentication and authorization.
// Credential fields are never serialized to clients.
type User struct {
	// ID is the stable unique identifier of the user.
	ID int64 `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the unique, lower-cased login identifier.
	Email string `json:"email"`

	// Photo is an optional avatar file name.
	Photo string `json:"photo,omitempty"`

	// Role controls which operations the user may perform.
	Role Role `json:"role"`

	// PasswordHash is the bcrypt digest of the user's password.
	PasswordHash string `json:"-"`

	// Active is false once the user deleted their account.
	Active bool `json:"-"`

	// PasswordChangedAt is set whenever the password changes after signup.
	PasswordChangedAt *time.Time `json:"-"`

	// PasswordResetTokenHash and PasswordResetExpiresAt are either both set
	// or both nil.
	PasswordResetTokenHash *string    `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time.
func (u User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Before(*u.PasswordChangedAt)
}

// HasPendingReset reports whether a reset token is stored for the user.
func (u User) HasPendingReset() bool {
	return u.PasswordResetTokenHash != nil && u.PasswordResetExpiresAt != nil
}
