package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload issued to authenticated users.
//
// IssuedAtMs duplicates the "iat" claim with millisecond precision so a
// token issued within the same second as a password change can still be
// ordered against it.
type Claims struct {
	jwt.RegisteredClaims

	IssuedAtMs int64 `json:"iat_ms"`
}

// Token wraps a signed JWT together with the identity it was issued for.
type Token struct {
	// Claims holds the parsed or issued claim set.
	Claims Claims `json:"-"`

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`

	// IssuedAt is the millisecond-precision issue time of the token.
	IssuedAt time.Time `json:"-"`
}

// GetUserID parses the user identifier from the "sub" claim.
func (c Claims) GetUserID() (int64, error) {
	userIDString, err := c.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(userIDString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// IssuedAtTime returns the issue time, preferring the millisecond claim.
func (c Claims) IssuedAtTime() time.Time {
	if c.IssuedAtMs > 0 {
		return time.UnixMilli(c.IssuedAtMs)
	}
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
