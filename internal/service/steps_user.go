package service

import (
	"context"
	"strings"
	"time"

	"github.com/MKhiriev/go-tours/internal/crypto"
	"github.com/MKhiriev/go-tours/models"
)

// userRecord is a user on its way to the credential store. Password holds
// the plaintext until the hash-password step replaces it with a digest.
type userRecord struct {
	models.User
	Password string
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userSaveSteps(hasher crypto.PasswordHasher, now func() time.Time) []Step[userRecord] {
	return []Step[userRecord]{
		{
			Name: "normalize-email",
			Run: func(_ context.Context, u *userRecord, _ Operation) error {
				u.Email = NormalizeEmail(u.Email)
				return nil
			},
		},
		{
			Name: "hash-password",
			Run: func(ctx context.Context, u *userRecord, _ Operation) error {
				if u.Password == "" {
					return nil
				}
				digest, err := hasher.Hash(ctx, u.Password)
				if err != nil {
					return err
				}
				u.PasswordHash = digest
				u.Password = ""
				return nil
			},
		},
		{
			Name: "stamp-password-changed-at",
			Run: func(_ context.Context, u *userRecord, op Operation) error {
				if op == OpCreate || u.PasswordHash == "" {
					return nil
				}
				changedAt := now().UTC().Truncate(time.Millisecond)
				u.PasswordChangedAt = &changedAt
				return nil
			},
		},
	}
}
