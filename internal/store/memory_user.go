package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-tours/models"
)

// memoryUserRepository is the in-memory [UserRepository]. It shares its
// table with the users [ResourceRepository] returned by [NewMemoryStorages].
type memoryUserRepository struct {
	table *memoryTable[models.User]
	now   func() time.Time
}

// NewMemoryUserRepository returns an empty in-memory [UserRepository].
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{table: newMemoryTable[models.User](), now: nowFunc}
}

func (r *memoryUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	for _, other := range r.table.rows {
		if strings.EqualFold(other.Email, user.Email) {
			return models.User{}, fmt.Errorf("%w: (email)=(%s) already exists", ErrDuplicateKey, user.Email)
		}
	}

	r.table.nextID++
	user.ID = r.table.nextID
	user.Active = true
	user.CreatedAt = r.now().UTC()
	user.PasswordChangedAt = nil
	user.PasswordResetTokenHash = nil
	user.PasswordResetExpiresAt = nil
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	r.table.rows[user.ID] = user
	return user, nil
}

func (r *memoryUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	for _, u := range r.table.rows {
		if u.Active && u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *memoryUserRepository) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	u, ok := r.table.rows[id]
	if !ok || !u.Active {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *memoryUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) (models.User, error) {
	var updated models.User
	err := r.modify(id, func(u *models.User) {
		u.PasswordHash = passwordHash
		u.PasswordChangedAt = &changedAt
		updated = *u
	})
	return updated, err
}

func (r *memoryUserRepository) DeactivateUser(ctx context.Context, id int64) error {
	return r.modify(id, func(u *models.User) {
		u.Active = false
	})
}

func (r *memoryUserRepository) SetPasswordResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error {
	return r.modify(id, func(u *models.User) {
		u.PasswordResetTokenHash = &tokenHash
		u.PasswordResetExpiresAt = &expiresAt
	})
}

func (r *memoryUserRepository) ClearPasswordResetToken(ctx context.Context, id int64) error {
	return r.modify(id, func(u *models.User) {
		u.PasswordResetTokenHash = nil
		u.PasswordResetExpiresAt = nil
	})
}

func (r *memoryUserRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (models.User, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	for id, u := range r.table.rows {
		if !u.Active || !u.HasPendingReset() || *u.PasswordResetTokenHash != tokenHash {
			continue
		}
		if !u.PasswordResetExpiresAt.After(now) {
			return models.User{}, ErrUserNotFound
		}
		u.PasswordHash = passwordHash
		u.PasswordChangedAt = &now
		u.PasswordResetTokenHash = nil
		u.PasswordResetExpiresAt = nil
		r.table.rows[id] = u
		return u, nil
	}
	return models.User{}, ErrUserNotFound
}

func (r *memoryUserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	var cleared int64
	for id, u := range r.table.rows {
		if u.PasswordResetExpiresAt == nil || u.PasswordResetExpiresAt.After(now) {
			continue
		}
		u.PasswordResetTokenHash = nil
		u.PasswordResetExpiresAt = nil
		r.table.rows[id] = u
		cleared++
	}
	return cleared, nil
}

// modify applies fn to the active user with id under the write lock.
func (r *memoryUserRepository) modify(id int64, fn func(u *models.User)) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	u, ok := r.table.rows[id]
	if !ok || !u.Active {
		return ErrUserNotFound
	}
	fn(&u)
	r.table.rows[id] = u
	return nil
}
