package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
//
// All methods obtain a context-scoped logger via [logger.FromContext].
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by db.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Photo,
		&u.Role,
		&u.PasswordHash,
		&u.Active,
		&u.PasswordChangedAt,
		&u.PasswordResetTokenHash,
		&u.PasswordResetExpiresAt,
		&u.CreatedAt,
	)
	return u, err
}

// CreateUser persists a new user and returns it with server-assigned fields.
// A taken email yields [ErrDuplicateKey].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	created, err := scanUser(r.db.QueryRowContext(ctx, createUser, user.Name, user.Email, user.Photo, string(user.Role), user.PasswordHash))
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating user")
		return models.User{}, mapWriteError(err, UserSchema().FieldName)
	}

	return created, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

func (r *userRepository) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", findUserByID, id)
}

func (r *userRepository) findOne(ctx context.Context, funcName, stmt string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.db.retry(ctx, func(ctx context.Context) error {
		var scanErr error
		user, scanErr = scanUser(r.db.QueryRowContext(ctx, stmt, arg))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error finding user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) (models.User, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	user, err := scanUser(r.db.QueryRowContext(ctx, updateUserPassword, id, passwordHash, changedAt))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePassword").Int64("user_id", id).Msg("error updating password")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return user, nil
}

func (r *userRepository) DeactivateUser(ctx context.Context, id int64) error {
	return r.execOne(ctx, "*userRepository.DeactivateUser", deactivateUser, id)
}

func (r *userRepository) SetPasswordResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error {
	return r.execOne(ctx, "*userRepository.SetPasswordResetToken", setPasswordResetToken, id, tokenHash, expiresAt)
}

func (r *userRepository) ClearPasswordResetToken(ctx context.Context, id int64) error {
	return r.execOne(ctx, "*userRepository.ClearPasswordResetToken", clearPasswordResetToken, id)
}

// execOne runs a statement that must touch exactly one user.
func (r *userRepository) execOne(ctx context.Context, funcName, stmt string, args ...any) error {
	log := logger.FromContext(ctx)

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ResetPassword matches the token hash and expiry and replaces the password
// in one UPDATE, so concurrent attempts with the same token cannot both win.
func (r *userRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (models.User, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	user, err := scanUser(r.db.QueryRowContext(ctx, resetPassword, tokenHash, passwordHash, now))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ResetPassword").Msg("error resetting password")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return user, nil
}

func (r *userRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, clearExpiredResetTokens, now)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return result.RowsAffected()
}
