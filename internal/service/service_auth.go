package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tours/internal/crypto"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/MKhiriev/go-tours/models"
)

// DefaultPhoto is stored for users that sign up without a photo.
const DefaultPhoto = "default.jpg"

// authService handles signup, login, token authentication and password
// changes on top of a [store.UserRepository].
type authService struct {
	users     store.UserRepository
	hasher    crypto.PasswordHasher
	tokens    TokenService
	validator validators.Validator
	steps     []Step[userRecord]

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService constructs an [AuthService]. The returned service is safe
// for concurrent use.
func NewAuthService(users store.UserRepository, hasher crypto.PasswordHasher, tokens TokenService, logger *logger.Logger) AuthService {
	return newAuthService(users, hasher, tokens, time.Now, logger)
}

func newAuthService(users store.UserRepository, hasher crypto.PasswordHasher, tokens TokenService, now func() time.Time, logger *logger.Logger) *authService {
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: validators.NewUserValidator(),
		steps:     userSaveSteps(hasher, now),
		now:       now,
		logger:    logger,
	}
}

// Signup registers a new user with the "user" role and logs them in.
func (a *authService) Signup(ctx context.Context, req models.SignupRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	req.Email = NormalizeEmail(req.Email)
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Token{}, err
	}

	photo := req.Photo
	if photo == "" {
		photo = DefaultPhoto
	}
	rec := userRecord{
		User: models.User{
			Name:  req.Name,
			Email: req.Email,
			Photo: photo,
			Role:  models.RoleUser,
		},
		Password: req.Password,
	}
	if err := runSteps(ctx, a.steps, &rec, OpCreate); err != nil {
		return models.User{}, models.Token{}, err
	}

	user, err := a.users.CreateUser(ctx, rec.User)
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("user creation ended with error")
		return models.User{}, models.Token{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	log.Info().Int64("user_id", user.ID).Msg("user signed up")
	return user, token, nil
}

// Login verifies the credentials and issues a token. Unknown emails and
// wrong passwords fail identically.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Token{}, err
	}

	user, err := a.users.FindUserByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		log.Err(err).Msg("user search by email failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by email failed: %w", err)
	}

	// user.PasswordHash is empty for unknown emails, which the hasher
	// compares against a dummy digest.
	ok, err := a.hasher.Compare(ctx, user.PasswordHash, req.Password)
	if err != nil {
		return models.User{}, models.Token{}, err
	}
	if !ok {
		log.Debug().Msg("incorrect email or password")
		return models.User{}, models.Token{}, ErrIncorrectCredentials
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, models.Token{}, err
	}
	return user, token, nil
}

// Authenticate resolves tokenString to the active user it was issued for.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	if tokenString == "" {
		return models.User{}, ErrNotLoggedIn
	}

	token, err := a.tokens.Verify(tokenString)
	if err != nil {
		return models.User{}, err
	}

	user, err := a.users.FindUserByID(ctx, token.UserID)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, ErrUserNoLongerExists
	}
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if user.ChangedPasswordAfter(token.IssuedAt) {
		return models.User{}, ErrPasswordChanged
	}
	return user, nil
}

// UpdatePassword changes the password of userID after checking the current
// one and returns a fresh token. Tokens issued earlier stop working.
func (a *authService) UpdatePassword(ctx context.Context, userID int64, req models.UpdatePasswordRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Token{}, err
	}

	user, err := a.users.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, models.Token{}, ErrUserNoLongerExists
	}
	if err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("user search by id failed: %w", err)
	}

	ok, err := a.hasher.Compare(ctx, user.PasswordHash, req.PasswordCurrent)
	if err != nil {
		return models.User{}, models.Token{}, err
	}
	if !ok {
		return models.User{}, models.Token{}, ErrIncorrectCurrentPassword
	}

	rec := userRecord{User: user, Password: req.Password}
	if err := runSteps(ctx, a.steps, &rec, OpUpdate); err != nil {
		return models.User{}, models.Token{}, err
	}

	updated, err := a.users.UpdatePassword(ctx, userID, rec.PasswordHash, *rec.PasswordChangedAt)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("password update failed")
		return models.User{}, models.Token{}, fmt.Errorf("password update failed: %w", err)
	}

	token, err := a.tokens.Issue(updated.ID)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	log.Info().Int64("user_id", userID).Msg("password updated")
	return updated, token, nil
}

// RequireRole returns ErrForbidden unless user holds one of roles.
func RequireRole(user models.User, roles ...models.Role) error {
	if !user.Role.In(roles...) {
		return ErrForbidden
	}
	return nil
}
