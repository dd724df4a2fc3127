package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-tours/internal/adapter"
	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/crypto"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/MKhiriev/go-tours/models"
)

const resetPath = "/api/v1/auth/reset-password/"

type passwordResetService struct {
	users     store.UserRepository
	hasher    crypto.PasswordHasher
	tokens    TokenService
	notifier  adapter.Notifier
	validator validators.Validator
	steps     []Step[userRecord]

	ttl     time.Duration
	urlBase string

	newToken func() (token, hash string, err error)
	now      func() time.Time
	logger   *logger.Logger
}

// NewPasswordResetService constructs a [PasswordResetService]. Reset tokens
// live for cfg.ResetTokenTTL and links point at cfg.ResetURLBase.
func NewPasswordResetService(users store.UserRepository, hasher crypto.PasswordHasher, tokens TokenService,
	notifier adapter.Notifier, cfg config.App, logger *logger.Logger) PasswordResetService {
	return &passwordResetService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		notifier:  notifier,
		validator: validators.NewUserValidator(),
		steps:     userSaveSteps(hasher, time.Now),
		ttl:       cfg.ResetTokenTTL,
		urlBase:   strings.TrimRight(cfg.ResetURLBase, "/"),
		newToken:  crypto.NewResetToken,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *passwordResetService) Start(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" {
		return validators.FieldError(validators.FieldEmail, "Please provide your email")
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		log.Debug().Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("user search by email failed: %w", err)
	}

	token, hash, err := s.newToken()
	if err != nil {
		return err
	}

	expiresAt := s.now().UTC().Add(s.ttl)
	if err := s.users.SetPasswordResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	if err := s.notifier.Send(ctx, user.Email, s.resetSubject(), s.resetMessage(token)); err != nil {
		log.Err(err).Int64("user_id", user.ID).Msg("reset notification failed")
		if clearErr := s.users.ClearPasswordResetToken(ctx, user.ID); clearErr != nil {
			log.Err(clearErr).Int64("user_id", user.ID).Msg("error clearing reset token")
		}
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}

	log.Info().Int64("user_id", user.ID).Msg("password reset token sent")
	return nil
}

func (s *passwordResetService) resetSubject() string {
	return fmt.Sprintf("Your password reset token (valid for %s)", formatTTL(s.ttl))
}

func (s *passwordResetService) resetMessage(token string) string {
	return fmt.Sprintf("Forgot your password? Submit a PATCH request with your new password and passwordConfirm to: %s%s%s.\n"+
		"If you didn't forget your password, please ignore this email!", s.urlBase, resetPath, token)
}

// formatTTL renders whole hours and minutes as "1 h" or "10 min" and
// anything else in Go duration notation.
func formatTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d h", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d min", d/time.Minute)
	default:
		return d.String()
	}
}

func (s *passwordResetService) Complete(ctx context.Context, token string, req models.ResetPasswordRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Token{}, err
	}
	if token == "" {
		return models.User{}, models.Token{}, ErrInvalidOrExpiredResetToken
	}

	rec := userRecord{Password: req.Password}
	if err := runSteps(ctx, s.steps, &rec, OpUpdate); err != nil {
		return models.User{}, models.Token{}, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	user, err := s.users.ResetPassword(ctx, crypto.HashResetToken(token), rec.PasswordHash, now)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, models.Token{}, ErrInvalidOrExpiredResetToken
	}
	if err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("password reset failed: %w", err)
	}

	issued, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	log.Info().Int64("user_id", user.ID).Msg("password reset completed")
	return user, issued, nil
}
