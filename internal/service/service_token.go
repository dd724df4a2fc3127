package service

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/utils"
	"github.com/MKhiriev/go-tours/models"
)

// tokenService signs HS256 JWTs with a server-held secret.
type tokenService struct {
	signKey  string
	issuer   string
	duration time.Duration

	now func() time.Time
}

// NewTokenService constructs a [TokenService] from the token settings in cfg.
func NewTokenService(cfg config.App) TokenService {
	return &tokenService{
		signKey:  cfg.TokenSignKey,
		issuer:   cfg.TokenIssuer,
		duration: cfg.TokenDuration,
		now:      time.Now,
	}
}

func (s *tokenService) Issue(userID int64) (models.Token, error) {
	token, err := utils.GenerateJWTToken(s.issuer, userID, s.duration, s.signKey, s.now())
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}
	return token, nil
}

func (s *tokenService) Verify(tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.signKey, s.issuer, s.now)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	return token, nil
}
