package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-tours/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidJWTParams = errors.New("invalid params for generating JWT Token")
	ErrEmptySubject     = errors.New("empty subject error")
)

// GenerateJWTToken creates a signed HMAC-SHA256 JWT for userID issued at now.
//
// Besides the registered claims (iss, sub, iat, exp) the token carries
// "iat_ms", the issue time with millisecond precision.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("go-tours", 42, time.Hour, "secret", time.Now())
func GenerateJWTToken(issuer string, userID int64, tokenDuration time.Duration, signKey string, now time.Time) (models.Token, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, ErrInvalidJWTParams
	}

	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		IssuedAtMs: now.UnixMilli(),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return models.Token{
		Claims:       claims,
		SignedString: tokenString,
		UserID:       userID,
		IssuedAt:     claims.IssuedAtTime(),
	}, nil
}

// ValidateAndParseJWTToken verifies the signature, algorithm, issuer and
// expiry of tokenString and extracts the user it was issued for.
// now supplies the clock used for the expiry check.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string, now func() time.Time) (models.Token, error) {
	var claims models.Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Subject == "" {
		return models.Token{}, ErrEmptySubject
	}

	userID, err := claims.GetUserID()
	if err != nil {
		return models.Token{}, err
	}

	return models.Token{
		Claims:       claims,
		SignedString: tokenString,
		UserID:       userID,
		IssuedAt:     claims.IssuedAtTime(),
	}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
