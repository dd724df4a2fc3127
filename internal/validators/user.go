package validators

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-tours/models"
)

// User and credential field names.
const (
	FieldEmail           = "email"
	FieldRole            = "role"
	FieldPassword        = "password"
	FieldPasswordConfirm = "passwordConfirm"
	FieldPasswordCurrent = "passwordCurrent"
	FieldCredentials     = "credentials"
)

const (
	// MinPasswordLength is the shortest password accepted on signup and reset.
	MinPasswordLength = 8

	// MaxPasswordBytes is the bcrypt input limit. Longer passwords cannot be
	// hashed.
	MaxPasswordBytes = 72
)

type UserValidator struct{}

func NewUserValidator() Validator {
	return &UserValidator{}
}

func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.User:
		return v.validateUser(value, fields...)
	case *models.User:
		return v.validateUser(*value, fields...)

	case models.SignupRequest:
		return v.validateSignup(value, fields...)
	case *models.SignupRequest:
		return v.validateSignup(*value, fields...)

	case models.LoginRequest:
		return v.validateLogin(value)
	case *models.LoginRequest:
		return v.validateLogin(*value)

	case models.ResetPasswordRequest:
		return v.validateNewPassword(value.Password, value.PasswordConfirm)
	case *models.ResetPasswordRequest:
		return v.validateNewPassword(value.Password, value.PasswordConfirm)

	case models.UpdatePasswordRequest:
		return v.validateUpdatePassword(value)
	case *models.UpdatePasswordRequest:
		return v.validateUpdatePassword(*value)

	default:
		return ErrUnsupportedType
	}
}

func (v *UserValidator) validateUser(user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldEmail, FieldRole}
	}

	verr := NewValidationError()
	for _, f := range fields {
		switch f {
		case FieldName:
			if strings.TrimSpace(user.Name) == "" {
				verr.Add(f, "Please tell us your name!")
			}
		case FieldEmail:
			checkEmail(verr, user.Email)
		case FieldRole:
			if !user.Role.Valid() {
				verr.Add(f, "Role is either: user, guide, lead-guide, admin")
			}
		default:
			return ErrUnknownField
		}
	}

	return verr.OrNil()
}

func (v *UserValidator) validateSignup(req models.SignupRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldEmail, FieldPassword}
	}

	verr := NewValidationError()
	for _, f := range fields {
		switch f {
		case FieldName:
			if strings.TrimSpace(req.Name) == "" {
				verr.Add(f, "Please tell us your name!")
			}
		case FieldEmail:
			checkEmail(verr, req.Email)
		case FieldPassword:
			checkNewPassword(verr, req.Password, req.PasswordConfirm)
		default:
			return ErrUnknownField
		}
	}

	return verr.OrNil()
}

func (v *UserValidator) validateLogin(req models.LoginRequest) error {
	if req.Email == "" || req.Password == "" {
		return FieldError(FieldCredentials, "Please provide email and password!")
	}
	return nil
}

func (v *UserValidator) validateNewPassword(password, confirm string) error {
	verr := NewValidationError()
	checkNewPassword(verr, password, confirm)
	return verr.OrNil()
}

func (v *UserValidator) validateUpdatePassword(req models.UpdatePasswordRequest) error {
	verr := NewValidationError()
	if req.PasswordCurrent == "" {
		verr.Add(FieldPasswordCurrent, "Please provide your current password")
	}
	checkNewPassword(verr, req.Password, req.PasswordConfirm)
	return verr.OrNil()
}

func checkEmail(verr *ValidationError, email string) {
	if email == "" {
		verr.Add(FieldEmail, "Please provide your email")
		return
	}
	if !IsEmail(email) {
		verr.Add(FieldEmail, "Please provide a valid email")
	}
}

func checkNewPassword(verr *ValidationError, password, confirm string) {
	switch {
	case password == "":
		verr.Add(FieldPassword, "Please provide a password")
	case utf8.RuneCountInString(password) < MinPasswordLength:
		verr.Add(FieldPassword, "A password must have at least 8 characters")
	case len(password) > MaxPasswordBytes:
		verr.Add(FieldPassword, "A password must not be longer than 72 bytes")
	}
	if password != confirm {
		verr.Add(FieldPasswordConfirm, "Passwords are not the same!")
	}
}

// IsEmail reports whether s is a bare address such as "jonas@example.com".
// Display-name forms are rejected.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}
