package service

import (
	"errors"
	"fmt"
)

// Errors returned to clients. Their text is the message shown in the
// response envelope.
var (
	ErrIncorrectCredentials     = errors.New("Incorrect email or password")
	ErrIncorrectCurrentPassword = errors.New("Your current password is wrong.")

	ErrNotLoggedIn             = errors.New("You are not logged in! Please log in to get access.")
	ErrTokenIsExpiredOrInvalid = errors.New("Invalid token. Please log in again!")
	ErrUserNoLongerExists      = errors.New("The user belonging to this token does no longer exist.")
	ErrPasswordChanged         = errors.New("User recently changed password! Please log in again.")

	ErrForbidden = errors.New("You do not have permission to perform this action")

	ErrInvalidOrExpiredResetToken = errors.New("Token is invalid or has expired")
	ErrNotification               = errors.New("There was an error sending the email. Try again later!")

	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")
)

var (
	ErrVersionIsNotSpecified = errors.New("application version is not specified")
	ErrTokenCreationFailed   = errors.New("token creation failed")
)

// NotFoundError reports a missing record of a named resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No %s found with that ID", e.Resource)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
