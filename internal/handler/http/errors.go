// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Transport level errors. Their text is sent to the client.
var (
	ErrTooManyRequests = errors.New("Too many requests from this IP, please try again in an hour!")
	ErrBodyTooLarge    = errors.New("Request body is too large")
	ErrInvalidJSON     = errors.New("Invalid JSON was passed")
)

// genericErrorMessage replaces the message of every unexpected failure.
const genericErrorMessage = "Something went very wrong!"

const duplicateKeyMessage = "Duplicate field value. Please use another value!"
