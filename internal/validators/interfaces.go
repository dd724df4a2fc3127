// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators holds the per-resource validation rules of the tours API.
//
// Every validator implements [Validator]. A failed validation returns a
// *[ValidationError] listing each violated field, which matches
// [ErrValidation] with errors.Is. Passing field names to Validate restricts
// the check to those fields.
package validators

import "context"

// Validator validates the provided input and optionally restricts
// validation to specific named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
