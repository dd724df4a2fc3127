package validators

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid input data")
)

// ValidationError collects field-level constraint violations.
// Fields maps the JSON field name to a human-readable message.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty *ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// FieldError is a shorthand for a ValidationError with a single field.
func FieldError(field, message string) error {
	return NewValidationError().Add(field, message)
}

// Add records a violation for field. The first message per field is kept.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
	return e
}

// OrNil returns nil when no violation was recorded.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Error lists all messages ordered by field name.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, e.Fields[k])
	}
	return "Invalid input data. " + strings.Join(messages, ". ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
