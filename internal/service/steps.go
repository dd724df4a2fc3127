package service

import (
	"context"
	"fmt"
)

// Operation tells a save step whether the record is being created or updated.
type Operation int

const (
	OpCreate Operation = iota
	OpUpdate
)

// Step is one named pre-save transformation of a record. Steps run in the
// order they are declared, before validation-independent persistence.
type Step[T any] struct {
	Name string
	Run  func(ctx context.Context, rec *T, op Operation) error
}

// runSteps applies steps to rec in order and stops at the first error.
func runSteps[T any](ctx context.Context, steps []Step[T], rec *T, op Operation) error {
	for _, s := range steps {
		if err := s.Run(ctx, rec, op); err != nil {
			return fmt.Errorf("save step %s: %w", s.Name, err)
		}
	}
	return nil
}
