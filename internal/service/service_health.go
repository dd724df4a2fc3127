package service

import (
	"context"
	"fmt"
)

// Pinger is implemented by dependencies that can report their availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthService struct {
	deps map[string]Pinger
}

// NewHealthService checks every dependency in deps, keyed by name.
func NewHealthService(deps map[string]Pinger) HealthService {
	return &healthService{deps: deps}
}

func (s *healthService) Check(ctx context.Context) error {
	for name, dep := range s.deps {
		if err := dep.Ping(ctx); err != nil {
			return fmt.Errorf("%s is unavailable: %w", name, err)
		}
	}
	return nil
}
