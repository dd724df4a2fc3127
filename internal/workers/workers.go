package workers

import (
	"context"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/store"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

// NewWorkers returns the background workers of the API server.
func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	return &Workers{workers: []Worker{
		NewResetTokenJanitor(storages.Users, cfg.ResetSweepInterval, logger),
	}}
}

// Run starts every worker and waits for all of them. The first failure
// cancels the others.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error { return worker.Run(gctx) })
	}
	return g.Wait()
}
