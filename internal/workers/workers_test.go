// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/mock"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// countingWorker counts its runs and blocks until cancelled.
type countingWorker struct {
	runs atomic.Int32
}

func (w *countingWorker) Run(ctx context.Context) error {
	w.runs.Add(1)
	<-ctx.Done()
	return nil
}

type failingWorker struct{ err error }

func (w failingWorker) Run(context.Context) error { return w.err }

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &countingWorker{}, &countingWorker{}, &countingWorker{}
	ws := &Workers{workers: []Worker{w1, w2, w3}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, ws.Run(ctx))
	for i, w := range []*countingWorker{w1, w2, w3} {
		assert.EqualValues(t, 1, w.runs.Load(), "worker[%d]", i)
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{}

	assert.NoError(t, ws.Run(context.Background()))
}

func TestWorkers_Run_FailureStopsOthers(t *testing.T) {
	boom := errors.New("boom")
	blocking := &countingWorker{}
	ws := &Workers{workers: []Worker{blocking, failingWorker{err: boom}}}

	err := ws.Run(context.Background())

	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, blocking.runs.Load())
}

func TestNewWorkers(t *testing.T) {
	ws := NewWorkers(store.NewMemoryStorages(), configWithInterval(time.Minute), logger.Nop())

	require.Len(t, ws.workers, 1)
	assert.IsType(t, &ResetTokenJanitor{}, ws.workers[0])
}

func TestResetTokenJanitor_Sweeps(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUserRepository(ctrl)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	swept := make(chan struct{}, 1)
	users.EXPECT().
		ClearExpiredResetTokens(gomock.Any(), now).
		DoAndReturn(func(context.Context, time.Time) (int64, error) {
			select {
			case swept <- struct{}{}:
			default:
			}
			return 2, nil
		}).
		MinTimes(1)

	j := NewResetTokenJanitor(users, 5*time.Millisecond, logger.Nop())
	j.now = func() time.Time { return now }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("janitor did not sweep")
	}
	cancel()
	assert.NoError(t, <-done)
}

func TestResetTokenJanitor_ErrorsAreNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUserRepository(ctrl)
	users.EXPECT().
		ClearExpiredResetTokens(gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("db down")).
		AnyTimes()

	j := NewResetTokenJanitor(users, 2*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	assert.NoError(t, j.Run(ctx))
}

func TestResetTokenJanitor_Disabled(t *testing.T) {
	j := NewResetTokenJanitor(nil, 0, logger.Nop())

	assert.NoError(t, j.Run(context.Background()))
}

func configWithInterval(d time.Duration) config.Workers {
	return config.Workers{ResetSweepInterval: d}
}
