// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingWarmer struct {
	calls atomic.Int32
	err   error
}

func (w *countingWarmer) Warm(ctx context.Context) error {
	w.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("refresh context has no deadline")
	}
	return w.err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestIndexRefreshService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		warmErr   error
		onStartup bool
		minCalls  int32
	}{
		{"warms on startup and on ticks", nil, true, 3},
		{"ticks only", nil, false, 2},
		{"keeps running after failures", errors.New("catalog down"), true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			warmer := &countingWarmer{err: tt.warmErr}
			svc := NewIndexRefreshService(warmer, IndexRefreshConfig{
				WarmOnStartup: tt.onStartup,
				Interval:      10 * time.Millisecond,
			}, zerolog.Nop())

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			waitFor(t, func() bool { return warmer.calls.Load() >= tt.minCalls })
			cancel()

			if err := <-errCh; !errors.Is(err, context.Canceled) {
				t.Errorf("Serve = %v, want context.Canceled", err)
			}
		})
	}
}

func TestIndexRefreshService_Defaults(t *testing.T) {
	t.Parallel()
	svc := NewIndexRefreshService(&countingWarmer{}, IndexRefreshConfig{}, zerolog.Nop())
	if svc.config.Interval != time.Minute || svc.config.Timeout != 30*time.Second {
		t.Errorf("config = %+v", svc.config)
	}
	if svc.String() != "index-refresh-service" {
		t.Errorf("String() = %q", svc.String())
	}
}
