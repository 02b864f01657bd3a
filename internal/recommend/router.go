// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/variant"
)

// ImpressionRecorder counts one offer of a variant.
type ImpressionRecorder interface {
	RecordImpression(ctx context.Context, v variant.Variant) error
}

// Router assigns each request to a variant with a uniform draw.
type Router struct {
	threshold float64
	recorder  ImpressionRecorder
	logger    zerolog.Logger

	// Random source (protected by mu for concurrent access)
	rng *rand.Rand
	mu  sync.Mutex
}

// NewRouter creates a router. Draws below threshold select the
// collaborative variant. A zero seed seeds from the clock.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(threshold float64, seed int64, recorder ImpressionRecorder, logger zerolog.Logger) *Router {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Router{
		threshold: threshold,
		recorder:  recorder,
		logger:    logger.With().Str("component", "router").Logger(),
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // traffic splitting, not security
	}
}

// Threshold returns the split point.
func (r *Router) Threshold() float64 {
	return r.threshold
}

// Select picks a variant and records an impression for it before
// returning. A failed impression write is logged and does not fail the
// request.
func (r *Router) Select(ctx context.Context) variant.Variant {
	v := r.pick()
	if r.recorder != nil {
		if err := r.recorder.RecordImpression(ctx, v); err != nil {
			r.logger.Warn().
				Err(err).
				Str("request_id", logging.RequestIDFromContext(ctx)).
				Str("model", v.String()).
				Msg("failed to record impression")
		}
	}
	return v
}

func (r *Router) pick() variant.Variant {
	r.mu.Lock()
	draw := r.rng.Float64()
	r.mu.Unlock()

	if draw < r.threshold {
		return variant.Collaborative
	}
	return variant.ContentBased
}
