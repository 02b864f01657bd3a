// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package inference

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shelfwise/internal/metrics"
)

// BreakerSettings tunes the per-variant circuit breaker.
type BreakerSettings struct {
	// MinRequests is the sample size before the failure ratio is considered.
	MinRequests uint32

	// FailureRatio opens the circuit once reached.
	FailureRatio float64

	// Interval resets counts while closed.
	Interval time.Duration

	// OpenTimeout is how long the circuit stays open before probing.
	OpenTimeout time.Duration

	// HalfOpenRequests is the number of probes allowed while half-open.
	HalfOpenRequests uint32
}

// DefaultBreakerSettings opens after 60% failures over at least 10 calls
// and probes again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:      10,
		FailureRatio:     0.6,
		Interval:         time.Minute,
		OpenTimeout:      30 * time.Second,
		HalfOpenRequests: 3,
	}
}

// breaker wraps one variant endpoint with circuit breaker protection.
type breaker struct {
	cb   *gobreaker.CircuitBreaker[[]int]
	name string
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBreaker(name string, st BreakerSettings, logger zerolog.Logger) *breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]int](gobreaker.Settings{
		Name:        name,
		MaxRequests: st.HalfOpenRequests,
		Interval:    st.Interval,
		Timeout:     st.OpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < st.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= st.FailureRatio
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Warn().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		// Caller cancellation says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &breaker{cb: cb, name: name}
}

// execute runs fn through the breaker. Rejections are returned as
// gobreaker.ErrOpenState or gobreaker.ErrTooManyRequests.
func (b *breaker) execute(fn func() ([]int, error)) ([]int, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case isRejection(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	return result, err
}

func (b *breaker) state() string {
	return stateToString(b.cb.State())
}

func isRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
