// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Inference Gateway Metrics
	InferenceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inference_requests_total",
			Help: "Remote scoring calls by variant and outcome",
		},
		[]string{"model", "outcome"}, // outcome: success, upstream_error, transport_error, rejected
	)

	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_request_duration_seconds",
			Help:    "Latency of remote scoring calls including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"model"},
	)

	InferenceRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inference_retries_total",
			Help: "Retried remote scoring attempts",
		},
		[]string{"model"},
	)

	// Identifier Mapping Metrics
	IDMapBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "idmap_build_duration_seconds",
			Help:    "Time to enumerate the catalog and build an index map",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"}, // items, users
	)

	IDMapSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "idmap_entries",
			Help: "Entries in the most recently built index map",
		},
		[]string{"kind"},
	)

	IDMapCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idmap_cache_lookups_total",
			Help: "Index map cache lookups by result",
		},
		[]string{"kind", "result"}, // result: hit, miss
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// WebSocket Metrics
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Connected live-metrics websocket clients",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordInference records the outcome of one Score call.
func RecordInference(model, outcome string, duration time.Duration) {
	InferenceRequests.WithLabelValues(model, outcome).Inc()
	InferenceDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordIDMapBuild records a catalog enumeration.
func RecordIDMapBuild(kind string, entries int, duration time.Duration) {
	IDMapBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
	IDMapSize.WithLabelValues(kind).Set(float64(entries))
}

// RecordIDMapCacheLookup records a cache hit or miss.
func RecordIDMapCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	IDMapCacheLookups.WithLabelValues(kind, result).Inc()
}
