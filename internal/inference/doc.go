// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package inference calls the remote scoring models behind each variant.
//
// Each variant has one fixed HTTPS endpoint. A call POSTs
//
//	{"inputs": {"user_id": <index>, "k": <count>}}
//
// with a bearer token and expects a 200 response shaped as
//
//	[{"recommended_books": [<index>, ...]}]
//
// Every other outcome (non-200 status, transport failure, malformed body,
// open circuit) is reported as *UpstreamInferenceError, which matches
// ErrUpstreamInference under errors.Is.
//
// # Resilience
//
//   - Per-attempt timeout bounded by Config.Timeout
//   - Retries on transport errors and 5xx responses only, never on 4xx
//   - Optional per-variant outbound rate limit (golang.org/x/time/rate)
//   - Optional per-variant circuit breaker (sony/gobreaker) with state
//     exported to Prometheus
package inference
