// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package main is the Shelfwise server.
//
// Shelfwise serves book recommendations from two competing remote models
// (collaborative filtering and content-based), assigns each request to one
// of them at random, and tracks impressions, clicks and click-through rate
// per model so the two can be compared.
//
// # Startup Order
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging (zerolog)
//  3. Catalog store (badger)
//  4. CTR counters (memory or Redis)
//  5. Inference client (per-model circuit breakers and rate limits)
//  6. Recommendation service
//  7. JWT and Casbin for catalog writes
//  8. WebSocket hub for live metrics
//  9. Supervisor tree with the HTTP server, hub and index refresh
//
// # Configuration
//
// Commonly set environment variables:
//
//	HF_API_TOKEN           bearer token for the inference endpoints
//	CATALOG_PATH           badger directory (default /data/catalog)
//	METRICS_BACKEND        memory or redis
//	REDIS_ADDR             Redis address when METRICS_BACKEND=redis
//	JWT_SECRET             enables catalog writes for admin tokens
//	AB_SPLIT_THRESHOLD     share of requests routed to the collaborative model
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
// to ten seconds, the hub closes its clients and the catalog is closed last.
package main
