// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package middleware provides HTTP middleware shared by every route.

Key Components:

  - Request ID: accepts or generates X-Request-ID and seeds the logging
    context with request and correlation ids
  - Prometheus Metrics: request count, latency and in-flight gauge labeled
    by chi route pattern
  - Request Logger: one structured line per request via zerolog

Middleware Stack:

The API router installs them in this order:

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.PrometheusMetrics)

All middleware uses the func(http.Handler) http.Handler shape so it can be
passed to chi's Use and With.
*/
package middleware
