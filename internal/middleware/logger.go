// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/shelfwise/internal/logging"
)

// RequestLogger writes one structured line per completed request.
// Health and metrics scrapes log at debug level.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		log := logging.Ctx(r.Context())
		event := log.Info()
		switch {
		case wrapper.statusCode >= 500:
			event = log.Error()
		case wrapper.statusCode >= 400:
			event = log.Warn()
		case r.URL.Path == "/metrics" || r.URL.Path == "/api/v1/health":
			event = log.Debug()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("http request")
	})
}
