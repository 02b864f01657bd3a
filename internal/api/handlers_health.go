// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/models"
)

// Health handles GET /api/v1/health. The status is "degraded" with 503
// when the catalog cannot be read, and "degraded" with 200 when any
// inference breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:         "healthy",
		MetricsBackend: h.metrics.Backend(),
		UptimeSeconds:  int64(time.Since(h.startTime).Seconds()),
	}
	if h.breakers != nil {
		status.Breakers = h.breakers.BreakerStates()
		for _, state := range status.Breakers {
			if state == "open" {
				status.Status = "degraded"
			}
		}
	}

	books, users, err := h.catalog.Counts(r.Context())
	if err == nil {
		status.CatalogVersion, err = h.catalog.Version(r.Context())
	}
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("health check: catalog unavailable")
		status.Status = "degraded"
		respondSuccess(w, http.StatusServiceUnavailable, status, models.Metadata{})
		return
	}
	status.Books = books
	status.Users = users

	respondSuccess(w, http.StatusOK, status, models.Metadata{})
}
