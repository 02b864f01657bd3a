// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/variant"
)

func decodeHealth(t *testing.T, body []byte) models.HealthStatus {
	t.Helper()
	var resp struct {
		Data models.HealthStatus `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Data
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	h := decodeHealth(t, rec.Body.Bytes())
	if h.Status != "healthy" {
		t.Errorf("status = %q", h.Status)
	}
	if h.Books != 3 || h.Users != 2 {
		t.Errorf("counts = %d books, %d users", h.Books, h.Users)
	}
	if h.CatalogVersion == 0 {
		t.Error("catalog version should be non-zero after writes")
	}
	if h.MetricsBackend != "memory" {
		t.Errorf("backend = %q", h.MetricsBackend)
	}
	if h.Breakers[variant.ContentBased.String()] != "closed" {
		t.Errorf("breakers = %v", h.Breakers)
	}
}

func TestHealth_OpenBreakerDegrades(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.handler.breakers = staticBreakers{
		variant.Collaborative.String(): "open",
		variant.ContentBased.String():  "closed",
	}

	rec := env.do(t, http.MethodGet, "/api/v1/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if h := decodeHealth(t, rec.Body.Bytes()); h.Status != "degraded" {
		t.Errorf("status = %q, want degraded", h.Status)
	}
}
