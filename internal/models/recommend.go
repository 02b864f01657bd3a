// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

// RecommendRequest is the body of POST /api/v1/recommend.
// NumRecommendations defaults to 5 when omitted.
type RecommendRequest struct {
	UserID             string `json:"user_id" validate:"required,max=128"`
	NumRecommendations int    `json:"num_recommendations" validate:"gte=1"`
}

// Recommendation is one recommended catalog item.
type Recommendation struct {
	ItemID string `json:"item_id"`
}

// RecommendResponse is the success body of POST /api/v1/recommend.
type RecommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// ClickRequest reports a click on a recommendation served by ModelName.
type ClickRequest struct {
	ModelName string `json:"model_name" validate:"required"`
	UserID    int    `json:"user_id"`
}

// VariantMetrics is the per-variant CTR snapshot.
type VariantMetrics struct {
	Model       string  `json:"model"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// HealthStatus is returned by GET /api/v1/health.
type HealthStatus struct {
	Status         string            `json:"status"`
	Books          int               `json:"books"`
	Users          int               `json:"users"`
	CatalogVersion uint64            `json:"catalog_version"`
	MetricsBackend string            `json:"metrics_backend"`
	UptimeSeconds  int64             `json:"uptime_seconds"`
	Breakers       map[string]string `json:"breakers,omitempty"`
}
