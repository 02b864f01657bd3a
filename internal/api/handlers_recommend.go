// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/models"
)

// Recommend handles POST /api/v1/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidJSON, "request body must be a JSON object", nil)
		return
	}
	if req.NumRecommendations == 0 {
		req.NumRecommendations = h.config.DefaultCount
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if req.NumRecommendations > h.config.MaxCount {
		respondValidation(w, validationError("num_recommendations",
			fmt.Sprintf("num_recommendations must be at most %d", h.config.MaxCount)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	result, err := h.recommender.Recommend(ctx, req.UserID, req.NumRecommendations)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	recs := make([]models.Recommendation, len(result.ItemIDs))
	for i, id := range result.ItemIDs {
		recs[i] = models.Recommendation{ItemID: id}
	}
	writeJSON(w, http.StatusOK, models.RecommendResponse{Recommendations: recs})
}

// Click handles POST /api/v1/click. model_name and user_id are read from
// the query string, falling back to a JSON body.
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parseClick(r)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	if err := h.recommender.Click(r.Context(), req.ModelName, req.UserID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Click tracked"})
}

func parseClick(r *http.Request) (models.ClickRequest, *models.APIError) {
	var req models.ClickRequest
	q := r.URL.Query()

	if q.Has("model_name") || q.Has("user_id") {
		req.ModelName = q.Get("model_name")
		if raw := q.Get("user_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return req, validationError("user_id", "user_id must be an integer")
			}
			req.UserID = id
		}
		return req, nil
	}

	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		return req, validationError("body", "request body must be a JSON object")
	}
	return req, nil
}

// ResetMetrics handles POST /api/v1/reset_metrics.
func (h *Handler) ResetMetrics(w http.ResponseWriter, r *http.Request) {
	if err := h.metrics.Reset(r.Context()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("metrics reset failed")
		respondError(w, http.StatusInternalServerError, CodeMetricsUnavailable, "failed to reset metrics", nil)
		return
	}
	logging.Ctx(r.Context()).Info().Msg("A/B metrics reset")
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Metrics reset successfully"})
}

// MetricsHandler serves the CTR families merged with the process metrics
// of the default registry.
func (h *Handler) MetricsHandler() http.Handler {
	gatherers := prometheus.Gatherers{h.metrics.Gatherer(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
		ErrorLog:      promErrorLogger{},
	})
}

// promErrorLogger routes promhttp errors to the structured logger.
type promErrorLogger struct{}

func (promErrorLogger) Println(v ...interface{}) {
	logging.Error().Str("component", "promhttp").Msg(fmt.Sprint(v...))
}
