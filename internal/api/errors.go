// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/inference"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/variant"
)

// API error codes.
const (
	CodeUserNotMapped      = "USER_NOT_MAPPED"
	CodeUpstreamInference  = "UPSTREAM_INFERENCE_FAILED"
	CodeEmptyCatalog       = "EMPTY_CATALOG"
	CodeUnknownVariant     = "UNKNOWN_VARIANT"
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	CodeMetricsUnavailable = "METRICS_UNAVAILABLE"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeInternal           = "INTERNAL_ERROR"
)

// classify maps a service error to its HTTP status, code and message.
func classify(err error) (status int, code, message string) {
	var upstream *inference.UpstreamInferenceError

	switch {
	case errors.Is(err, recommend.ErrUserNotMapped):
		return http.StatusNotFound, CodeUserNotMapped, err.Error()
	case errors.As(err, &upstream):
		if upstream.StatusCode != 0 {
			return http.StatusInternalServerError, CodeUpstreamInference,
				fmt.Sprintf("inference endpoint for %s returned status %d: %s", upstream.Variant, upstream.StatusCode, upstream.Reason)
		}
		return http.StatusInternalServerError, CodeUpstreamInference,
			fmt.Sprintf("inference endpoint for %s failed: %s", upstream.Variant, upstream.Reason)
	case errors.Is(err, inference.ErrUpstreamInference):
		return http.StatusInternalServerError, CodeUpstreamInference, err.Error()
	case errors.Is(err, recommend.ErrEmptyCatalog):
		return http.StatusInternalServerError, CodeEmptyCatalog, "catalog has no books to recommend"
	case errors.Is(err, variant.ErrUnknown):
		return http.StatusBadRequest, CodeUnknownVariant, err.Error()
	case errors.Is(err, recommend.ErrCatalogUnavailable):
		return http.StatusInternalServerError, CodeCatalogUnavailable, "catalog is unavailable"
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, "resource not found"
	case errors.Is(err, catalog.ErrDuplicate):
		return http.StatusConflict, CodeConflict, "a document with this id already exists"
	default:
		return http.StatusInternalServerError, CodeInternal, "internal server error"
	}
}

// respondServiceError writes err in the error envelope. Server-side
// failures are logged with the request id; client errors are not.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().
			Str("code", code).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("request failed")
	}
	respondError(w, status, code, message, nil)
}
