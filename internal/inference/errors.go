// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package inference

import (
	"errors"
	"fmt"

	"github.com/tomtom215/shelfwise/internal/variant"
)

// ErrUpstreamInference matches every failed scoring call.
var ErrUpstreamInference = errors.New("upstream inference failed")

// UpstreamInferenceError describes a failed scoring call.
type UpstreamInferenceError struct {
	Variant variant.Variant

	// StatusCode is the upstream HTTP status, or 0 when no response was
	// received.
	StatusCode int

	Reason string
	Err    error

	transport bool
}

func (e *UpstreamInferenceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream inference failed for %s: status %d: %s", e.Variant, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("upstream inference failed for %s: %s", e.Variant, e.Reason)
}

// Is reports whether target is ErrUpstreamInference.
func (e *UpstreamInferenceError) Is(target error) bool {
	return target == ErrUpstreamInference
}

func (e *UpstreamInferenceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed: transport errors
// and 5xx responses.
func (e *UpstreamInferenceError) Retryable() bool {
	return e.transport || e.StatusCode >= 500
}
