// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		endpoint string
		status   string
	}{
		{"recommend ok", "POST", "/api/v1/recommend", "200"},
		{"recommend not mapped", "POST", "/api/v1/recommend", "404"},
		{"click", "POST", "/api/v1/click", "200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status))
			RecordAPIRequest(tt.method, tt.endpoint, tt.status, 15*time.Millisecond)
			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status))
			if after != before+1 {
				t.Errorf("api_requests_total = %v, want %v", after, before+1)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordIDMapCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(IDMapCacheLookups.WithLabelValues("items", "hit"))
	misses := testutil.ToFloat64(IDMapCacheLookups.WithLabelValues("items", "miss"))

	RecordIDMapCacheLookup("items", true)
	RecordIDMapCacheLookup("items", false)
	RecordIDMapCacheLookup("items", false)

	if got := testutil.ToFloat64(IDMapCacheLookups.WithLabelValues("items", "hit")); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(IDMapCacheLookups.WithLabelValues("items", "miss")); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestRecordIDMapBuild(t *testing.T) {
	RecordIDMapBuild("users", 42, 3*time.Millisecond)
	if got := testutil.ToFloat64(IDMapSize.WithLabelValues("users")); got != 42 {
		t.Errorf("idmap_entries{users} = %v, want 42", got)
	}
}

func TestRecordInference(t *testing.T) {
	before := testutil.ToFloat64(InferenceRequests.WithLabelValues("content_based_recommend", "success"))
	RecordInference("content_based_recommend", "success", 120*time.Millisecond)
	after := testutil.ToFloat64(InferenceRequests.WithLabelValues("content_based_recommend", "success"))
	if after != before+1 {
		t.Errorf("inference_requests_total = %v, want %v", after, before+1)
	}
}
