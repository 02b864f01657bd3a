// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/authz"
	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/variant"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{Level: "error", Format: "console", Output: io.Discard})
}

const testJWTSecret = "test-secret-with-enough-entropy-0123456789"

// stubScorer returns fixed indices or a fixed error.
type stubScorer struct {
	mu      sync.Mutex
	indices []int
	err     error
	calls   int
	lastK   int
}

func (s *stubScorer) Score(_ context.Context, _ variant.Variant, _ int, k int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastK = k
	if s.err != nil {
		return nil, s.err
	}
	return s.indices, nil
}

// staticBreakers reports fixed breaker states.
type staticBreakers map[string]string

func (b staticBreakers) BreakerStates() map[string]string { return b }

// testEnv is a fully wired API over an in-memory catalog.
type testEnv struct {
	store   *catalog.Store
	agg     *metrics.Aggregator
	scorer  *stubScorer
	jwt     *auth.JWTManager
	handler *Handler
	server  http.Handler
}

// newTestEnv seeds books b1..b3 and users u1, u2. Threshold 1 routes every
// request to the collaborative variant.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := catalog.Open(catalog.Options{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	for _, id := range []string{"b1", "b2", "b3"} {
		if err := store.CreateBook(ctx, &models.Book{ID: id, Title: "Book " + id}); err != nil {
			t.Fatalf("create book: %v", err)
		}
	}
	for _, id := range []string{"u1", "u2"} {
		if err := store.CreateUser(ctx, &models.User{ID: id, Username: "user-" + id}); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	agg := metrics.NewAggregator(metrics.NewMemoryStore())
	scorer := &stubScorer{indices: []int{0, 1, 2}}

	cfg := recommend.DefaultConfig()
	cfg.SplitThreshold = 1
	cfg.Seed = 7
	svc, err := recommend.NewService(cfg, store, scorer, agg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(svc.Close)

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testJWTSecret})
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}
	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	t.Cleanup(enforcer.Close)

	handler := NewHandler(svc, agg, store, staticBreakers{
		variant.Collaborative.String(): "closed",
		variant.ContentBased.String():  "closed",
	}, HandlerConfig{MaxCount: 50})

	chiMw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"http://dashboard.local"},
		CORSAllowedMethods: []string{"GET", "POST", "DELETE"},
		RateLimitDisabled:  true,
	})
	router := NewRouter(handler, chiMw, auth.NewMiddleware(jwtManager), authz.NewMiddleware(enforcer), nil)

	return &testEnv{
		store:   store,
		agg:     agg,
		scorer:  scorer,
		jwt:     jwtManager,
		handler: handler,
		server:  router.SetupChi(),
	}
}

func (e *testEnv) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) token(t *testing.T, role string) string {
	t.Helper()
	tok, err := e.jwt.GenerateToken("op-1", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func (e *testEnv) counts(t *testing.T) map[string]models.VariantMetrics {
	t.Helper()
	snap, err := e.agg.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	out := make(map[string]models.VariantMetrics, len(snap))
	for _, m := range snap {
		out[m.Model] = m
	}
	return out
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	return resp
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return resp.Error.Code
}
