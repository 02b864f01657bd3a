// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/variant"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 1 << 20

// Config configures the scoring client.
type Config struct {
	// APIToken is sent as a bearer credential.
	APIToken string

	// Endpoints maps each variant to its scoring URL. Both variants must
	// be present.
	Endpoints map[variant.Variant]string

	// Timeout bounds a single attempt.
	Timeout time.Duration

	// MaxRetries is the number of extra attempts after a retryable failure.
	MaxRetries   int
	RetryBackoff time.Duration

	// RateLimitQPS limits outbound calls per variant. Zero disables.
	RateLimitQPS   float64
	RateLimitBurst int

	// BreakerEnabled wraps each variant in a circuit breaker.
	BreakerEnabled bool
	Breaker        BreakerSettings

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Client scores users against the variant endpoints.
// It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiters   map[variant.Variant]*rate.Limiter
	breakers   map[variant.Variant]*breaker
	logger     zerolog.Logger
}

type scoreInputs struct {
	UserID int `json:"user_id"`
	K      int `json:"k"`
}

type scoreRequest struct {
	Inputs scoreInputs `json:"inputs"`
}

type scoreResponse struct {
	RecommendedBooks *[]int `json:"recommended_books"`
}

// New creates a scoring client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	for _, v := range variant.All() {
		if cfg.Endpoints[v] == "" {
			return nil, fmt.Errorf("missing endpoint for %s", v)
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Breaker == (BreakerSettings{}) {
		cfg.Breaker = DefaultBreakerSettings()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger = logger.With().Str("component", "inference").Logger()
	c := &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiters:   make(map[variant.Variant]*rate.Limiter),
		breakers:   make(map[variant.Variant]*breaker),
		logger:     logger,
	}
	for _, v := range variant.All() {
		if cfg.RateLimitQPS > 0 {
			burst := cfg.RateLimitBurst
			if burst < 1 {
				burst = 1
			}
			c.limiters[v] = rate.NewLimiter(rate.Limit(cfg.RateLimitQPS), burst)
		}
		if cfg.BreakerEnabled {
			c.breakers[v] = newBreaker("inference-"+v.String(), cfg.Breaker, logger)
		}
	}
	return c, nil
}

// Score asks v's model for k item indices for userIndex.
func (c *Client) Score(ctx context.Context, v variant.Variant, userIndex, k int) ([]int, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("score: %w: %q", variant.ErrUnknown, v)
	}

	start := time.Now()
	indices, err := c.score(ctx, v, userIndex, k)
	metrics.RecordInference(v.String(), outcome(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return indices, nil
}

func (c *Client) score(ctx context.Context, v variant.Variant, userIndex, k int) ([]int, error) {
	if lim := c.limiters[v]; lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return nil, &UpstreamInferenceError{Variant: v, Reason: "rate limited", Err: err}
		}
	}

	b := c.breakers[v]
	if b == nil {
		return c.scoreWithRetry(ctx, v, userIndex, k)
	}
	indices, err := b.execute(func() ([]int, error) {
		return c.scoreWithRetry(ctx, v, userIndex, k)
	})
	if err != nil && isRejection(err) {
		return nil, &UpstreamInferenceError{Variant: v, Reason: "circuit breaker " + b.state(), Err: err}
	}
	return indices, err
}

func (c *Client) scoreWithRetry(ctx context.Context, v variant.Variant, userIndex, k int) ([]int, error) {
	var lastErr *UpstreamInferenceError
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.InferenceRetries.WithLabelValues(v.String()).Inc()
			c.logger.Debug().
				Str("model", v.String()).
				Int("attempt", attempt+1).
				Err(lastErr).
				Msg("retrying scoring call")
			if err := sleepCtx(ctx, c.cfg.RetryBackoff); err != nil {
				return nil, lastErr
			}
		}

		indices, err := c.attempt(ctx, v, userIndex, k)
		if err == nil {
			return indices, nil
		}
		lastErr = err
		if !err.Retryable() || ctx.Err() != nil {
			break
		}
	}

	c.logger.Warn().
		Str("model", v.String()).
		Int("status", lastErr.StatusCode).
		Str("reason", lastErr.Reason).
		Msg("scoring call failed")
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, v variant.Variant, userIndex, k int) ([]int, *UpstreamInferenceError) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(scoreRequest{Inputs: scoreInputs{UserID: userIndex, K: k}})
	if err != nil {
		return nil, &UpstreamInferenceError{Variant: v, Reason: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoints[v], bytes.NewReader(body))
	if err != nil {
		return nil, &UpstreamInferenceError{Variant: v, Reason: "create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamInferenceError{Variant: v, Reason: "request failed", Err: err, transport: true}
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(limited, 512))
		return nil, &UpstreamInferenceError{
			Variant:    v,
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("unexpected status %s: %s", resp.Status, bytes.TrimSpace(snippet)),
		}
	}

	var out []scoreResponse
	if err := json.NewDecoder(limited).Decode(&out); err != nil {
		return nil, &UpstreamInferenceError{Variant: v, StatusCode: resp.StatusCode, Reason: "decode response", Err: err}
	}
	if len(out) == 0 || out[0].RecommendedBooks == nil {
		return nil, &UpstreamInferenceError{Variant: v, StatusCode: resp.StatusCode, Reason: "response missing recommended_books"}
	}
	return *out[0].RecommendedBooks, nil
}

// BreakerStates reports each variant's breaker state, or "disabled".
func (c *Client) BreakerStates() map[string]string {
	out := make(map[string]string, len(variant.All()))
	for _, v := range variant.All() {
		if b := c.breakers[v]; b != nil {
			out[v.String()] = b.state()
		} else {
			out[v.String()] = "disabled"
		}
	}
	return out
}

func outcome(err error) string {
	var upstream *UpstreamInferenceError
	switch {
	case err == nil:
		return "success"
	case isRejection(err):
		return "rejected"
	case errors.As(err, &upstream) && upstream.transport:
		return "transport_error"
	default:
		return "upstream_error"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
