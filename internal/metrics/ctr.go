// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/variant"
)

// CTR metric family names.
const (
	ImpressionsMetricName = "recommendations_impressions_total"
	ClicksMetricName      = "recommendations_clicks_total"
	CTRMetricName         = "recommendations_ctr"
)

// collectTimeout bounds a scrape-triggered snapshot.
const collectTimeout = 2 * time.Second

// Aggregator owns the A/B impression, click and CTR state.
type Aggregator struct {
	store    Store
	models   []string
	registry *prometheus.Registry
	logger   zerolog.Logger

	mu        sync.RWMutex
	listeners []func([]models.VariantMetrics)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the aggregator logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger.With().Str("component", "ctr").Logger()
	}
}

// NewAggregator builds an aggregator over store for both variants and
// registers its collector on a private registry.
func NewAggregator(store Store, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:    store,
		registry: prometheus.NewRegistry(),
		logger:   zerolog.Nop(),
	}
	for _, v := range variant.All() {
		a.models = append(a.models, v.String())
	}
	for _, opt := range opts {
		opt(a)
	}
	a.registry.MustRegister(newCTRCollector(func() (map[string]Counts, error) {
		ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
		defer cancel()
		return a.store.Snapshot(ctx, a.models)
	}))
	return a
}

// Gatherer exposes the CTR families for promhttp.
func (a *Aggregator) Gatherer() prometheus.Gatherer {
	return a.registry
}

// Backend names the underlying store.
func (a *Aggregator) Backend() string {
	return a.store.Name()
}

// Subscribe registers fn to receive a snapshot after every mutation.
func (a *Aggregator) Subscribe(fn func([]models.VariantMetrics)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// RecordImpression counts one offer of v.
func (a *Aggregator) RecordImpression(ctx context.Context, v variant.Variant) error {
	if !v.Valid() {
		return fmt.Errorf("record impression: %w: %q", variant.ErrUnknown, v)
	}
	if err := a.store.IncrImpression(ctx, v.String()); err != nil {
		return fmt.Errorf("record impression: %w", err)
	}
	a.notify(ctx)
	return nil
}

// RecordClick counts one click on v and recomputes its CTR.
func (a *Aggregator) RecordClick(ctx context.Context, v variant.Variant) error {
	if !v.Valid() {
		return fmt.Errorf("record click: %w: %q", variant.ErrUnknown, v)
	}
	ratio, err := a.store.IncrClick(ctx, v.String())
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	a.logger.Debug().Str("model", v.String()).Float64("ctr", ratio).Msg("click recorded")
	a.notify(ctx)
	return nil
}

// Reset zeroes impressions, clicks and CTR for both variants.
func (a *Aggregator) Reset(ctx context.Context) error {
	if err := a.store.Reset(ctx, a.models); err != nil {
		return fmt.Errorf("reset metrics: %w", err)
	}
	a.logger.Info().Msg("ctr metrics reset")
	a.notify(ctx)
	return nil
}

// Snapshot returns both variants' counters, A first.
func (a *Aggregator) Snapshot(ctx context.Context) ([]models.VariantMetrics, error) {
	counts, err := a.store.Snapshot(ctx, a.models)
	if err != nil {
		return nil, fmt.Errorf("snapshot metrics: %w", err)
	}
	out := make([]models.VariantMetrics, len(a.models))
	for i, m := range a.models {
		c := counts[m]
		out[i] = models.VariantMetrics{Model: m, Impressions: c.Impressions, Clicks: c.Clicks, CTR: c.CTR}
	}
	return out, nil
}

// Export renders the CTR families in the Prometheus text format.
func (a *Aggregator) Export(ctx context.Context) (string, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newCTRCollector(func() (map[string]Counts, error) {
		return a.store.Snapshot(ctx, a.models)
	}))
	families, err := reg.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return "", fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.String(), nil
}

func (a *Aggregator) notify(ctx context.Context) {
	a.mu.RLock()
	listeners := a.listeners
	a.mu.RUnlock()
	if len(listeners) == 0 {
		return
	}
	snap, err := a.Snapshot(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("snapshot for listeners failed")
		return
	}
	for _, fn := range listeners {
		fn(snap)
	}
}

// ctrCollector emits const metrics from a snapshot taken at collect time.
type ctrCollector struct {
	snapshot    func() (map[string]Counts, error)
	impressions *prometheus.Desc
	clicks      *prometheus.Desc
	ctr         *prometheus.Desc
}

func newCTRCollector(snapshot func() (map[string]Counts, error)) *ctrCollector {
	labels := []string{"model"}
	return &ctrCollector{
		snapshot:    snapshot,
		impressions: prometheus.NewDesc(ImpressionsMetricName, "Total number of recommendation impressions", labels, nil),
		clicks:      prometheus.NewDesc(ClicksMetricName, "Total number of recommendation clicks", labels, nil),
		ctr:         prometheus.NewDesc(CTRMetricName, "Click-through rate for recommendations", labels, nil),
	}
}

func (c *ctrCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.impressions
	ch <- c.clicks
	ch <- c.ctr
}

func (c *ctrCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.snapshot()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.impressions, err)
		return
	}
	for model, v := range counts {
		ch <- prometheus.MustNewConstMetric(c.impressions, prometheus.CounterValue, v.Impressions, model)
		ch <- prometheus.MustNewConstMetric(c.clicks, prometheus.CounterValue, v.Clicks, model)
		ch <- prometheus.MustNewConstMetric(c.ctr, prometheus.GaugeValue, v.CTR, model)
	}
}
