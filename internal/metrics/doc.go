// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package metrics provides Prometheus instrumentation for Shelfwise.
//
// Two kinds of metrics live here:
//
//   - Process metrics (metrics.go): promauto collectors on the default
//     registry for API traffic, inference calls, circuit breakers and id-map
//     builds. They are package-level like any other process instrument.
//
//   - The A/B click-through Aggregator (ctr.go): an explicitly constructed
//     object owning per-variant impression, click and CTR state. Its backing
//     Store is either in-process (MemoryStore) or shared across replicas
//     (RedisStore). It registers its own collector on a private registry so
//     tests can build as many aggregators as they like.
//
// # Exposed CTR Families
//
//	recommendations_impressions_total{model="..."}
//	recommendations_clicks_total{model="..."}
//	recommendations_ctr{model="..."}
//
// # Usage
//
//	agg := metrics.NewAggregator(metrics.NewMemoryStore())
//	_ = agg.RecordImpression(ctx, variant.Collaborative)
//	_ = agg.RecordClick(ctx, variant.Collaborative)
//	text, _ := agg.Export(ctx)
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//	    prometheus.Gatherers{agg.Gatherer(), prometheus.DefaultGatherer},
//	    promhttp.HandlerOpts{}))
package metrics
