// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/inference"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/variant"
)

// recommendComponents groups what initRecommend builds.
type recommendComponents struct {
	client  *inference.Client
	service *recommend.Service
}

// initRecommend builds the inference client and the recommendation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initRecommend(cfg *config.Config, store *catalog.Store, agg *metrics.Aggregator, logger zerolog.Logger) (*recommendComponents, error) {
	if cfg.Inference.APIToken == "" {
		logging.Warn().Msg("HF_API_TOKEN not set - inference endpoints will likely reject requests")
	}

	client, err := inference.New(inference.Config{
		APIToken: cfg.Inference.APIToken,
		Endpoints: map[variant.Variant]string{
			variant.Collaborative: cfg.Inference.CollaborativeURL,
			variant.ContentBased:  cfg.Inference.ContentBasedURL,
		},
		Timeout:        cfg.Inference.Timeout,
		MaxRetries:     cfg.Inference.MaxRetries,
		RetryBackoff:   cfg.Inference.RetryBackoff,
		RateLimitQPS:   cfg.Inference.RateLimitQPS,
		RateLimitBurst: cfg.Inference.RateLimitBurst,
		BreakerEnabled: cfg.Inference.BreakerEnabled,
		Breaker:        inference.DefaultBreakerSettings(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create inference client: %w", err)
	}

	recCfg := recommend.DefaultConfig()
	recCfg.SplitThreshold = cfg.Recommend.SplitThreshold
	recCfg.Seed = cfg.Recommend.Seed
	recCfg.Cache.Enabled = cfg.Recommend.CacheEnabled
	if cfg.Recommend.CacheTTL > 0 {
		recCfg.Cache.TTL = cfg.Recommend.CacheTTL
	}

	svc, err := recommend.NewService(recCfg, store, client, agg, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation service: %w", err)
	}

	logging.Info().
		Float64("split_threshold", recCfg.SplitThreshold).
		Bool("seeded", recCfg.Seed != 0).
		Bool("idmap_cache", recCfg.Cache.Enabled).
		Bool("breakers", cfg.Inference.BreakerEnabled).
		Msg("Recommendation service initialized")

	return &recommendComponents{client: client, service: svc}, nil
}
