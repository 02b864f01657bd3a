// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
)

// initMetrics builds the CTR aggregator over the configured backend. The
// returned func releases the backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initMetrics(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*metrics.Aggregator, func(), error) {
	if cfg.Metrics.Backend != config.MetricsBackendRedis {
		logging.Info().Msg("CTR counters kept in process memory")
		return metrics.NewAggregator(metrics.NewMemoryStore(), metrics.WithLogger(logger)), func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := metrics.NewRedisClient(pingCtx, metrics.RedisConfig{
		Addr:     cfg.Metrics.RedisAddr,
		Password: cfg.Metrics.RedisPassword,
		DB:       cfg.Metrics.RedisDB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect metrics redis: %w", err)
	}

	logging.Info().
		Str("addr", cfg.Metrics.RedisAddr).
		Str("prefix", cfg.Metrics.RedisKeyPrefix).
		Msg("CTR counters shared through Redis")

	store := metrics.NewRedisStore(client, cfg.Metrics.RedisKeyPrefix)
	closeFn := func() {
		if err := client.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing metrics redis client")
		}
	}
	return metrics.NewAggregator(store, metrics.WithLogger(logger)), closeFn, nil
}
