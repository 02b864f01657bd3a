// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// IndexWarmer pre-builds the id maps. Satisfied by *recommend.Service.
type IndexWarmer interface {
	Warm(ctx context.Context) error
}

// IndexRefreshConfig holds configuration for the refresh loop.
type IndexRefreshConfig struct {
	// WarmOnStartup builds the maps once before the first tick.
	WarmOnStartup bool

	// Interval is how often to rebuild. Default: 1m
	Interval time.Duration

	// Timeout bounds a single rebuild. Default: 30s
	Timeout time.Duration
}

// IndexRefreshService keeps the id-map snapshot cache warm so the first
// request after a catalog change does not pay for the scan.
type IndexRefreshService struct {
	warmer IndexWarmer
	config IndexRefreshConfig
	logger zerolog.Logger
	name   string
}

// NewIndexRefreshService creates a refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIndexRefreshService(warmer IndexWarmer, cfg IndexRefreshConfig, logger zerolog.Logger) *IndexRefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &IndexRefreshService{
		warmer: warmer,
		config: cfg,
		logger: logger.With().Str("service", "index-refresh").Logger(),
		name:   "index-refresh-service",
	}
}

// Serve implements the suture.Service interface. Rebuild failures are
// logged and retried on the next tick; they never stop the service.
func (s *IndexRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("interval", s.config.Interval).
		Msg("index refresh service starting")

	if s.config.WarmOnStartup {
		if err := s.refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial index build failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("index refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled index build failed")
			}
		}
	}
}

func (s *IndexRefreshService) refresh(ctx context.Context) error {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.Warm(refreshCtx); err != nil {
		return err
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("index maps rebuilt")
	return nil
}

// String returns the service name for logging.
func (s *IndexRefreshService) String() string {
	return s.name
}
