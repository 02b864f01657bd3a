// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/variant"
)

// Scorer asks a variant's remote model for k item indices for a user.
type Scorer interface {
	Score(ctx context.Context, v variant.Variant, userIndex, k int) ([]int, error)
}

// Counters records A/B events.
type Counters interface {
	ImpressionRecorder
	RecordClick(ctx context.Context, v variant.Variant) error
}

// Result is a served recommendation list.
type Result struct {
	Variant variant.Variant
	ItemIDs []string
}

// Service orchestrates routing, mapping, scoring and translation.
// It is safe for concurrent use.
type Service struct {
	config   *Config
	router   *Router
	mapper   *Mapper
	scorer   Scorer
	counters Counters
	logger   zerolog.Logger
}

// NewService wires a recommendation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(cfg *Config, catalog Catalog, scorer Scorer, counters Counters, logger zerolog.Logger) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger = logger.With().Str("component", "recommend").Logger()
	mapper, err := NewMapper(catalog, &cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		config:   cfg,
		router:   NewRouter(cfg.SplitThreshold, cfg.Seed, counters, logger),
		mapper:   mapper,
		scorer:   scorer,
		counters: counters,
		logger:   logger,
	}, nil
}

// Close releases the mapper cache.
func (s *Service) Close() {
	s.mapper.Close()
}

// CacheEnabled reports whether index maps are cached between requests.
func (s *Service) CacheEnabled() bool {
	return s.mapper.cache != nil
}

// Recommend serves up to k book ids for userID from a randomly assigned
// variant. The impression is recorded before any other work, so a request
// that later fails still counts as offered.
func (s *Service) Recommend(ctx context.Context, userID string, k int) (*Result, error) {
	start := time.Now()
	log := s.logger.With().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Str("user_id", userID).
		Logger()

	v := s.router.Select(ctx)

	items, users, err := s.mapper.BuildMaps(ctx)
	if err != nil {
		return nil, err
	}

	userIndex, ok := users.Lookup(userID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotMapped, userID)
	}

	indices, err := s.scorer.Score(ctx, v, userIndex, k)
	if err != nil {
		return nil, err
	}

	ids, err := Translate(indices, items, k)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("model", v.String()).
		Int("returned", len(ids)).
		Dur("duration", time.Since(start)).
		Msg("recommendations served")

	return &Result{Variant: v, ItemIDs: ids}, nil
}

// Click records a click on modelName. userID is accepted for logging only;
// clicks are not attributed to users.
func (s *Service) Click(ctx context.Context, modelName string, userID int) error {
	v, err := variant.Parse(modelName)
	if err != nil {
		return err
	}
	if err := s.counters.RecordClick(ctx, v); err != nil {
		return err
	}
	s.logger.Debug().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Str("model", v.String()).
		Int("user_id", userID).
		Msg("click tracked")
	return nil
}

// Warm builds both index maps, populating the snapshot cache when enabled.
func (s *Service) Warm(ctx context.Context) error {
	_, _, err := s.mapper.BuildMaps(ctx)
	return err
}
