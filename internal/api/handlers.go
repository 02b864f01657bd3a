// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Recommender serves recommendations and records clicks.
// Satisfied by *recommend.Service.
type Recommender interface {
	Recommend(ctx context.Context, userID string, k int) (*recommend.Result, error)
	Click(ctx context.Context, modelName string, userID int) error
}

// MetricsStore exposes the A/B counters. Satisfied by *metrics.Aggregator.
type MetricsStore interface {
	Reset(ctx context.Context) error
	Gatherer() prometheus.Gatherer
	Backend() string
}

// CatalogStore is the catalog persistence used by the CRUD endpoints and
// the health check. Satisfied by *catalog.Store.
type CatalogStore interface {
	CreateBook(ctx context.Context, b *models.Book) error
	GetBook(ctx context.Context, id string) (*models.Book, error)
	ListBooksPage(ctx context.Context, offset, limit int) ([]models.Book, error)
	DeleteBook(ctx context.Context, id string) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsersPage(ctx context.Context, offset, limit int) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error

	Counts(ctx context.Context) (books, users int, err error)
	Version(ctx context.Context) (uint64, error)
}

// BreakerReporter reports per-variant circuit breaker states.
// Satisfied by *inference.Client.
type BreakerReporter interface {
	BreakerStates() map[string]string
}

// HandlerConfig bounds request parameters.
type HandlerConfig struct {
	// DefaultCount is used when num_recommendations is omitted.
	DefaultCount int

	// MaxCount is the largest accepted num_recommendations.
	MaxCount int

	// RequestTimeout bounds a recommendation request end to end.
	RequestTimeout time.Duration
}

// DefaultHandlerConfig returns the defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		DefaultCount:   5,
		MaxCount:       100,
		RequestTimeout: 30 * time.Second,
	}
}

// Handler holds the dependencies of every endpoint.
type Handler struct {
	recommender Recommender
	metrics     MetricsStore
	catalog     CatalogStore
	breakers    BreakerReporter
	config      HandlerConfig
	startTime   time.Time
}

// NewHandler creates a Handler. breakers may be nil.
func NewHandler(recommender Recommender, metricsStore MetricsStore, catalogStore CatalogStore, breakers BreakerReporter, cfg HandlerConfig) *Handler {
	defaults := DefaultHandlerConfig()
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = defaults.DefaultCount
	}
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = defaults.MaxCount
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	return &Handler{
		recommender: recommender,
		metrics:     metricsStore,
		catalog:     catalogStore,
		breakers:    breakers,
		config:      cfg,
		startTime:   time.Now(),
	}
}
