// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/shelfwise/internal/api"
	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/authz"
	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/supervisor"
	"github.com/tomtom215/shelfwise/internal/supervisor/services"
	ws "github.com/tomtom215/shelfwise/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Shelfwise exited with error")
	}
}

//nolint:gocyclo // sequential wiring of every component
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logger := logging.Logger()

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("catalog_path", cfg.Catalog.Path).
		Bool("catalog_in_memory", cfg.Catalog.InMemory).
		Str("metrics_backend", cfg.Metrics.Backend).
		Float64("split_threshold", cfg.Recommend.SplitThreshold).
		Msg("Starting Shelfwise")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := catalog.Open(catalog.Options{Path: cfg.Catalog.Path, InMemory: cfg.Catalog.InMemory}, logger)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()
	books, users, err := store.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}
	logging.Info().Int("books", books).Int("users", users).Msg("Catalog opened")

	agg, closeMetrics, err := initMetrics(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeMetrics()

	rec, err := initRecommend(cfg, store, agg, logger)
	if err != nil {
		return err
	}
	defer rec.service.Close()

	authMw, authzMw, closeAuth := initAuth(cfg)
	defer closeAuth()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	var wsHandler http.Handler
	if cfg.Metrics.StreamEnabled {
		hub := ws.NewHub(agg.Snapshot)
		agg.Subscribe(hub.BroadcastMetrics)
		wsHandler = ws.NewHandler(hub, cfg.Security.CORSOrigins)
		tree.AddStreamService(services.NewWebSocketHubService(hub))
		logging.Info().Msg("Live metrics stream enabled at /api/v1/ws/metrics")
	}

	if rec.service.CacheEnabled() {
		tree.AddIndexService(services.NewIndexRefreshService(rec.service, services.IndexRefreshConfig{
			WarmOnStartup: true,
			Interval:      cfg.Recommend.RefreshInterval,
		}, logger))
		logging.Info().Dur("interval", cfg.Recommend.RefreshInterval).Msg("Index refresh service added")
	}

	handler := api.NewHandler(rec.service, agg, store, rec.client, api.HandlerConfig{
		DefaultCount:   cfg.Recommend.DefaultCount,
		MaxCount:       cfg.Recommend.MaxCount,
		RequestTimeout: cfg.Server.Timeout,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)), authMw, authzMw, wsHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
	}
	logging.Info().Msg("Shelfwise stopped")
	return nil
}

// initAuth wires JWT validation and Casbin authorization for catalog
// writes. Without JWT_SECRET both are nil and writes are not routed.
func initAuth(cfg *config.Config) (*auth.Middleware, *authz.Middleware, func()) {
	if cfg.Security.JWTSecret == "" {
		logging.Warn().Msg("JWT_SECRET not set - catalog write endpoints are disabled")
		return nil, nil, func() {}
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Warn().Err(err).Msg("JWT manager unavailable - catalog write endpoints are disabled")
		return nil, nil, func() {}
	}

	enforcer, err := authz.NewEnforcer(&authz.EnforcerConfig{
		PolicyPath:   cfg.Security.PolicyPath,
		CacheEnabled: true,
		CacheTTL:     5 * time.Minute,
	})
	if err != nil {
		logging.Warn().Err(err).Msg("Authorization unavailable - catalog write endpoints are disabled")
		return nil, nil, func() {}
	}

	logging.Info().Msg("Catalog writes require an authorized JWT")
	return auth.NewMiddleware(jwtManager), authz.NewMiddleware(enforcer), enforcer.Close
}
