// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

// Package main is the entry point for the Reelmatch server.
//
// Reelmatch serves similarity-based movie recommendations over HTTP,
// enriched live with poster, rating, and IMDb links from the OMDb API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from environment variables and config files (Koanf v2)
//  2. Logging: zerolog structured logging
//  3. Catalog: movie titles plus the precomputed similarity matrix, loaded into memory
//  4. Recommendation pipeline: ranker, OMDb client, enrichment orchestrator
//  5. HTTP server: Chi-routed REST API plus Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (OMDB_API_KEY, SERVER_PORT, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections and waits up to 10s for in-flight requests.
//
// # Example Usage
//
//	export OMDB_API_KEY=your-omdb-key
//	export CATALOG_PATH=/data/catalog.csv
//	export CATALOG_MATRIX_PATH=/data/similarity.bin
//	./reelmatch
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

	"github.com/reelmatch/reelmatch/internal/api"
	"github.com/reelmatch/reelmatch/internal/catalog"
	"github.com/reelmatch/reelmatch/internal/config"
	"github.com/reelmatch/reelmatch/internal/enrich"
	"github.com/reelmatch/reelmatch/internal/logging"
	"github.com/reelmatch/reelmatch/internal/metrics"
	"github.com/reelmatch/reelmatch/internal/omdb"
	"github.com/reelmatch/reelmatch/internal/recommend"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

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
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Reelmatch")

	// Hot-reload the log level when the config file changes. Everything
	// else (ports, catalog paths, OMDb credentials) requires a restart.
	if configPath := config.FindConfigFile(); configPath != "" {
		if err := config.WatchConfigFile(configPath, func() {
			newCfg, err := config.Load()
			if err != nil {
				logging.Warn().Err(err).Msg("Config reload failed, keeping current settings")
				return
			}
			logging.SetLevelString(newCfg.Logging.Level)
			logging.Info().Str("level", newCfg.Logging.Level).Msg("Log level reloaded from config file")
		}); err != nil {
			logging.Warn().Err(err).Str("path", configPath).Msg("Config file watch unavailable")
		}
	}

	store, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.MatrixPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	metrics.SetCatalogGauges(store.Len(), store.Len())

	ranker, err := recommend.NewRanker(store, recommend.Config{
		DefaultK: cfg.Recommend.DefaultK,
		MaxK:     cfg.Recommend.MaxK,
	})
	if err != nil {
		return fmt.Errorf("build ranker: %w", err)
	}

	client := omdb.NewClient(omdb.Config{
		BaseURL:        cfg.OMDb.BaseURL,
		APIKey:         cfg.OMDb.APIKey,
		Timeout:        cfg.OMDb.Timeout,
		RateLimit:      cfg.OMDb.RateLimit,
		RateBurst:      cfg.OMDb.RateBurst,
		FallbackPoster: cfg.OMDb.FallbackPoster,
	})
	orchestrator := enrich.NewOrchestrator(client)

	handler := api.NewHandler(store, ranker, orchestrator, cfg.OMDb.FallbackPoster, version)

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.API.CORSOrigins
	mwConfig.RateLimitRequests = cfg.API.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.API.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.API.RateLimitDisabled

	router := api.NewRouter(handler, mwConfig)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	client.CloseIdleConnections()

	logging.Info().Msg("Server stopped")
	return nil
}
