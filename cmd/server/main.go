// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package main is the entry point for the MorphoMedia feed server.
//
// The server loads the tagged shorts dataset, exposes the ranking API over
// HTTP, and runs under a suture supervisor tree for restart-on-failure.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (DATASET_PATH, FEED_PRESET, HTTP_PORT, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests within the shutdown
// timeout, and stops the supervisor tree.
//
// # Example Usage
//
//	export DATASET_PATH=data/shorts_tagged.csv
//	export FEED_PRESET=learning
//	./morphomedia-server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/api"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/config"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/dataset"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/logging"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/metrics"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/supervisor"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	metrics.SetAppInfo(api.Version)

	logging.Info().
		Str("preset", cfg.Feed.Preset).
		Str("dataset", cfg.Dataset.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting MorphoMedia feed server")

	// A missing dataset is not fatal: callers can still POST their own
	// pools, and the readiness probe reports the gap.
	var pool []feed.Candidate
	loadStart := time.Now()
	raw, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		logging.Warn().Err(err).Str("path", cfg.Dataset.Path).
			Msg("Dataset unavailable, serving caller-supplied pools only")
	} else {
		pool = feed.NormalizeEngagement(raw)
		metrics.RecordDatasetLoad(len(pool), time.Since(loadStart))
		logging.Info().Int("candidates", len(pool)).Msg("Dataset loaded")
	}

	router := api.NewRouter(cfg, pool)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewAPIService(server, 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
