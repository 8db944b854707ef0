// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package main runs the batch feed simulation: many seeded sessions per
// preset and mode, scored against the health targets, written out as raw
// and summary CSVs.
//
// Example usage:
//
//	export DATASET_PATH=data/shorts_tagged.csv
//	export EXPERIMENTS_SESSIONS=50
//	./morphomedia-experiments
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/config"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/dataset"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/evaluation"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/experiments"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/logging"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/metrics"
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

	logging.Info().
		Int("sessions", cfg.Experiments.Sessions).
		Int("workers", cfg.Experiments.Workers).
		Str("dataset", cfg.Dataset.Path).
		Msg("Starting experiment batch")

	loadStart := time.Now()
	pool, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Dataset.Path).Msg("Failed to load dataset")
	}
	metrics.RecordDatasetLoad(len(pool), time.Since(loadStart))
	logging.Info().Int("candidates", len(pool)).Msg("Dataset loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := experiments.NewRunner(pool, experiments.Config{
		Sessions: cfg.Experiments.Sessions,
		K:        cfg.Experiments.K,
		Workers:  cfg.Experiments.Workers,
		Targets:  evaluation.DefaultTargets(),
	}, logging.Logger())

	batchStart := time.Now()
	results, err := runner.Run(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Experiment batch failed")
	}
	batchDuration := time.Since(batchStart)
	metrics.RecordExperimentBatch(cfg.Experiments.Sessions, batchDuration)

	experiments.SortResults(results)
	summaries := experiments.Summarize(results)

	outDir := cfg.Experiments.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logging.Fatal().Err(err).Str("dir", outDir).Msg("Failed to create output directory")
	}

	rawPath := filepath.Join(outDir, experiments.RawFilename)
	if err := experiments.SaveRaw(rawPath, results); err != nil {
		logging.Fatal().Err(err).Str("path", rawPath).Msg("Failed to write raw results")
	}

	summaryPath := filepath.Join(outDir, experiments.SummaryFilename)
	if err := experiments.SaveSummary(summaryPath, summaries); err != nil {
		logging.Fatal().Err(err).Str("path", summaryPath).Msg("Failed to write summary")
	}

	passed := 0
	for _, s := range summaries {
		if s.PassRate == 1.0 {
			passed++
		}
		logging.Info().
			Str("preset", s.Preset).
			Bool("night_mode", s.NightMode).
			Float64("diversity_mean", s.Diversity.Mean).
			Float64("streak_mean", s.Streak.Mean).
			Float64("prosocial_mean", s.Prosocial.Mean).
			Float64("overlap_mean", s.Overlap.Mean).
			Float64("pass_rate", s.PassRate).
			Msg("Arm summary")
	}

	logging.Info().
		Int("trials", len(results)).
		Int("arms", len(summaries)).
		Int("arms_fully_passing", passed).
		Dur("elapsed", batchDuration).
		Str("raw", rawPath).
		Str("summary", summaryPath).
		Msg("Experiment batch complete")
}
