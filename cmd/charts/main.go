// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package main renders PNG comparison charts from a saved experiment batch:
// one grouped bar chart per health metric, preset arms side by side with
// the engagement-only baseline. Run the experiments binary first to produce
// experiment_summary.csv.
//
// Example usage:
//
//	export EXPERIMENTS_OUTPUT_DIR=results
//	./morphomedia-experiments
//	./morphomedia-charts
package main

import (
	"path/filepath"
	"time"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/charts"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/config"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/experiments"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/logging"
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

	outDir := cfg.Experiments.OutputDir
	summaryPath := filepath.Join(outDir, experiments.SummaryFilename)

	start := time.Now()
	summaries, err := experiments.LoadSummary(summaryPath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", summaryPath).
			Msg("Failed to load experiment summary (run the experiments binary first)")
	}
	logging.Info().Int("arms", len(summaries)).Str("path", summaryPath).Msg("Summary loaded")

	if err := charts.SaveAll(outDir, summaries); err != nil {
		logging.Fatal().Err(err).Str("dir", outDir).Msg("Failed to render charts")
	}

	logging.Info().
		Int("charts", len(charts.Metrics())).
		Str("dir", outDir).
		Dur("elapsed", time.Since(start)).
		Msg("Charts rendered")
}
