// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package experiments runs batch feed simulations: N seeded sessions across
// every preset and night-mode pair, measured against an engagement-only
// baseline, with grouped summaries and CSV export.
package experiments

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/evaluation"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
)

// BaselineLabel identifies the engagement-only control arm in results.
const BaselineLabel = "baseline"

// Config controls a batch run.
type Config struct {
	// Sessions is the number of simulated sessions; seeds run 0..Sessions-1.
	Sessions int
	// K overrides the feed length for every arm when > 0. When 0 each mode
	// uses its own default length.
	K int
	// Presets to exercise. Empty means all registered presets.
	Presets []string
	// Workers bounds concurrent sessions. 0 means GOMAXPROCS.
	Workers int
	// Targets used for pass/fail flags.
	Targets evaluation.Targets
}

// Result is one trial: a single (seed, preset, night) feed build measured
// against its targets and the popularity baseline at the same k.
type Result struct {
	Seed      int
	Preset    string
	NightMode bool
	K         int

	DiversityAt10    int
	MaxStreak        int
	MaxCreatorStreak int
	ProsocialRatio   float64
	// OverlapTop10 compares the first 10 picks against the baseline;
	// OverlapRatio compares the full feed length.
	OverlapTop10  float64
	OverlapRatio  float64
	Jaccard       float64
	BuildDuration time.Duration

	DiversityPass     bool
	StreakPass        bool
	CreatorStreakPass bool
	ProsocialPass     bool
	RuntimePass       bool
}

// Pass reports whether the trial met every target.
func (r Result) Pass() bool {
	return r.DiversityPass && r.StreakPass && r.CreatorStreakPass &&
		r.ProsocialPass && r.RuntimePass
}

// Runner executes batch simulations over a fixed candidate pool.
type Runner struct {
	pool   []feed.Candidate
	cfg    Config
	logger zerolog.Logger
}

// NewRunner creates a Runner. The pool is not copied; callers must not
// mutate it during Run.
func NewRunner(pool []feed.Candidate, cfg Config, logger zerolog.Logger) *Runner {
	if cfg.Sessions <= 0 {
		cfg.Sessions = 1
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = feed.Presets()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Targets == (evaluation.Targets{}) {
		cfg.Targets = evaluation.DefaultTargets()
	}
	return &Runner{
		pool:   pool,
		cfg:    cfg,
		logger: logger.With().Str("component", "experiments").Logger(),
	}
}

// Run executes every session concurrently and returns results ordered by
// (seed, preset, night, baseline-last). Identical inputs produce identical
// results regardless of worker count.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	arms := len(r.cfg.Presets)*2 + 1 // preset × {day, night} + baseline
	results := make([][]Result, r.cfg.Sessions)

	r.logger.Info().
		Int("sessions", r.cfg.Sessions).
		Int("arms", arms).
		Int("workers", r.cfg.Workers).
		Int("pool_size", len(r.pool)).
		Msg("Starting experiment batch")

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.cfg.Workers)
	errCh := make(chan error, 1)

	for seed := 0; seed < r.cfg.Sessions; seed++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		sem <- struct{}{}

		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			defer func() { <-sem }()

			session, err := r.runSession(seed)
			if err != nil {
				select {
				case errCh <- fmt.Errorf("session %d: %w", seed, err):
				default:
				}
				return
			}
			results[seed] = session
		}(seed)
	}

	wg.Wait()
	select {
	case err := <-errCh:
		return nil, err
	default:
	}

	flat := make([]Result, 0, r.cfg.Sessions*arms)
	for _, session := range results {
		flat = append(flat, session...)
	}
	r.logger.Info().Int("trials", len(flat)).Msg("Experiment batch complete")
	return flat, nil
}

// runSession shuffles the pool with the session seed, then runs every arm
// over that one shuffled order.
func (r *Runner) runSession(seed int) ([]Result, error) {
	pool := make([]feed.Candidate, len(r.pool))
	copy(pool, r.pool)

	rng := rand.New(rand.NewSource(int64(seed)))
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	pool = feed.NormalizeEngagement(pool)

	var out []Result
	for _, preset := range r.cfg.Presets {
		for _, night := range []bool{false, true} {
			res, err := r.runTrial(pool, seed, preset, night)
			if err != nil {
				return nil, err
			}
			out = append(out, res)
		}
	}

	// Engagement-only control at the day-mode feed length.
	k := r.cfg.K
	if k <= 0 {
		k = feed.DefaultK
	}
	baseline := feed.RankBaseline(pool, k)
	report := evaluation.Evaluate(baseline, 0, r.cfg.Targets)
	out = append(out, Result{
		Seed:              seed,
		Preset:            BaselineLabel,
		K:                 k,
		DiversityAt10:     report.DiversityAt10,
		MaxStreak:         report.MaxStreak,
		MaxCreatorStreak:  report.MaxCreatorStreak,
		ProsocialRatio:    report.ProsocialRatio,
		OverlapTop10:      1,
		OverlapRatio:      1,
		Jaccard:           1,
		DiversityPass:     report.DiversityPass,
		StreakPass:        report.StreakPass,
		CreatorStreakPass: report.CreatorStreakPass,
		ProsocialPass:     report.ProsocialPass,
		RuntimePass:       report.RuntimePass,
	})
	return out, nil
}

func (r *Runner) runTrial(pool []feed.Candidate, seed int, preset string, night bool) (Result, error) {
	weights, k, err := feed.ResolveMode(preset, night, r.cfg.K)
	if err != nil {
		return Result{}, err
	}

	builder := feed.NewBuilder(feed.Params{Weights: weights, K: k}, r.logger)

	start := time.Now()
	items := builder.Build(pool)
	elapsed := time.Since(start)

	report := evaluation.Evaluate(items, elapsed, r.cfg.Targets)
	baseline := feed.RankBaseline(pool, k)

	// Full-length overlap uses the shorter of the two feeds as n so a
	// truncated pool does not deflate the ratio.
	topK := k
	if len(items) < topK {
		topK = len(items)
	}
	if len(baseline) < topK {
		topK = len(baseline)
	}

	return Result{
		Seed:              seed,
		Preset:            preset,
		NightMode:         night,
		K:                 k,
		DiversityAt10:     report.DiversityAt10,
		MaxStreak:         report.MaxStreak,
		MaxCreatorStreak:  report.MaxCreatorStreak,
		ProsocialRatio:    report.ProsocialRatio,
		OverlapTop10:      evaluation.OverlapRatio(items, baseline, 10),
		OverlapRatio:      evaluation.OverlapRatio(items, baseline, topK),
		Jaccard:           evaluation.JaccardSimilarity(items, baseline, topK),
		BuildDuration:     elapsed,
		DiversityPass:     report.DiversityPass,
		StreakPass:        report.StreakPass,
		CreatorStreakPass: report.CreatorStreakPass,
		ProsocialPass:     report.ProsocialPass,
		RuntimePass:       report.RuntimePass,
	}, nil
}

// SortResults orders trials by seed, then preset, then day before night,
// with the baseline arm last within each seed.
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Seed != b.Seed {
			return a.Seed < b.Seed
		}
		if (a.Preset == BaselineLabel) != (b.Preset == BaselineLabel) {
			return b.Preset == BaselineLabel
		}
		if a.Preset != b.Preset {
			return a.Preset < b.Preset
		}
		return !a.NightMode && b.NightMode
	})
}
