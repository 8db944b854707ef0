// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package feed

import (
	"github.com/rs/zerolog"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/metrics"
)

// Builder runs the greedy history-aware selection loop. It is stateless
// between Build calls and safe for concurrent use: every run owns its own
// working pool and pick history.
type Builder struct {
	params Params
	logger zerolog.Logger
}

// NewBuilder creates a Builder for the given parameters. Zero RecentWindow
// and MaxStreak fall back to the package defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(params Params, logger zerolog.Logger) *Builder {
	return &Builder{
		params: params.withDefaults(),
		logger: logger.With().Str("component", "feed-builder").Logger(),
	}
}

// Params returns the effective parameters, defaults applied.
func (b *Builder) Params() Params {
	return b.params
}

// Build constructs a feed of length min(K, len(pool)) from an
// engagement-normalized pool. The input slice is never mutated; the Builder
// works over a private index list. An empty pool or K <= 0 yields an empty
// feed, never an error.
//
// Each iteration scores every remaining candidate under the streak rule and
// picks the maximum; when the rule blocks every candidate, the iteration
// falls back to the relaxed scores computed in the same pass. The fused
// strict/relaxed tracking selects exactly what a second relaxed re-scoring
// pass would, since relaxation re-scores all candidates without the guard.
// Ties go to the earliest candidate in the pool's current order.
func (b *Builder) Build(pool []Candidate) []Item {
	k := b.params.K
	if k <= 0 || len(pool) == 0 {
		return []Item{}
	}
	if k > len(pool) {
		k = len(pool)
	}

	// Remaining candidates as pool indexes, removed in order so the
	// iteration order matches the original pool ordering throughout.
	live := make([]int, len(pool))
	for i := range live {
		live[i] = i
	}

	hist := &pickHistory{}
	items := make([]Item, 0, k)

	for len(items) < k && len(live) > 0 {
		topicWin := hist.topicWindow(b.params.RecentWindow)
		creatorWin := hist.creatorWindow(b.params.RecentWindow)

		bestPos := -1
		var best candidateScore
		relaxedPos := -1
		var relaxed candidateScore

		for pos, idx := range live {
			c := &pool[idx]
			sc := candidateScore{
				Eligible:  true,
				Diversity: diversityBonus(c.Topic, c.Creator, topicWin, creatorWin),
			}
			sc.Score = scoreParts(c.Engagement, sc.Diversity, c.Prosocial, c.Risk, b.params.Weights)

			// The relaxed track ignores the streak rule entirely.
			if relaxedPos < 0 || sc.Score > relaxed.Score {
				relaxed = sc
				relaxedPos = pos
			}

			if wouldExtendStreak(hist.topics, c.Topic, b.params.MaxStreak) ||
				wouldExtendStreak(hist.creators, c.Creator, b.params.MaxStreak) {
				continue // ineligible this round
			}
			if bestPos < 0 || sc.Score > best.Score {
				best = sc
				bestPos = pos
			}
		}

		chosenPos := bestPos
		chosen := best
		if chosenPos < 0 {
			// Every candidate is blocked: suspend the streak rule for this
			// single pick. It is enforced again on the next iteration.
			chosenPos = relaxedPos
			chosen = relaxed
			metrics.RecordRelaxation()
			b.logger.Debug().
				Int("picked", len(items)).
				Int("remaining", len(live)).
				Msg("All candidates blocked by streak rule, relaxing for one pick")
		}

		idx := live[chosenPos]
		c := pool[idx]
		items = append(items, Item{Candidate: c, Diversity: chosen.Diversity, Score: chosen.Score})
		hist.record(c.Topic, c.Creator)

		// Ordered removal keeps tie-breaking stable against pool order.
		copy(live[chosenPos:], live[chosenPos+1:])
		live = live[:len(live)-1]
	}

	return items
}
