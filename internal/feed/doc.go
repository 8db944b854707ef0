// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package feed implements the greedy, history-aware feed construction
// algorithm at the core of MorphoMedia.
//
// The Builder ranks a fixed candidate pool into an ordered feed one pick at a
// time. Each pick's score combines four signals:
//
//   - Engagement: pool-relative normalized popularity in [0, 1]
//   - Diversity: a bonus in {0, 0.5, 1.0} for topic/creator novelty within a
//     sliding window of recent picks
//   - Prosocial: a [0, 1] label rewarded with positive weight
//   - Risk: a [0, 1] label subtracted from the score
//
// Two histories drive the loop, both views over a single append-only pick
// sequence: the diversity bonus consults only the last W picks (freshness
// decays), while the repetition guard consults the full, unbounded tail
// (streak-breaking must see the true immediate run regardless of W).
//
// When the repetition guard blocks every remaining candidate, the Builder
// relaxes the streak constraint for exactly one pick and re-enforces it on
// the next iteration, so the loop always makes progress on a non-empty pool.
//
// The Builder is single-threaded, performs no I/O, and is deterministic for a
// fixed pool ordering. Callers wanting session variability shuffle the pool
// before invocation; independent builds may run concurrently since each owns
// its working state.
package feed
