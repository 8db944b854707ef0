// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package feed

// NormalizeEngagement returns a copy of the pool with each candidate's
// Engagement set to ViewCount / max(ViewCount) across the pool, linearly
// scaled into [0, 1]. A pool maximum of 0 is treated as 1 so every score
// stays 0 instead of dividing by zero.
//
// The denominator is pool-relative: it must be recomputed whenever the
// active pool changes (per ranking session, not per Builder iteration — the
// Builder holds it fixed for one feed-building run). The input slice is
// never mutated.
func NormalizeEngagement(pool []Candidate) []Candidate {
	out := make([]Candidate, len(pool))
	copy(out, pool)

	var maxViews int64
	for i := range out {
		if out[i].ViewCount > maxViews {
			maxViews = out[i].ViewCount
		}
	}
	if maxViews == 0 {
		maxViews = 1
	}

	for i := range out {
		out[i].Engagement = float64(out[i].ViewCount) / float64(maxViews)
	}
	return out
}
