// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package feed

import "sort"

// RankBaseline returns the top-k candidates ranked by engagement only, the
// reference ordering many short-video apps ship. The sort is stable so equal
// engagements keep their pool order, and the input is never mutated. Each
// item's Score is its engagement; the diversity bonus does not apply.
func RankBaseline(pool []Candidate, k int) []Item {
	ranked := make([]Candidate, len(pool))
	copy(ranked, pool)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Engagement > ranked[j].Engagement
	})

	if k < 0 {
		k = 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}

	items := make([]Item, 0, k)
	for _, c := range ranked[:k] {
		items = append(items, Item{Candidate: c, Score: c.Engagement})
	}
	return items
}
