// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package evaluation measures feed quality: topic diversity, streak length,
// prosocial share, and overlap against a popularity baseline.
package evaluation

import (
	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
)

// DiversityAtK returns the number of distinct topics among the first k items.
// Blank topics count as a single shared bucket.
func DiversityAtK(items []feed.Item, k int) int {
	if k > len(items) {
		k = len(items)
	}
	if k <= 0 {
		return 0
	}
	seen := make(map[string]struct{}, k)
	for _, it := range items[:k] {
		seen[it.Topic] = struct{}{}
	}
	return len(seen)
}

// MaxStreak returns the length of the longest run of consecutive items
// sharing a topic. An empty feed has streak 0.
func MaxStreak(items []feed.Item) int {
	if len(items) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(items); i++ {
		if items[i].Topic == items[i-1].Topic {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// MaxCreatorStreak is MaxStreak over the creator attribute.
func MaxCreatorStreak(items []feed.Item) int {
	if len(items) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(items); i++ {
		if items[i].Creator == items[i-1].Creator {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// ProsocialRatio returns the mean prosocial score across the feed.
func ProsocialRatio(items []feed.Item) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += it.Prosocial
	}
	return sum / float64(len(items))
}

// OverlapRatio returns (shared IDs in the first n of a and b) / n. A feed
// shorter than n contributes fewer IDs but the divisor stays n, so a 5-item
// feed can score at most 0.5 against n=10.
func OverlapRatio(a, b []feed.Item, n int) float64 {
	if n <= 0 {
		return 0
	}
	an := topIDs(a, n)
	bn := topIDs(b, n)
	shared := 0
	for id := range an {
		if _, ok := bn[id]; ok {
			shared++
		}
	}
	return float64(shared) / float64(n)
}

// JaccardSimilarity returns |A∩B| / |A∪B| over the top-n ID sets.
func JaccardSimilarity(a, b []feed.Item, n int) float64 {
	an := topIDs(a, n)
	bn := topIDs(b, n)
	if len(an) == 0 && len(bn) == 0 {
		return 0
	}
	inter := 0
	for id := range an {
		if _, ok := bn[id]; ok {
			inter++
		}
	}
	union := len(an) + len(bn) - inter
	return float64(inter) / float64(union)
}

func topIDs(items []feed.Item, n int) map[string]struct{} {
	if n > len(items) {
		n = len(items)
	}
	if n < 0 {
		n = 0
	}
	ids := make(map[string]struct{}, n)
	for _, it := range items[:n] {
		ids[it.ID] = struct{}{}
	}
	return ids
}
