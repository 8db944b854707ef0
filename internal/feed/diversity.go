// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package feed

// diversityBonus returns the novelty bonus for a candidate against the
// current sliding windows: +0.5 if the topic is absent from the recent-topic
// window, +0.5 if the creator is absent from the recent-creator window.
// The result is always one of 0, 0.5, or 1.0. Presence is exact-match
// membership, not fuzzy similarity.
func diversityBonus(topic, creator string, recentTopics, recentCreators []string) float64 {
	var d float64
	if !containsString(recentTopics, topic) {
		d += 0.5
	}
	if !containsString(recentCreators, creator) {
		d += 0.5
	}
	return d
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
