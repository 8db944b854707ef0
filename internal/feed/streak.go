// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package feed

// wouldExtendStreak reports whether appending value to history would create a
// run of maxStreak+1 consecutive identical values: true iff the last
// maxStreak entries all equal value.
//
// This deliberately consults the full history tail, not the diversity
// window — diversity freshness decays after W picks, but streak-breaking must
// see the true immediate run regardless of W.
func wouldExtendStreak(history []string, value string, maxStreak int) bool {
	if len(history) < maxStreak {
		return false
	}
	for _, v := range history[len(history)-maxStreak:] {
		if v != value {
			return false
		}
	}
	return true
}
