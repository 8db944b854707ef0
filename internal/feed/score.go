// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package feed

// candidateScore is the tagged outcome of evaluating one candidate in one
// Builder iteration. An explicit Eligible flag replaces a negative-infinity
// score sentinel so a real score can never collide with "blocked" at
// floating-point edge cases.
type candidateScore struct {
	Eligible  bool
	Diversity float64
	Score     float64
}

// scoreParts combines the four signals into one scalar:
//
//	e*We + d*Wd + p*Wp − r*Wr
//
// Risk is subtracted, not weighted positively, so the score is strictly
// decreasing in risk. The result is not normalized; scores are only compared
// across candidates within the same iteration.
func scoreParts(e, d, p, r float64, w Weights) float64 {
	return e*w.Engagement + d*w.Diversity + p*w.Prosocial - r*w.Risk
}
