// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package experiments

import (
	"math"
	"sort"
)

// Stat holds the distribution of one metric across a group's sessions.
type Stat struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary aggregates every session of one (preset, night) arm.
type Summary struct {
	Preset    string
	NightMode bool
	Sessions  int

	Diversity     Stat
	Streak        Stat
	CreatorStreak Stat
	Prosocial     Stat
	Overlap10     Stat
	Overlap       Stat

	// PassRate is the fraction of sessions that met every target.
	PassRate float64
}

// Summarize groups trial results by (preset, night) and computes
// mean/std/min/max per metric plus the pass rate. Groups are ordered
// alphabetically by preset, day before night, baseline last.
func Summarize(results []Result) []Summary {
	type key struct {
		preset string
		night  bool
	}
	groups := make(map[key][]Result)
	for _, res := range results {
		k := key{res.Preset, res.NightMode}
		groups[k] = append(groups[k], res)
	}

	summaries := make([]Summary, 0, len(groups))
	for k, group := range groups {
		s := Summary{
			Preset:    k.preset,
			NightMode: k.night,
			Sessions:  len(group),
		}

		diversity := make([]float64, len(group))
		streak := make([]float64, len(group))
		creatorStreak := make([]float64, len(group))
		prosocial := make([]float64, len(group))
		overlap10 := make([]float64, len(group))
		overlap := make([]float64, len(group))
		passed := 0
		for i, res := range group {
			diversity[i] = float64(res.DiversityAt10)
			streak[i] = float64(res.MaxStreak)
			creatorStreak[i] = float64(res.MaxCreatorStreak)
			prosocial[i] = res.ProsocialRatio
			overlap10[i] = res.OverlapTop10
			overlap[i] = res.OverlapRatio
			if res.Pass() {
				passed++
			}
		}

		s.Diversity = describe(diversity)
		s.Streak = describe(streak)
		s.CreatorStreak = describe(creatorStreak)
		s.Prosocial = describe(prosocial)
		s.Overlap10 = describe(overlap10)
		s.Overlap = describe(overlap)
		s.PassRate = float64(passed) / float64(len(group))
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if (a.Preset == BaselineLabel) != (b.Preset == BaselineLabel) {
			return b.Preset == BaselineLabel
		}
		if a.Preset != b.Preset {
			return a.Preset < b.Preset
		}
		return !a.NightMode && b.NightMode
	})
	return summaries
}

// describe computes sample statistics. Standard deviation is population
// (N divisor) so a single session reports 0 rather than NaN.
func describe(values []float64) Stat {
	if len(values) == 0 {
		return Stat{}
	}
	s := Stat{Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - s.Mean
		variance += d * d
	}
	s.StdDev = math.Sqrt(variance / float64(len(values)))
	return s
}
