// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package evaluation

import (
	"time"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
)

// Targets are the design thresholds a healthy feed should meet. The streak
// cap applies to topics and creators alike.
type Targets struct {
	MinDiversityAt10  int
	MaxTopicStreak    int
	MaxCreatorStreak  int
	MinProsocialRatio float64
	MaxBuildPer100    time.Duration
}

// DefaultTargets returns the product thresholds.
func DefaultTargets() Targets {
	return Targets{
		MinDiversityAt10:  4,
		MaxTopicStreak:    2,
		MaxCreatorStreak:  2,
		MinProsocialRatio: 0.25,
		MaxBuildPer100:    2 * time.Second,
	}
}

// Report holds measured feed metrics alongside pass/fail against targets.
type Report struct {
	DiversityAt10    int           `json:"diversity_at_10"`
	MaxStreak        int           `json:"max_streak"`
	MaxCreatorStreak int           `json:"max_creator_streak"`
	ProsocialRatio   float64       `json:"prosocial_ratio"`
	BuildDuration    time.Duration `json:"build_duration"`
	BuildPer100      time.Duration `json:"build_per_100"`

	// OverlapRatio and Jaccard compare the feed against the engagement-only
	// baseline at the same length. Zero unless a baseline was requested.
	OverlapRatio float64 `json:"overlap_ratio,omitempty"`
	Jaccard      float64 `json:"jaccard,omitempty"`

	DiversityPass     bool `json:"diversity_pass"`
	StreakPass        bool `json:"streak_pass"`
	CreatorStreakPass bool `json:"creator_streak_pass"`
	ProsocialPass     bool `json:"prosocial_pass"`
	RuntimePass       bool `json:"runtime_pass"`
}

// Pass reports whether every target is met.
func (r Report) Pass() bool {
	return r.DiversityPass && r.StreakPass && r.CreatorStreakPass &&
		r.ProsocialPass && r.RuntimePass
}

// Evaluate measures a feed against targets. buildDuration is the wall time
// spent building the feed; it is scaled to a per-100-picks rate so short and
// long feeds compare fairly.
func Evaluate(items []feed.Item, buildDuration time.Duration, targets Targets) Report {
	r := Report{
		DiversityAt10:    DiversityAtK(items, 10),
		MaxStreak:        MaxStreak(items),
		MaxCreatorStreak: MaxCreatorStreak(items),
		ProsocialRatio:   ProsocialRatio(items),
		BuildDuration:    buildDuration,
	}
	if len(items) > 0 {
		r.BuildPer100 = time.Duration(float64(buildDuration) * 100 / float64(len(items)))
	}

	r.DiversityPass = r.DiversityAt10 >= targets.MinDiversityAt10
	r.StreakPass = r.MaxStreak <= targets.MaxTopicStreak
	r.CreatorStreakPass = r.MaxCreatorStreak <= targets.MaxCreatorStreak
	r.ProsocialPass = r.ProsocialRatio >= targets.MinProsocialRatio
	r.RuntimePass = r.BuildPer100 <= targets.MaxBuildPer100
	return r
}
