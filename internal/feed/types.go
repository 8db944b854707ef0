// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package feed

// Candidate is one short-form video in the ranking pool.
// Candidates are immutable once loaded; Engagement is derived by
// NormalizeEngagement, not stored input.
type Candidate struct {
	// ID is the unique, stable video identifier.
	ID string `json:"video_id"`

	// Title is the video title (informational only, never scored).
	Title string `json:"title,omitempty"`

	// Topic is the category label used for diversity and streak checks.
	Topic string `json:"topic"`

	// Creator is the channel label used for diversity and streak checks.
	Creator string `json:"channel"`

	// PublishedAt is the upstream publication timestamp, carried through
	// verbatim from the dataset.
	PublishedAt string `json:"published_at,omitempty"`

	// ViewCount is the raw popularity count (non-negative).
	ViewCount int64 `json:"view_count"`

	// DurationSec is the video length in seconds.
	DurationSec float64 `json:"duration_sec,omitempty"`

	// Prosocial is a [0, 1] label, typically 0 or 1.
	Prosocial float64 `json:"prosocial"`

	// Risk is a [0, 1] label, typically 0 or 1.
	Risk float64 `json:"risk"`

	// Engagement is the pool-relative normalized popularity in [0, 1].
	// It is valid only for the pool it was normalized against.
	Engagement float64 `json:"engagement"`
}

// Weights is the scoring weight tuple. The components need not sum to 1 in
// general, but the built-in presets do for interpretability.
type Weights struct {
	Engagement float64 `json:"engagement" koanf:"engagement"`
	Diversity  float64 `json:"diversity" koanf:"diversity"`
	Prosocial  float64 `json:"prosocial" koanf:"prosocial"`
	Risk       float64 `json:"risk" koanf:"risk"`
}

// Sum returns the total of all four weight components.
func (w Weights) Sum() float64 {
	return w.Engagement + w.Diversity + w.Prosocial + w.Risk
}

// Item is a picked candidate annotated with the diversity bonus and total
// score computed at the moment it was picked. These are historical values:
// the same candidate scores differently if picked earlier or later.
type Item struct {
	Candidate

	// Diversity is the bonus observed at selection time, in {0, 0.5, 1.0}.
	Diversity float64 `json:"diversity"`

	// Score is the total score observed at selection time.
	Score float64 `json:"score"`
}

// Params configures one feed-building run.
type Params struct {
	// Weights is the scoring weight tuple.
	Weights Weights

	// K is the target feed length. The produced feed has length
	// min(K, pool size).
	K int

	// RecentWindow is the sliding-window length W for diversity checks.
	// Defaults to DefaultRecentWindow when zero.
	RecentWindow int

	// MaxStreak is the maximum allowed run S of consecutive identical
	// topics or creators. Defaults to DefaultMaxStreak when zero.
	MaxStreak int
}

// Defaults for Params fields left at zero.
const (
	DefaultRecentWindow = 10
	DefaultMaxStreak    = 2
)

// withDefaults returns a copy of p with zero fields replaced by defaults.
func (p Params) withDefaults() Params {
	if p.RecentWindow <= 0 {
		p.RecentWindow = DefaultRecentWindow
	}
	if p.MaxStreak <= 0 {
		p.MaxStreak = DefaultMaxStreak
	}
	return p
}
