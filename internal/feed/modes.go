// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package feed

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPreset is returned by ResolveMode for preset names outside the
// closed set. Callers must fail fast; no partial execution follows.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset names.
const (
	PresetEntertainment = "entertainment"
	PresetInspiration   = "inspiration"
	PresetLearning      = "learning"
)

// Feed-length constants: the standard session length and the shortened
// night-mode length.
const (
	DefaultK = 100
	NightK   = 15
)

// nightRiskBoost is added to the risk weight when night mode is on, before
// renormalizing the tuple to sum to 1.
const nightRiskBoost = 0.15

// presets maps each preset name to its weight tuple. Every tuple sums to 1.
var presets = map[string]Weights{
	PresetEntertainment: {Engagement: 0.55, Diversity: 0.20, Prosocial: 0.15, Risk: 0.10},
	PresetInspiration:   {Engagement: 0.35, Diversity: 0.25, Prosocial: 0.30, Risk: 0.10},
	PresetLearning:      {Engagement: 0.30, Diversity: 0.30, Prosocial: 0.30, Risk: 0.10},
}

// Presets returns the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetWeights returns the weight tuple for a preset name.
func PresetWeights(preset string) (Weights, error) {
	w, ok := presets[preset]
	if !ok {
		return Weights{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
	return w, nil
}

// ResolveMode maps a preset name plus night-mode toggle to the weight tuple
// and effective feed length. Night mode boosts the risk weight by a fixed
// delta, renormalizes all weights to sum to 1, and shortens the feed to
// NightK. defaultK <= 0 falls back to DefaultK.
func ResolveMode(preset string, nightMode bool, defaultK int) (Weights, int, error) {
	w, err := PresetWeights(preset)
	if err != nil {
		return Weights{}, 0, err
	}

	k := defaultK
	if k <= 0 {
		k = DefaultK
	}

	if nightMode {
		w.Risk += nightRiskBoost
		if sum := w.Sum(); sum > 0 {
			w.Engagement /= sum
			w.Diversity /= sum
			w.Prosocial /= sum
			w.Risk /= sum
		}
		k = NightK
	}

	return w, k, nil
}
