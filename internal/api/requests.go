// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/validation"
)

// maxRequestBody caps the feed request payload at 8 MiB. A 10k-candidate
// pool serializes well under this.
const maxRequestBody = 8 << 20

// FeedRequest is the payload for POST /api/v1/feed/run.
// All fields are optional; unset fields fall back to the server defaults.
type FeedRequest struct {
	// Preset selects the weight profile. Empty means the configured default.
	Preset string `json:"preset" validate:"omitempty,preset"`

	// NightMode shortens the feed and tightens the risk penalty.
	NightMode bool `json:"night_mode"`

	// K is the requested feed length. Zero means the mode default.
	K int `json:"k" validate:"min=0"`

	// RecentWindow overrides the history window used for diversity bonuses.
	RecentWindow int `json:"recent_window" validate:"min=0"`

	// MaxStreak overrides the same-topic repetition cap.
	MaxStreak int `json:"max_streak" validate:"min=0"`

	// Pool is an optional caller-supplied candidate pool. Empty means the
	// server-side dataset.
	Pool []feed.Candidate `json:"pool,omitempty"`

	// Seed shuffles the pool deterministically before building, simulating
	// a fresh session. Nil means no shuffle.
	Seed *int64 `json:"seed,omitempty"`

	// Evaluate requests a health report alongside the feed.
	Evaluate bool `json:"evaluate"`

	// Baseline requests engagement-only overlap metrics in the report.
	// Implies Evaluate.
	Baseline bool `json:"baseline"`
}

// decodeJSON decodes a bounded JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxBytesErr.Limit)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// validateFeedRequest runs struct validation plus the config-bound checks
// that validator tags cannot express.
func validateFeedRequest(req *FeedRequest, maxPoolSize, maxK int) *validation.RequestValidationError {
	if verr := validation.ValidateStruct(req); verr != nil {
		return verr
	}

	if maxK > 0 && req.K > maxK {
		return validation.NewRequestValidationError("k",
			fmt.Sprintf("k must be at most %d", maxK))
	}

	if maxPoolSize > 0 && len(req.Pool) > maxPoolSize {
		return validation.NewRequestValidationError("pool",
			fmt.Sprintf("pool must contain at most %d candidates", maxPoolSize))
	}

	for i, c := range req.Pool {
		if c.ID == "" {
			return validation.NewRequestValidationError("pool",
				fmt.Sprintf("pool[%d] is missing video_id", i))
		}
	}

	return nil
}
