// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package api

import (
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/config"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/evaluation"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/logging"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/metrics"
)

// Version is the application version reported by the health endpoint.
const Version = "1.0.0"

// Handler carries the shared state behind all API endpoints. The candidate
// pool is loaded once at startup and already engagement-normalized.
type Handler struct {
	config    *config.Config
	pool      []feed.Candidate
	startTime time.Time
}

// NewHandler creates a handler over a pre-normalized candidate pool.
func NewHandler(cfg *config.Config, pool []feed.Candidate) *Handler {
	return &Handler{
		config:    cfg,
		pool:      pool,
		startTime: time.Now(),
	}
}

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	DatasetLoaded bool    `json:"dataset_loaded"`
	DatasetSize   int     `json:"dataset_size"`
	DefaultPreset string  `json:"default_preset"`
	Uptime        float64 `json:"uptime_seconds"`
}

// Health reports overall service health. The service is degraded when no
// dataset is loaded: caller-supplied pools still work, server-side builds
// do not.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if len(h.pool) == 0 {
		status = "degraded"
	}

	WriteSuccess(w, r, HealthStatus{
		Status:        status,
		Version:       Version,
		DatasetLoaded: len(h.pool) > 0,
		DatasetSize:   len(h.pool),
		DefaultPreset: h.config.Feed.Preset,
		Uptime:        time.Since(h.startTime).Seconds(),
	})
}

// HealthLive is the liveness probe. It succeeds whenever the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness probe. The service is ready once the dataset
// is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if len(h.pool) == 0 {
		NewResponseWriter(w, r).ServiceUnavailable("Dataset not loaded")
		return
	}

	WriteSuccess(w, r, map[string]interface{}{
		"ready":        true,
		"dataset_size": len(h.pool),
	})
}

// PresetInfo describes one weight profile.
type PresetInfo struct {
	Name    string       `json:"name"`
	Weights feed.Weights `json:"weights"`
	Default bool         `json:"default"`
}

// Presets lists the available weight profiles and marks the configured
// default.
func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	names := feed.Presets()
	infos := make([]PresetInfo, 0, len(names))
	for _, name := range names {
		weights, err := feed.PresetWeights(name)
		if err != nil {
			NewResponseWriter(w, r).InternalError("Preset table inconsistent")
			return
		}
		infos = append(infos, PresetInfo{
			Name:    name,
			Weights: weights,
			Default: name == h.config.Feed.Preset,
		})
	}

	WriteSuccess(w, r, map[string]interface{}{
		"presets":   infos,
		"default_k": feed.DefaultK,
		"night_k":   feed.NightK,
	})
}

// FeedResult is the payload of POST /api/v1/feed/run.
type FeedResult struct {
	Preset    string             `json:"preset"`
	NightMode bool               `json:"night_mode"`
	K         int                `json:"k"`
	Weights   feed.Weights       `json:"weights"`
	Items     []feed.Item        `json:"items"`
	BuildMs   float64            `json:"build_ms"`
	Report    *evaluation.Report `json:"report,omitempty"`

	// BaselineItems is the engagement-only ranking at the same length,
	// present when the request asked for a baseline comparison.
	BaselineItems []feed.Item `json:"baseline_items,omitempty"`
}

// FeedRun builds a ranked feed on demand. The request may carry its own
// candidate pool; otherwise the server-side dataset is used.
func (h *Handler) FeedRun(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req FeedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	if verr := validateFeedRequest(&req, h.config.API.MaxPoolSize, h.config.API.MaxK); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	preset := req.Preset
	if preset == "" {
		preset = h.config.Feed.Preset
	}

	requestedK := req.K
	if requestedK == 0 {
		requestedK = h.config.Feed.K
	}

	weights, k, err := feed.ResolveMode(preset, req.NightMode, requestedK)
	if err != nil {
		if errors.Is(err, feed.ErrUnknownPreset) {
			rw.BadRequest(err.Error())
			return
		}
		rw.InternalError("Mode resolution failed")
		return
	}

	pool := h.pool
	if len(req.Pool) > 0 {
		pool = feed.NormalizeEngagement(req.Pool)
	}
	if len(pool) == 0 {
		rw.ServiceUnavailable("No candidate pool available")
		return
	}

	if req.Seed != nil {
		shuffled := make([]feed.Candidate, len(pool))
		copy(shuffled, pool)
		rng := rand.New(rand.NewSource(*req.Seed))
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		pool = shuffled
	}

	recentWindow := req.RecentWindow
	if recentWindow == 0 {
		recentWindow = h.config.Feed.RecentWindow
	}
	maxStreak := req.MaxStreak
	if maxStreak == 0 {
		maxStreak = h.config.Feed.MaxStreak
	}

	builder := feed.NewBuilder(feed.Params{
		Weights:      weights,
		K:            k,
		RecentWindow: recentWindow,
		MaxStreak:    maxStreak,
	}, logging.Logger())

	start := time.Now()
	items := builder.Build(pool)
	buildDuration := time.Since(start)

	metrics.RecordFeedBuild(preset, req.NightMode, len(items), buildDuration)

	result := FeedResult{
		Preset:    preset,
		NightMode: req.NightMode,
		K:         k,
		Weights:   weights,
		Items:     items,
		BuildMs:   float64(buildDuration.Microseconds()) / 1000.0,
	}

	if req.Evaluate || req.Baseline {
		report := evaluation.Evaluate(items, buildDuration, evaluation.DefaultTargets())
		if req.Baseline {
			baseline := feed.RankBaseline(pool, k)
			topK := k
			if len(items) < topK {
				topK = len(items)
			}
			if len(baseline) < topK {
				topK = len(baseline)
			}
			report.OverlapRatio = evaluation.OverlapRatio(items, baseline, topK)
			report.Jaccard = evaluation.JaccardSimilarity(items, baseline, topK)
			result.BaselineItems = baseline
		}
		result.Report = &report
	}

	logging.Ctx(r.Context()).Info().
		Str("preset", preset).
		Bool("night_mode", req.NightMode).
		Int("k", k).
		Int("pool", len(pool)).
		Int("items", len(items)).
		Dur("build", buildDuration).
		Msg("Feed built")

	rw.Success(result)
}
