// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/config"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
)

func testConfig() *config.Config {
	return &config.Config{
		Feed: config.FeedConfig{
			Preset:       feed.PresetEntertainment,
			RecentWindow: feed.DefaultRecentWindow,
			MaxStreak:    feed.DefaultMaxStreak,
		},
		Server: config.ServerConfig{
			Host:              "127.0.0.1",
			Port:              8475,
			Timeout:           30 * time.Second,
			Environment:       "development",
			RateLimitDisabled: true,
		},
		API: config.APIConfig{
			MaxPoolSize: 200,
			MaxK:        50,
		},
	}
}

func testPool(n int) []feed.Candidate {
	topics := []string{"comedy", "science", "music", "cooking", "sports"}
	pool := make([]feed.Candidate, n)
	for i := range pool {
		pool[i] = feed.Candidate{
			ID:        fmt.Sprintf("vid-%03d", i),
			Topic:     topics[i%len(topics)],
			Creator:   fmt.Sprintf("creator-%d", i%7),
			ViewCount: int64(1000 * (i + 1)),
			Prosocial: float64(i%4) / 4.0,
			Risk:      float64(i%5) / 10.0,
		}
	}
	return feed.NormalizeEngagement(pool)
}

// envelope mirrors APIResponse with a raw data payload for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("response is not a valid envelope: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	h := NewRouter(testConfig(), testPool(20)).Setup()

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !env.Success {
		t.Error("success = false")
	}

	var hs HealthStatus
	if err := json.Unmarshal(env.Data, &hs); err != nil {
		t.Fatalf("decode health status: %v", err)
	}
	if hs.Status != "healthy" {
		t.Errorf("status = %q, want healthy", hs.Status)
	}
	if !hs.DatasetLoaded || hs.DatasetSize != 20 {
		t.Errorf("dataset loaded=%v size=%d, want true/20", hs.DatasetLoaded, hs.DatasetSize)
	}
	if hs.DefaultPreset != feed.PresetEntertainment {
		t.Errorf("default preset = %q", hs.DefaultPreset)
	}
}

func TestHealth_DegradedWithoutDataset(t *testing.T) {
	h := NewRouter(testConfig(), nil).Setup()

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var hs HealthStatus
	if err := json.Unmarshal(env.Data, &hs); err != nil {
		t.Fatalf("decode health status: %v", err)
	}
	if hs.Status != "degraded" {
		t.Errorf("status = %q, want degraded", hs.Status)
	}
}

func TestHealthLive(t *testing.T) {
	h := NewRouter(testConfig(), nil).Setup()

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !env.Success {
		t.Error("success = false")
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name     string
		poolSize int
		wantCode int
	}{
		{"ready with dataset", 10, http.StatusOK},
		{"not ready without dataset", 0, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(testConfig(), testPool(tt.poolSize)).Setup()
			rec, env := doRequest(t, h, http.MethodGet, "/api/v1/health/ready", "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK && env.Error == nil {
				t.Error("expected error payload")
			}
		})
	}
}

func TestPresets(t *testing.T) {
	h := NewRouter(testConfig(), testPool(10)).Setup()

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/presets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var data struct {
		Presets  []PresetInfo `json:"presets"`
		DefaultK int          `json:"default_k"`
		NightK   int          `json:"night_k"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode presets: %v", err)
	}

	if len(data.Presets) != len(feed.Presets()) {
		t.Fatalf("got %d presets, want %d", len(data.Presets), len(feed.Presets()))
	}
	if data.DefaultK != feed.DefaultK || data.NightK != feed.NightK {
		t.Errorf("default_k=%d night_k=%d", data.DefaultK, data.NightK)
	}

	defaults := 0
	for _, p := range data.Presets {
		if p.Weights.Sum() == 0 {
			t.Errorf("preset %q has zero weights", p.Name)
		}
		if p.Default {
			defaults++
			if p.Name != feed.PresetEntertainment {
				t.Errorf("default preset = %q", p.Name)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("%d presets marked default, want 1", defaults)
	}
}

func decodeFeedResult(t *testing.T, env envelope) FeedResult {
	t.Helper()
	var fr FeedResult
	if err := json.Unmarshal(env.Data, &fr); err != nil {
		t.Fatalf("decode feed result: %v", err)
	}
	return fr
}

func TestFeedRun_ServerPool(t *testing.T) {
	h := NewRouter(testConfig(), testPool(60)).Setup()

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/feed/run",
		`{"preset":"learning","k":20}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	fr := decodeFeedResult(t, env)
	if fr.Preset != feed.PresetLearning {
		t.Errorf("preset = %q", fr.Preset)
	}
	if fr.K != 20 {
		t.Errorf("k = %d, want 20", fr.K)
	}
	if len(fr.Items) != 20 {
		t.Errorf("got %d items, want 20", len(fr.Items))
	}
	if fr.Report != nil {
		t.Error("report present without evaluate flag")
	}

	seen := make(map[string]bool)
	for _, it := range fr.Items {
		if seen[it.ID] {
			t.Errorf("duplicate item %q", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestFeedRun_CallerPool(t *testing.T) {
	// Server side has no dataset, request carries its own pool.
	pool := testPool(30)
	body, err := json.Marshal(map[string]interface{}{
		"preset": "inspiration",
		"k":      10,
		"pool":   pool,
	})
	if err != nil {
		t.Fatal(err)
	}

	h := NewRouter(testConfig(), nil).Setup()
	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/feed/run", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	fr := decodeFeedResult(t, env)
	if len(fr.Items) != 10 {
		t.Errorf("got %d items, want 10", len(fr.Items))
	}
}

func TestFeedRun_NightMode(t *testing.T) {
	h := NewRouter(testConfig(), testPool(60)).Setup()

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/feed/run",
		`{"preset":"entertainment","night_mode":true,"k":40}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	fr := decodeFeedResult(t, env)
	if fr.K != feed.NightK {
		t.Errorf("night k = %d, want %d", fr.K, feed.NightK)
	}
	if len(fr.Items) != feed.NightK {
		t.Errorf("got %d items, want %d", len(fr.Items), feed.NightK)
	}
}

func TestFeedRun_Evaluate(t *testing.T) {
	h := NewRouter(testConfig(), testPool(60)).Setup()

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/feed/run",
		`{"k":20,"evaluate":true,"baseline":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	fr := decodeFeedResult(t, env)
	if fr.Report == nil {
		t.Fatal("report missing")
	}
	if fr.Report.DiversityAt10 == 0 {
		t.Error("diversity_at_10 = 0 over a 5-topic pool")
	}
	if fr.Report.OverlapRatio < 0 || fr.Report.OverlapRatio > 1 {
		t.Errorf("overlap ratio = %v", fr.Report.OverlapRatio)
	}
}

func TestFeedRun_SeededShuffleIsDeterministic(t *testing.T) {
	h := NewRouter(testConfig(), testPool(60)).Setup()

	body := `{"preset":"entertainment","k":15,"seed":42}`
	_, env1 := doRequest(t, h, http.MethodPost, "/api/v1/feed/run", body)
	_, env2 := doRequest(t, h, http.MethodPost, "/api/v1/feed/run", body)

	fr1 := decodeFeedResult(t, env1)
	fr2 := decodeFeedResult(t, env2)
	if len(fr1.Items) != len(fr2.Items) {
		t.Fatalf("lengths differ: %d vs %d", len(fr1.Items), len(fr2.Items))
	}
	for i := range fr1.Items {
		if fr1.Items[i].ID != fr2.Items[i].ID {
			t.Fatalf("item %d differs: %q vs %q", i, fr1.Items[i].ID, fr2.Items[i].ID)
		}
	}
}

func TestFeedRun_BaselineItemsIncluded(t *testing.T) {
	h := NewRouter(testConfig(), testPool(60)).Setup()

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/feed/run",
		`{"k":10,"baseline":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	fr := decodeFeedResult(t, env)
	if len(fr.BaselineItems) != 10 {
		t.Fatalf("got %d baseline items, want 10", len(fr.BaselineItems))
	}
	// Baseline is engagement-sorted.
	for i := 1; i < len(fr.BaselineItems); i++ {
		if fr.BaselineItems[i].Engagement > fr.BaselineItems[i-1].Engagement {
			t.Errorf("baseline not sorted at %d", i)
		}
	}
}

func TestFeedRun_DefaultsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Feed.Preset = feed.PresetInspiration
	h := NewRouter(cfg, testPool(40)).Setup()

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/feed/run", `{"k":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	fr := decodeFeedResult(t, env)
	if fr.Preset != feed.PresetInspiration {
		t.Errorf("preset = %q, want config default", fr.Preset)
	}
}

func TestFeedRun_Rejections(t *testing.T) {
	bigPool, err := json.Marshal(map[string]interface{}{"pool": testPool(201)})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unknown preset", `{"preset":"doomscroll"}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"k over cap", `{"k":51}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"negative k", `{"k":-1}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"pool over cap", string(bigPool), http.StatusBadRequest, ErrCodeValidationFailed},
		{"pool entry without id", `{"pool":[{"topic":"comedy","channel":"a","view_count":10}]}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"invalid json", `{"preset":`, http.StatusBadRequest, ErrCodeBadRequest},
		{"unknown field", `{"presett":"learning"}`, http.StatusBadRequest, ErrCodeBadRequest},
	}

	h := NewRouter(testConfig(), testPool(30)).Setup()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, h, http.MethodPost, "/api/v1/feed/run", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if env.Error == nil {
				t.Fatal("error payload missing")
			}
			if env.Error.Code != tt.wantErr {
				t.Errorf("error code = %q, want %q", env.Error.Code, tt.wantErr)
			}
		})
	}
}

func TestFeedRun_NoPoolAnywhere(t *testing.T) {
	h := NewRouter(testConfig(), nil).Setup()

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/feed/run", `{"k":5}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestFeedRun_ResponseCarriesRequestID(t *testing.T) {
	h := NewRouter(testConfig(), testPool(20)).Setup()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feed/run",
		strings.NewReader(`{"k":5}`))
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	var meta struct {
		Meta *APIMeta `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Meta == nil || meta.Meta.RequestID != "req-abc-123" {
		t.Errorf("meta request id = %+v", meta.Meta)
	}
}
