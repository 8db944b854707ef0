// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/config"
)

func TestRouter_MetricsEndpoint(t *testing.T) {
	h := NewRouter(testConfig(), testPool(10)).Setup()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing runtime collectors")
	}
}

func TestRouter_NotFound(t *testing.T) {
	h := NewRouter(testConfig(), testPool(10)).Setup()

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := NewRouter(testConfig(), testPool(10)).Setup()

	rec, env := doRequest(t, h, http.MethodDelete, "/api/v1/presets", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"https://app.example.com"}
	h := NewRouter(cfg, testPool(10)).Setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/presets", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_RateLimitFeedRun(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimitDisabled = false
	cfg.Server.RateLimitReqs = 2
	cfg.Server.RateLimitWindow = time.Minute
	h := NewRouter(cfg, testPool(20)).Setup()

	var last *httptest.ResponseRecorder
	var lastEnv envelope
	for i := 0; i < 3; i++ {
		last, lastEnv = doRequest(t, h, http.MethodPost, "/api/v1/feed/run", `{"k":5}`)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last.Code)
	}
	if lastEnv.Error == nil || lastEnv.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", lastEnv.Error)
	}
}

func TestRouter_HealthExemptFromAPIRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimitDisabled = false
	cfg.Server.RateLimitReqs = 1
	cfg.Server.RateLimitWindow = time.Minute
	h := NewRouter(cfg, testPool(10)).Setup()

	// Exhaust the API limiter, then confirm health still answers.
	doRequest(t, h, http.MethodGet, "/api/v1/presets", "")
	doRequest(t, h, http.MethodGet, "/api/v1/presets", "")

	rec, _ := doRequest(t, h, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	cfg := &config.Config{
		Feed:   config.FeedConfig{Preset: "entertainment"},
		Server: config.ServerConfig{RateLimitDisabled: true},
		API:    config.APIConfig{MaxPoolSize: 100, MaxK: 50},
	}
	h := NewRouter(cfg, testPool(20)).Setup()

	for i := 0; i < 20; i++ {
		rec, _ := doRequest(t, h, http.MethodGet, "/api/v1/presets", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}
