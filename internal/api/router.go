// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/config"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
	"github.com/CatInTheRiceHat/MorphoMedia/internal/middleware"
)

// Router assembles the Chi route tree over the shared handler state.
type Router struct {
	cfg     *config.Config
	handler *Handler
	mw      *Middleware
}

// NewRouter creates a router for the given config and candidate pool.
func NewRouter(cfg *config.Config, pool []feed.Candidate) *Router {
	return &Router{
		cfg:     cfg,
		handler: NewHandler(cfg, pool),
		mw:      NewMiddleware(cfg.Server),
	}
}

// Setup builds the Chi mux. Global middleware runs on every route; the feed
// endpoint additionally gets rate limiting and Prometheus instrumentation.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(rt.mw.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rt.mw.RateLimitHealth())
		r.Get("/", rt.handler.Health)
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.mw.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/presets", rt.handler.Presets)
		r.Post("/feed/run", rt.handler.FeedRun)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	return r
}
