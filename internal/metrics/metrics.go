// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package metrics provides Prometheus instrumentation for feed building,
// API traffic, dataset loading, and experiment batches.
package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed builder metrics
	FeedBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_build_duration_seconds",
			Help:    "Duration of feed builds in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"preset", "night_mode"},
	)

	FeedBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_builds_total",
			Help: "Total number of feed builds",
		},
		[]string{"preset", "night_mode"},
	)

	FeedItemsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_items_returned",
			Help:    "Number of items returned per feed build",
			Buckets: []float64{5, 10, 15, 25, 50, 100, 250, 500},
		},
	)

	FeedRelaxationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_guard_relaxations_total",
			Help: "Total number of picks made with the repetition guard relaxed",
		},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Dataset metrics
	DatasetCandidates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_candidates",
			Help: "Number of candidates in the loaded dataset",
		},
	)

	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Duration of dataset loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Experiment batch metrics
	ExperimentSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "experiment_sessions_total",
			Help: "Total number of simulated sessions executed",
		},
	)

	ExperimentBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "experiment_batch_duration_seconds",
			Help:    "Duration of experiment batches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	// System metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordFeedBuild records one feed build.
func RecordFeedBuild(preset string, nightMode bool, items int, duration time.Duration) {
	night := strconv.FormatBool(nightMode)
	FeedBuildDuration.WithLabelValues(preset, night).Observe(duration.Seconds())
	FeedBuildsTotal.WithLabelValues(preset, night).Inc()
	FeedItemsReturned.Observe(float64(items))
}

// RecordRelaxation records a pick made with the repetition guard relaxed.
func RecordRelaxation() {
	FeedRelaxationsTotal.Inc()
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
// RecordRateLimitHit counts a rate limit rejection for an endpoint.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDatasetLoad records a dataset load.
func RecordDatasetLoad(candidates int, duration time.Duration) {
	DatasetCandidates.Set(float64(candidates))
	DatasetLoadDuration.Observe(duration.Seconds())
}

// RecordExperimentBatch records a completed experiment batch.
func RecordExperimentBatch(sessions int, duration time.Duration) {
	ExperimentSessionsTotal.Add(float64(sessions))
	ExperimentBatchDuration.Observe(duration.Seconds())
}

// SetAppInfo publishes the build version gauge.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
