// Package metrics provides Prometheus metrics for the smart bin.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TogglesTotal counts lid toggles by resulting state.
	TogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartbin",
			Name:      "toggles_total",
			Help:      "Total number of lid toggles",
		},
		[]string{"state"},
	)

	// ItemsProcessedTotal counts pipeline runs by outcome.
	ItemsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartbin",
			Name:      "items_processed_total",
			Help:      "Total number of capture pipeline runs",
		},
		[]string{"result"},
	)

	// StageDuration measures pipeline stage duration.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smartbin",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of capture pipeline stages in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	// StatsRequestsTotal counts stats lookups by period and cache outcome.
	StatsRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartbin",
			Name:      "stats_requests_total",
			Help:      "Total number of stats lookups",
		},
		[]string{"period", "cache"},
	)

	// AnalysisAttemptsTotal counts worker analysis attempts by outcome.
	AnalysisAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartbin",
			Name:      "analysis_attempts_total",
			Help:      "Total number of background analysis attempts",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal counts HTTP requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartbin",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smartbin",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordToggle records a lid toggle.
func RecordToggle(state string) {
	TogglesTotal.WithLabelValues(state).Inc()
}

// RecordItemProcessed records the outcome of a pipeline run.
func RecordItemProcessed(result string) {
	ItemsProcessedTotal.WithLabelValues(result).Inc()
}

// ObserveStage records how long a pipeline stage took.
func ObserveStage(stage string, seconds float64) {
	StageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordStatsRequest records a stats lookup.
func RecordStatsRequest(period string, cacheHit bool) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	StatsRequestsTotal.WithLabelValues(period, cache).Inc()
}

// RecordAnalysisAttempt records a worker analysis attempt.
func RecordAnalysisAttempt(result string) {
	AnalysisAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}
