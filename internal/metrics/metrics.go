package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label value constants to prevent typos
const (
	// intervals.icu API operations
	OpListActivities = "list_activities"
	OpListWellness   = "list_wellness"
	OpListEvents     = "list_events"
	OpGetActivity    = "get_activity"
	OpGetStreams     = "get_streams"

	// Documents
	DocumentLatest  = "latest"
	DocumentHistory = "history"

	// Build results
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// intervals.icu API Metrics
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervals_api_requests_total",
			Help: "Total number of intervals.icu API requests",
		},
		[]string{"operation", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intervals_api_request_duration_seconds",
			Help:    "intervals.icu API request latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	APIThrottledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intervals_api_throttled_total",
			Help: "Number of 429 responses received from intervals.icu",
		},
	)
)

// Document build Metrics
var (
	BuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_builds_total",
			Help: "Total number of snapshot document builds by result",
		},
		[]string{"document", "result"},
	)

	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "document_build_duration_seconds",
			Help:    "Time spent fetching and assembling a document",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"document"},
	)

	MetricDegradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "derived_metric_degraded_total",
			Help: "Derived metrics that failed and were annotated instead of computed",
		},
		[]string{"metric"},
	)

	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_generated_total",
			Help: "Alerts produced by snapshot builds",
		},
		[]string{"severity", "metric"},
	)
)

// ObserveBuild records the outcome and duration of one document build
func ObserveBuild(document string, start time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	BuildsTotal.WithLabelValues(document, result).Inc()
	BuildDuration.WithLabelValues(document).Observe(time.Since(start).Seconds())
}

// Handler returns the HTTP handler serving the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
