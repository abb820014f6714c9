package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daysync_cache_lookups_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"namespace", "result"},
	)

	// UpstreamRequests counts calls to third-party APIs by status.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daysync_upstream_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"api", "status"},
	)

	// UpstreamDuration tracks upstream API latency in seconds.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "daysync_upstream_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"api"},
	)

	// ViewerBootstraps counts docs viewer initializations by outcome.
	ViewerBootstraps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daysync_viewer_bootstraps_total",
			Help: "Total number of API docs viewer initializations",
		},
		[]string{"status"},
	)

	// CalendarRaces tracks the number of races in the latest stored season.
	CalendarRaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "daysync_calendar_races",
			Help: "Number of races in the latest stored MotoGP season",
		},
	)

	// HTTPRequests counts total HTTP requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daysync_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration tracks HTTP request duration.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "daysync_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)
