package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linter_api_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linter_api_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
		},
		[]string{"method", "path"},
	)

	// Relint metrics
	RelintJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linter_api_relint_jobs_total",
			Help: "Finished analyzer runs by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	RelintJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linter_api_relint_job_duration_seconds",
			Help:    "Analyzer run duration",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"mode"},
	)

	RelintInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linter_api_relint_in_flight",
			Help: "Analyzer runs currently in progress",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linter_api_rate_limit_hits_total",
			Help: "Requests rejected by the global limiter",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linter_api_blocked_requests_total",
			Help: "Relint requests rejected before running",
		},
		[]string{"reason"},
	)

	// Search metrics
	SearchQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "linter_api_search_queries_total",
			Help: "Total search queries",
		},
	)

	DownloadRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "linter_api_download_rows_total",
			Help: "Rows written to CSV downloads",
		},
	)

	SummaryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linter_api_summary_cache_total",
			Help: "Summary cache lookups by result",
		},
		[]string{"result"}, // "hit" or "miss"
	)
)
