package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeyboard_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journeyboard_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Upstream journey backend metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeyboard_upstream_requests_total",
			Help: "Total journey backend requests",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journeyboard_upstream_latency_seconds",
			Help:    "Journey backend request latency",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	// Query cache metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeyboard_cache_lookups_total",
			Help: "Query cache lookups",
		},
		[]string{"query", "result"}, // "hit" or "miss"
	)

	FetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeyboard_fetch_failures_total",
			Help: "Fetches that failed after all retries",
		},
		[]string{"query"},
	)

	SnapshotFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journeyboard_snapshot_fallbacks_total",
			Help: "Journeys served from a stored snapshot after a failed fetch",
		},
	)

	SnapshotsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journeyboard_snapshots_saved_total",
			Help: "Journey snapshots persisted",
		},
	)

	// Business metrics
	JourneysGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journeyboard_journeys_generated_total",
			Help: "Journeys generated through the backend",
		},
	)

	SearchQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journeyboard_search_queries_total",
			Help: "Total search queries",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeyboard_rate_limit_hits_total",
			Help: "Total rate limited requests by rule",
		},
		[]string{"rule"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeyboard_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)
)
