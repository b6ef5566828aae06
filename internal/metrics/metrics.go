package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Upstream TVMaze API metrics
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showfinder_upstream_requests_total",
			Help: "Total number of requests sent to the TVMaze API.",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showfinder_upstream_request_duration_seconds",
			Help:    "Latency of requests sent to the TVMaze API.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// Widget metrics
var (
	// RendersTotal counts DOM renders per kind ("shows", "episodes").
	RendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showfinder_renders_total",
			Help: "Total number of renders applied to a page.",
		},
		[]string{"kind"},
	)

	// DiscardedResultsTotal counts results dropped because a newer action was started.
	DiscardedResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showfinder_discarded_results_total",
			Help: "Total number of stale results discarded instead of rendered.",
		},
		[]string{"kind"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "showfinder_active_sessions",
			Help: "Number of widget sessions currently held in memory.",
		},
	)
)

// Outcome label values for UpstreamRequestsTotal.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeNotFound  = "not_found"
	OutcomeMalformed = "malformed"
)

func init() {
	prometheus.MustRegister(
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		RendersTotal,
		DiscardedResultsTotal,
		ActiveSessions,
	)
}
