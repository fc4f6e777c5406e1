// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novel_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "novel_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "path"},
	)

	// VoteToggles counts finished toggles by outcome: vote, unvote or error.
	VoteToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novel_vote_toggles_total",
			Help: "Vote toggles by outcome",
		},
		[]string{"outcome"},
	)

	VoteToggleRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "novel_vote_toggle_retries_total",
			Help: "Toggle attempts repeated after a concurrent update conflict",
		},
	)

	// RankingCacheLookups counts ranking cache lookups by scope and result: hit, stale, miss, corrupt, error.
	RankingCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novel_ranking_cache_lookups_total",
			Help: "Ranking cache lookups by scope and result",
		},
		[]string{"scope", "result"},
	)

	VoteCounterRepairs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "novel_vote_counter_repairs_total",
			Help: "Aggregate vote counters found diverged and rewritten",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		VoteToggles,
		VoteToggleRetries,
		RankingCacheLookups,
		VoteCounterRepairs,
	)
}
