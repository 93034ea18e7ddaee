// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AllocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allocator_allocations_total",
		Help: "Allocation requests by outcome.",
	}, []string{"outcome"})

	SolverIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocator_solver_iterations",
		Help:    "Redistribution passes needed per allocation.",
		Buckets: prometheus.LinearBuckets(1, 1, 12),
	})

	EqualWeightFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocator_equal_weight_fallbacks_total",
		Help: "Allocations whose requested cap was below 1/n.",
	})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allocator_upstream_requests_total",
		Help: "Market data requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	CoinListCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allocator_coin_list_cache_total",
		Help: "Coin list lookups by cache result.",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allocator_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
