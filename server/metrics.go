package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// routeQueryTotal counts route queries by result.
	routeQueryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routing_route_query_total",
		Help: "Total route queries by result",
	}, []string{"result"}) // "ok", "no_path", "unknown_node", "budget"

	// routeQueryPops tracks the number of states expanded per search.
	routeQueryPops = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routing_route_query_pops",
		Help:    "Number of frontier pops per route query",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1 to ~260k
	})

	// routeQueryRelaxations tracks the number of successor latencies proposed
	// per search.
	routeQueryRelaxations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routing_route_query_relaxations",
		Help:    "Number of relaxations per route query",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	// fragmentErrorsTotal counts failed reconstructions by error kind.
	fragmentErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routing_fragment_errors_total",
		Help: "Total failed reconstructions by error kind",
	}, []string{"kind"})

	// httpRequestDuration tracks request latency per route name.
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "routing_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"route", "code"})
)
