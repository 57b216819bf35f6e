// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	TrackedItemMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracked_items_mutations_total",
			Help: "Successful tracked item mutations by variant and operation",
		},
		[]string{"variant", "op"},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Signup and login attempts by outcome",
		},
		[]string{"op", "outcome"},
	)
)

func RecordRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordMutation(variant, op string) {
	TrackedItemMutations.WithLabelValues(variant, op).Inc()
}

func RecordAuth(op, outcome string) {
	AuthAttempts.WithLabelValues(op, outcome).Inc()
}
