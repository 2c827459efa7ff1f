// Package promstats exports memoizer telemetry as Prometheus metrics.
package promstats

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flightlens/querycache"
)

// Observer implements querycache.Observer using Prometheus metrics.
type Observer struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// Compile-time check that Observer implements querycache.Observer.
var _ querycache.Observer = (*Observer)(nil)

// New creates an Observer registered on registry. If registry is nil,
// prometheus.DefaultRegisterer is used. Re-registering the same metrics
// is tolerated so multiple memoizers can share one registry.
func New(registry prometheus.Registerer) *Observer {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "querycache_requests_total",
		Help: "Memoized computation requests by query and outcome.",
	}, []string{"query", "outcome"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "querycache_request_duration_seconds",
		Help:    "Memoized computation latency by query and outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query", "outcome"})

	return &Observer{
		requests:  registerCounterVec(registry, requests),
		durations: registerHistogramVec(registry, durations),
	}
}

// OnCacheOp records one memoizer operation.
func (o *Observer) OnCacheOp(_ context.Context, op string, _ string, hit bool, err error, dur time.Duration, _ querycache.Driver) {
	outcome := "miss"
	switch {
	case err != nil:
		outcome = "error"
	case hit:
		outcome = "hit"
	}
	o.requests.WithLabelValues(op, outcome).Inc()
	o.durations.WithLabelValues(op, outcome).Observe(dur.Seconds())
}

func registerCounterVec(registry prometheus.Registerer, vec *prometheus.CounterVec) *prometheus.CounterVec {
	if err := registry.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return vec
}

func registerHistogramVec(registry prometheus.Registerer, vec *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := registry.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
	}
	return vec
}
