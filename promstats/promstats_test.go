package promstats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/flightlens/querycache"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, query, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelsMatch(metric, query, outcome) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func histogramCount(t *testing.T, reg *prometheus.Registry, name, query, outcome string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelsMatch(metric, query, outcome) {
				return metric.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func labelsMatch(metric *dto.Metric, query, outcome string) bool {
	var gotQuery, gotOutcome string
	for _, label := range metric.GetLabel() {
		switch label.GetName() {
		case "query":
			gotQuery = label.GetValue()
		case "outcome":
			gotOutcome = label.GetValue()
		}
	}
	return gotQuery == query && gotOutcome == outcome
}

func TestObserverRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New(reg)
	ctx := context.Background()

	obs.OnCacheOp(ctx, "avg_delay_airline", "k", false, nil, 200*time.Millisecond, querycache.DriverRedis)
	obs.OnCacheOp(ctx, "avg_delay_airline", "k", true, nil, 5*time.Millisecond, querycache.DriverRedis)
	obs.OnCacheOp(ctx, "avg_delay_airline", "k", true, nil, 4*time.Millisecond, querycache.DriverRedis)
	obs.OnCacheOp(ctx, "flights_airport", "k2", false, errors.New("boom"), time.Millisecond, querycache.DriverRedis)

	if got := counterValue(t, reg, "querycache_requests_total", "avg_delay_airline", "hit"); got != 2 {
		t.Fatalf("expected 2 hits, got %v", got)
	}
	if got := counterValue(t, reg, "querycache_requests_total", "avg_delay_airline", "miss"); got != 1 {
		t.Fatalf("expected 1 miss, got %v", got)
	}
	if got := counterValue(t, reg, "querycache_requests_total", "flights_airport", "error"); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if got := histogramCount(t, reg, "querycache_request_duration_seconds", "avg_delay_airline", "hit"); got != 2 {
		t.Fatalf("expected 2 hit duration samples, got %d", got)
	}
}

func TestNewToleratesDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New(reg)
	second := New(reg)

	ctx := context.Background()
	first.OnCacheOp(ctx, "q", "k", true, nil, time.Millisecond, querycache.DriverMemory)
	second.OnCacheOp(ctx, "q", "k", true, nil, time.Millisecond, querycache.DriverMemory)

	// Both observers share the collectors that won registration.
	if got := counterValue(t, reg, "querycache_requests_total", "q", "hit"); got != 2 {
		t.Fatalf("expected shared counter at 2, got %v", got)
	}
}

func TestObserverFeedsFromMemoizer(t *testing.T) {
	reg := prometheus.NewRegistry()
	memo := querycache.NewMemoizer(
		querycache.NewMemoryStore(context.Background()),
		querycache.WithObserver(New(reg)),
	)

	ctx := context.Background()
	compute := func(context.Context) (int, error) { return 42, nil }
	if _, err := querycache.Execute(ctx, memo, "count_rows", nil, time.Minute, compute); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := querycache.Execute(ctx, memo, "count_rows", nil, time.Minute, compute); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got := counterValue(t, reg, "querycache_requests_total", "count_rows", "miss"); got != 1 {
		t.Fatalf("expected 1 miss, got %v", got)
	}
	if got := counterValue(t, reg, "querycache_requests_total", "count_rows", "hit"); got != 1 {
		t.Fatalf("expected 1 hit, got %v", got)
	}
}
