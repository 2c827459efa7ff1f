package querycache

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// QueryTimings accumulates per-computation latency samples, split into hit
// and miss series. It is process-local and purely observational: samples
// reset with the process and are never persisted.
type QueryTimings struct {
	mu     sync.Mutex
	series map[string]*timingSeries
}

type timingSeries struct {
	hits   []float64 // seconds
	misses []float64
}

// TimingSummary aggregates one computation's samples.
type TimingSummary struct {
	HitCount  int
	MissCount int
	AvgHit    time.Duration
	AvgMiss   time.Duration

	// Speedup is AvgMiss/AvgHit; 0 until both series have samples.
	Speedup float64
}

// NewQueryTimings returns an empty telemetry sink.
func NewQueryTimings() *QueryTimings {
	return &QueryTimings{series: make(map[string]*timingSeries)}
}

// Record appends one sample to name's hit or miss series.
func (t *QueryTimings) Record(name string, dur time.Duration, hit bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.series[name]
	if s == nil {
		s = &timingSeries{}
		t.series[name] = s
	}
	if hit {
		s.hits = append(s.hits, dur.Seconds())
	} else {
		s.misses = append(s.misses, dur.Seconds())
	}
}

// Snapshot summarizes every series recorded so far.
func (t *QueryTimings) Snapshot() map[string]TimingSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]TimingSummary, len(t.series))
	for name, s := range t.series {
		summary := TimingSummary{
			HitCount:  len(s.hits),
			MissCount: len(s.misses),
		}
		if len(s.hits) > 0 {
			summary.AvgHit = secondsToDuration(stat.Mean(s.hits, nil))
		}
		if len(s.misses) > 0 {
			summary.AvgMiss = secondsToDuration(stat.Mean(s.misses, nil))
		}
		if summary.AvgHit > 0 && summary.AvgMiss > 0 {
			summary.Speedup = float64(summary.AvgMiss) / float64(summary.AvgHit)
		}
		out[name] = summary
	}
	return out
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
