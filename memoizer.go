package querycache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Memoizer wraps named deterministic computations with cache-aside
// memoization: derive a key, consult the store, compute and write back on
// a miss. The memoizer, not the store, owns invoking the computation.
//
// Concurrent misses on the same key are not deduplicated; both callers
// compute and both write. Writes are idempotent (last writer wins, same
// TTL), so this costs throughput, not correctness.
type Memoizer struct {
	store      Store
	defaultTTL time.Duration
	logger     *zap.Logger
	observer   Observer
	timings    *QueryTimings
}

// MemoizerOption configures a Memoizer.
type MemoizerOption func(*Memoizer)

// WithTTL overrides the fallback TTL applied when a call passes ttl <= 0.
func WithTTL(ttl time.Duration) MemoizerOption {
	return func(m *Memoizer) {
		if ttl > 0 {
			m.defaultTTL = ttl
		}
	}
}

// WithLogger injects the logger. Defaults to a no-op logger; the memoizer
// never configures logging itself.
func WithLogger(logger *zap.Logger) MemoizerOption {
	return func(m *Memoizer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithObserver attaches an observer receiving one event per Execute.
func WithObserver(o Observer) MemoizerOption {
	return func(m *Memoizer) {
		m.observer = o
	}
}

// NewMemoizer builds a facade over store. The store is the only shared
// state; the memoizer itself is stateless across calls except for its
// append-only telemetry series.
func NewMemoizer(store Store, opts ...MemoizerOption) *Memoizer {
	m := &Memoizer{
		store:      store,
		defaultTTL: defaultCacheTTL,
		logger:     zap.NewNop(),
		timings:    NewQueryTimings(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying store.
func (m *Memoizer) Store() Store { return m.store }

// Timings returns this memoizer's telemetry sink.
func (m *Memoizer) Timings() *QueryTimings { return m.timings }

func (m *Memoizer) resolveTTL(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	return m.defaultTTL
}

func (m *Memoizer) observe(ctx context.Context, op, key string, hit bool, err error, start time.Time) {
	if m.observer == nil {
		return
	}
	m.observer.OnCacheOp(ctx, op, key, hit, err, time.Since(start), m.store.Driver())
}

// Execute returns the memoized result of the named computation.
//
// On a hit the cached document is decoded into T and returned as-is; the
// shape is not re-validated against what fn would currently produce, and a
// document that no longer decodes falls through as a miss. On a miss fn
// runs, its result is written back with ttl (ttl <= 0 uses the memoizer
// default), and the fresh result is returned whether or not the write
// stuck. An error from fn propagates unchanged and nothing is cached.
func Execute[T any](ctx context.Context, m *Memoizer, name string, params Params, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	key := DeriveKey(name, params)
	start := time.Now()

	if cached, ok := GetJSON[T](ctx, m.store, key); ok {
		elapsed := time.Since(start)
		m.timings.Record(name, elapsed, true)
		m.observe(ctx, name, key, true, nil, start)
		m.logger.Debug("cache hit", zap.String("key", key), zap.Duration("elapsed", elapsed))
		return cached, nil
	}

	result, err := fn(ctx)
	if err != nil {
		m.observe(ctx, name, key, false, err, start)
		return zero, err
	}
	// Miss timing includes the computation itself.
	m.timings.Record(name, time.Since(start), false)

	body, err := json.Marshal(result)
	if err != nil {
		m.logger.Warn("result not serializable, skipping cache write",
			zap.String("key", key), zap.Error(err))
	} else if !m.store.Set(ctx, key, body, m.resolveTTL(ttl)) {
		m.logger.Warn("cache write failed", zap.String("key", key))
	}
	m.observe(ctx, name, key, false, nil, start)
	return result, nil
}
