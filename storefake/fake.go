// Package storefake provides a deterministic in-memory store plus
// assertion helpers for tests. No external services are needed.
package storefake

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/flightlens/querycache"
)

// Op identifies a store operation for assertions.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpDelete Op = "delete"
	OpFlush  Op = "flush"
)

// Fake is a Store wrapping the in-memory driver with per-op call counting
// and a switchable disconnected mode for degradation tests.
type Fake struct {
	inner querycache.Store

	mu           sync.Mutex
	counts       map[Op]map[string]int
	disconnected bool
}

// Compile-time check that Fake implements querycache.Store.
var _ querycache.Store = (*Fake)(nil)

// New creates a Fake backed by an in-memory store.
func New() *Fake {
	return &Fake{
		inner:  querycache.NewMemoryStore(context.Background()),
		counts: make(map[Op]map[string]int),
	}
}

// SetDisconnected forces every subsequent operation to behave as if the
// backend were unreachable: reads miss, writes are dropped.
func (f *Fake) SetDisconnected(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = down
}

func (f *Fake) down() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnected
}

func (f *Fake) Driver() querycache.Driver { return f.inner.Driver() }

func (f *Fake) Connect(ctx context.Context) bool { return !f.down() }

func (f *Fake) Connected(ctx context.Context) bool { return !f.down() }

func (f *Fake) Get(ctx context.Context, key string) ([]byte, bool) {
	f.record(OpGet, key)
	if f.down() {
		return nil, false
	}
	return f.inner.Get(ctx, key)
}

func (f *Fake) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	f.record(OpSet, key)
	if f.down() {
		return false
	}
	return f.inner.Set(ctx, key, value, ttl)
}

func (f *Fake) Delete(ctx context.Context, key string) bool {
	f.record(OpDelete, key)
	if f.down() {
		return false
	}
	return f.inner.Delete(ctx, key)
}

func (f *Fake) Flush(ctx context.Context) bool {
	f.record(OpFlush, "")
	if f.down() {
		return false
	}
	return f.inner.Flush(ctx)
}

func (f *Fake) Stats(ctx context.Context) querycache.Stats {
	if f.down() {
		return querycache.Stats{}
	}
	return f.inner.Stats(ctx)
}

func (f *Fake) Health(ctx context.Context) querycache.Health {
	if f.down() {
		return querycache.Health{Err: querycache.ErrNotConnected.Error()}
	}
	return f.inner.Health(ctx)
}

// Reset clears recorded counts.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = make(map[Op]map[string]int)
}

// AssertCalled verifies key was touched by op the expected number of times.
func (f *Fake) AssertCalled(t *testing.T, op Op, key string, times int) {
	t.Helper()
	if got := f.Count(op, key); got != times {
		t.Fatalf("expected %s %q called %d times, got %d", op, key, times, got)
	}
}

// AssertNotCalled ensures key was never touched by op.
func (f *Fake) AssertNotCalled(t *testing.T, op Op, key string) {
	t.Helper()
	if got := f.Count(op, key); got != 0 {
		t.Fatalf("expected %s %q not called, got %d", op, key, got)
	}
}

// AssertTotal ensures the total call count for an op matches times.
func (f *Fake) AssertTotal(t *testing.T, op Op, times int) {
	t.Helper()
	if got := f.Total(op); got != times {
		t.Fatalf("expected %s total=%d, got %d", op, times, got)
	}
}

// Count returns calls for op+key.
func (f *Fake) Count(op Op, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts[op] == nil {
		return 0
	}
	return f.counts[op][key]
}

// Total returns total calls for an op across keys.
func (f *Fake) Total(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int
	for _, v := range f.counts[op] {
		sum += v
	}
	return sum
}

func (f *Fake) record(op Op, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts[op] == nil {
		f.counts[op] = make(map[string]int)
	}
	f.counts[op][key]++
}
