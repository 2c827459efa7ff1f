package querycache

import (
	"context"
	"time"
)

// Store is the fail-safe key/value contract the memoizer depends on.
// Implementations absorb backend failures instead of returning them: a
// disconnected backend degrades every read to a miss and every write to a
// no-op. Callers only ever observe hit or miss, never a backend error.
//
// Implementations must be safe for concurrent use.
type Store interface {
	Driver() Driver

	// Connect establishes the backend connection and verifies liveness.
	// It returns false on failure and never panics.
	Connect(ctx context.Context) bool

	// Connected issues a liveness probe, returning false on any error.
	// It gates every other operation before it touches the network.
	Connected(ctx context.Context) bool

	// Get returns the raw blob for key when present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set writes value with an expiry of ttl; ttl <= 0 falls back to the
	// store's default TTL. Overwriting replaces the whole entry and
	// restarts its TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Delete reports whether a key was actually removed, not merely
	// whether the call succeeded.
	Delete(ctx context.Context, key string) bool

	// Flush removes every key in this store's scope. Scoped to one
	// logical database, never the whole backend.
	Flush(ctx context.Context) bool

	// Stats returns an aggregate snapshot, zero-valued when disconnected.
	Stats(ctx context.Context) Stats

	// Health is a point-in-time diagnostic of the connection. Never cached.
	Health(ctx context.Context) Health
}

// Stats is an aggregate snapshot of store effectiveness.
type Stats struct {
	Hits             int64   `json:"hits"`
	Misses           int64   `json:"misses"`
	HitRate          float64 `json:"hit_rate"`
	MemoryUsage      string  `json:"memory_usage"`
	ConnectedClients int64   `json:"connected_clients"`
	TotalKeys        int64   `json:"total_keys"`
}

// Health reports the result of a single liveness probe.
type Health struct {
	Connected   bool    `json:"connected"`
	LatencyMS   float64 `json:"latency_ms"`
	MemoryUsage string  `json:"memory_usage"`
	Err         string  `json:"error,omitempty"`
}

// hitRate derives a percentage, defined as 0 when there is no traffic.
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
