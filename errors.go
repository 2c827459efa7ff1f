package querycache

import "errors"

// Sentinel errors for well-defined failure conditions. Stores absorb these
// rather than returning them; they surface in logs and Health snapshots.
var (
	// ErrNotConnected indicates the backend failed its liveness probe.
	ErrNotConnected = errors.New("querycache: store not connected")

	// ErrNoClient indicates a redis store was built without a client.
	ErrNoClient = errors.New("querycache: no redis client configured")
)
