package querycache

import (
	"context"
	"encoding/json"
	"time"
)

// GetJSON decodes the stored document at key into T. A document that does
// not decode into T (corrupted, or written by an older shape of the
// computation) is treated as a miss; it must never crash the caller.
func GetJSON[T any](ctx context.Context, store Store, key string) (T, bool) {
	var zero T
	body, ok := store.Get(ctx, key)
	if !ok {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, false
	}
	return out, true
}

// SetJSON encodes value as a UTF-8 JSON document and writes it with ttl.
// Types without a native JSON form (time.Time and friends) encode to their
// string representation, a one-way coercion. Returns whether the write
// succeeded.
func SetJSON[T any](ctx context.Context, store Store, key string, value T, ttl time.Duration) bool {
	body, err := json.Marshal(value)
	if err != nil {
		return false
	}
	return store.Set(ctx, key, body, ttl)
}
