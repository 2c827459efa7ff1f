// Package querycache memoizes expensive, deterministic computations behind
// a TTL-bounded cache.
//
// A Memoizer derives a stable key from a computation's name and parameters,
// consults a Store, and on a miss runs the computation and writes the
// result back with an expiry. Store failures never surface to callers: a
// dead backend degrades every read to a miss and every write to a no-op,
// so the cache stays an optimization rather than a dependency.
//
// Example:
//
//	client := querycache.NewRedisClient(cfg)
//	store := querycache.NewRedisStore(ctx, client)
//	memo := querycache.NewMemoizer(store)
//	result, err := querycache.Execute(ctx, memo, "avg_delay_airline",
//		querycache.Params{"delay_type": "ARR_DELAY"}, time.Minute, compute)
package querycache
