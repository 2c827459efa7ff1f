package querycache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore is an in-process Store for tests and cache-less deployments.
// Hit/miss counters are tracked locally since there is no server to ask.
type memoryStore struct {
	cache      *gocache.Cache
	defaultTTL time.Duration
	hits       atomic.Int64
	misses     atomic.Int64
}

func newMemoryStore(defaultTTL, cleanupInterval time.Duration) Store {
	if defaultTTL <= 0 {
		defaultTTL = defaultCacheTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = defaultMemoryCleanupInterval
	}
	return &memoryStore{
		cache:      gocache.New(defaultTTL, cleanupInterval),
		defaultTTL: defaultTTL,
	}
}

func (s *memoryStore) Driver() Driver {
	return DriverMemory
}

func (s *memoryStore) Connect(context.Context) bool {
	return true
}

func (s *memoryStore) Connected(context.Context) bool {
	return true
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	item, ok := s.cache.Get(key)
	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	body, ok := item.([]byte)
	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	clone := make([]byte, len(body))
	copy(clone, body)
	return clone, true
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	clone := make([]byte, len(value))
	copy(clone, value)
	s.cache.Set(key, clone, ttl)
	return true
}

func (s *memoryStore) Delete(_ context.Context, key string) bool {
	if _, ok := s.cache.Get(key); !ok {
		return false
	}
	s.cache.Delete(key)
	return true
}

func (s *memoryStore) Flush(context.Context) bool {
	s.cache.Flush()
	return true
}

// Stats keeps counters across Flush, mirroring how a server's keyspace
// counters survive FLUSHDB.
func (s *memoryStore) Stats(context.Context) Stats {
	hits := s.hits.Load()
	misses := s.misses.Load()
	items := int64(s.cache.ItemCount())
	return Stats{
		Hits:             hits,
		Misses:           misses,
		HitRate:          hitRate(hits, misses),
		MemoryUsage:      fmt.Sprintf("%d items", items),
		ConnectedClients: 1,
		TotalKeys:        items,
	}
}

func (s *memoryStore) Health(context.Context) Health {
	return Health{
		Connected:   true,
		LatencyMS:   0,
		MemoryUsage: fmt.Sprintf("%d items", s.cache.ItemCount()),
	}
}
