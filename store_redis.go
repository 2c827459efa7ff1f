package querycache

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client captures the subset of redis.Client used by the store.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	FlushDB(ctx context.Context) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Info(ctx context.Context, section ...string) *redis.StringCmd
	DBSize(ctx context.Context) *redis.IntCmd
}

// NewRedisClient builds a go-redis client from Config. The client pools
// connections and is safe for concurrent use; the fixed timeouts keep an
// unreachable server from stalling callers.
func NewRedisClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		DB:           cfg.DB,
		Password:     cfg.Password,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readWriteTimeout,
		WriteTimeout: readWriteTimeout,
	})
}

type redisStore struct {
	client     Client
	defaultTTL time.Duration
	prefix     string
	logger     *zap.Logger
}

func newRedisStore(client Client, defaultTTL time.Duration, prefix string, logger *zap.Logger) Store {
	if defaultTTL <= 0 {
		defaultTTL = defaultCacheTTL
	}
	if prefix == "" {
		prefix = defaultCachePrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisStore{
		client:     client,
		defaultTTL: defaultTTL,
		prefix:     prefix,
		logger:     logger,
	}
}

func (s *redisStore) Driver() Driver {
	return DriverRedis
}

func (s *redisStore) Connect(ctx context.Context) bool {
	if s.client == nil {
		s.logger.Error("redis connect failed", zap.Error(ErrNoClient))
		return false
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.logger.Error("redis connect failed", zap.Error(err))
		return false
	}
	s.logger.Info("connected to redis")
	return true
}

// Connected issues a liveness probe. Every data operation passes through
// here before touching the keyspace; a probe costs far less than the
// computations being cached.
func (s *redisStore) Connected(ctx context.Context) bool {
	if s.client == nil {
		return false
	}
	return s.client.Ping(ctx).Err() == nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if !s.Connected(ctx) {
		s.logger.Warn("redis not connected, bypassing cache read", zap.String("key", key))
		return nil, false
	}
	value, err := s.client.Get(ctx, s.cacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Error("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return value, true
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if !s.Connected(ctx) {
		s.logger.Warn("redis not connected, dropping cache write", zap.String("key", key))
		return false
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, s.cacheKey(key), value, ttl).Err(); err != nil {
		s.logger.Error("redis set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *redisStore) Delete(ctx context.Context, key string) bool {
	if !s.Connected(ctx) {
		return false
	}
	removed, err := s.client.Del(ctx, s.cacheKey(key)).Result()
	if err != nil {
		s.logger.Error("redis delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return removed > 0
}

func (s *redisStore) Flush(ctx context.Context) bool {
	if !s.Connected(ctx) {
		return false
	}
	// FLUSHDB is scoped to the configured logical database, never the
	// whole server.
	if err := s.client.FlushDB(ctx).Err(); err != nil {
		s.logger.Error("redis flush failed", zap.Error(err))
		return false
	}
	s.logger.Info("cleared all cache keys")
	return true
}

func (s *redisStore) Stats(ctx context.Context) Stats {
	if !s.Connected(ctx) {
		return Stats{}
	}
	info, err := s.client.Info(ctx, "stats", "memory", "clients").Result()
	if err != nil {
		s.logger.Error("redis info failed", zap.Error(err))
		return Stats{}
	}
	hits := infoInt(info, "keyspace_hits")
	misses := infoInt(info, "keyspace_misses")
	stats := Stats{
		Hits:             hits,
		Misses:           misses,
		HitRate:          hitRate(hits, misses),
		MemoryUsage:      infoField(info, "used_memory_human"),
		ConnectedClients: infoInt(info, "connected_clients"),
	}
	if size, err := s.client.DBSize(ctx).Result(); err == nil {
		stats.TotalKeys = size
	}
	return stats
}

func (s *redisStore) Health(ctx context.Context) Health {
	var h Health
	if s.client == nil {
		h.Err = ErrNoClient.Error()
		return h
	}
	start := time.Now()
	if err := s.client.Ping(ctx).Err(); err != nil {
		h.Err = err.Error()
		return h
	}
	h.Connected = true
	h.LatencyMS = math.Round(float64(time.Since(start).Nanoseconds())/1e6*100) / 100
	if info, err := s.client.Info(ctx, "memory").Result(); err == nil {
		h.MemoryUsage = infoField(info, "used_memory_human")
	}
	return h
}

func (s *redisStore) cacheKey(key string) string {
	return s.prefix + ":" + key
}

// infoField extracts one "name:value" line from an INFO response.
func infoField(info, field string) string {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, field+":"); ok {
			return value
		}
	}
	return ""
}

func infoInt(info, field string) int64 {
	n, err := strconv.ParseInt(infoField(info, field), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
