package querycache

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultCachePrefix           = "app"
	defaultCacheTTL              = 60 * time.Second
	defaultMemoryCleanupInterval = 10 * time.Minute

	// Fixed short timeouts bound the worst case when the backend is
	// unreachable: operations fail fast and the memoizer falls back to
	// direct computation.
	dialTimeout      = 5 * time.Second
	readWriteTimeout = 5 * time.Second
)

// Config carries the environment-sourced backend settings.
type Config struct {
	Host       string `mapstructure:"redis_host"`
	Port       int    `mapstructure:"redis_port"`
	DB         int    `mapstructure:"redis_db"`
	Password   string `mapstructure:"redis_password"`
	TTLSeconds int    `mapstructure:"cache_ttl"`
	Prefix     string `mapstructure:"cache_prefix"`
}

// Addr renders host:port for the redis client.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DefaultTTL returns the configured fallback expiry.
func (c Config) DefaultTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoadConfig reads settings from the environment: REDIS_HOST, REDIS_PORT,
// REDIS_DB, REDIS_PASSWORD, CACHE_TTL (seconds) and CACHE_PREFIX, with
// defaults suitable for a local redis.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")
	v.SetDefault("cache_ttl", 60)
	v.SetDefault("cache_prefix", defaultCachePrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal cache config: %w", err)
	}
	return cfg, nil
}
