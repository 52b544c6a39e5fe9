package config

import (
	"fmt"
	"slices"
)

var (
	cacheBackends = []string{"none", "memory", "redis"}
	logLevels     = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	logFormats    = []string{"console", "json"}
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}

	if err := c.Cache.validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerMinute <= 0 {
			return fmt.Errorf("rate_limit.requests_per_minute must be > 0 (got %d)", c.RateLimit.RequestsPerMinute)
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate_limit.burst must be > 0 (got %d)", c.RateLimit.Burst)
		}
	}

	return nil
}

func (c *CacheConfig) validate() error {
	if !slices.Contains(cacheBackends, c.Backend) {
		return fmt.Errorf("backend must be one of %v (got %q)", cacheBackends, c.Backend)
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl must be >= 0 (got %d)", c.TTL)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("max_entries must be >= 0 (got %d)", c.MaxEntries)
	}
	if c.Backend == "redis" && c.RedisURL == "" {
		return fmt.Errorf("redis_url is required for the redis backend")
	}
	if c.SnapshotPath != "" && c.Backend != "memory" {
		return fmt.Errorf("snapshot_path is only supported by the memory backend")
	}
	return nil
}
