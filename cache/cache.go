// Package cache provides translation result caches.
//
// Values are opaque strings (the translator stores JSON-encoded results)
// under keys of the form "<sha256>:<direction>:<dictionary revision>".
package cache

import (
	"context"
	"fmt"

	"github.com/ZaguanLabs/anglify"
)

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached result. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a result in the cache.
	Set(key string, value string) error
}

// Pinger is implemented by caches that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend names accepted by New.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DefaultKeyPrefix is prepended to every Redis key.
const DefaultKeyPrefix = "anglify:"

// Options selects and configures a cache backend.
type Options struct {
	Backend    string              // none, memory or redis
	TTL        int                 // Entry lifetime in seconds (0 = no expiration)
	MaxEntries int                 // Memory backend bound (0 = unbounded)
	RedisURL   string              // Redis connection URL, redis backend only
	KeyPrefix  string              // Redis key prefix (default: "anglify:")
	Retry      anglify.RetryConfig // Retries for the initial Redis connection
}

// New builds the cache described by opts. The none backend returns a nil
// cache, which the translator treats as caching disabled.
//
// Connecting to Redis is retried with backoff, so a service can start
// alongside a Redis that is still coming up.
func New(ctx context.Context, opts Options) (TranslationCache, error) {
	switch opts.Backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		return NewBoundedMemoryCache(opts.TTL, opts.MaxEntries), nil
	case BackendRedis:
		rc, err := anglify.WithRetry(ctx, opts.Retry, func() (*RedisCache, error) {
			return NewRedisCache(ctx, RedisConfig{
				URL:       opts.RedisURL,
				TTL:       opts.TTL,
				KeyPrefix: opts.KeyPrefix,
			})
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, &anglify.CacheError{Message: fmt.Sprintf("unknown backend %q", opts.Backend)}
	}
}

// Verify the backends implement the translator's cache interface
var (
	_ anglify.TranslationCache = (*InMemoryCache)(nil)
	_ anglify.TranslationCache = (*RedisCache)(nil)
)
