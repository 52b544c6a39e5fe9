package cache

import (
	"context"
	"time"

	"github.com/ZaguanLabs/anglify"
	"github.com/redis/go-redis/v9"
)

// opTimeout bounds every Redis round trip made through the cache interface.
const opTimeout = 2 * time.Second

// RedisCache is a Redis-backed translation cache, shared by every instance
// of the service that points at the same Redis.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int    // TTL in seconds (0 = no expiration)
	KeyPrefix string // Prefix for all keys (default: "anglify:")
}

// NewRedisCache connects to Redis and verifies the connection.
//
// A malformed URL is a permanent error. A failed ping is returned as a
// retryable *anglify.CacheError.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &anglify.CacheError{Message: "invalid redis URL", Cause: err}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, &anglify.CacheError{Message: "failed to connect to redis", Cause: err, Retryable: true}
	}

	return NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// op returns the context for one cache round trip.
func op() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// Get retrieves a value from Redis. Backend errors are reported as misses.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := op()
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		// redis.Nil and backend failures alike
		return "", false
	}
	return val, true
}

// GetMany fetches keys with a single MGET. Missing keys, and every key when
// the backend fails, are left out of the result.
func (c *RedisCache) GetMany(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out
	}

	ctx, cancel := op()
	defer cancel()

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.keyPrefix + key
	}

	vals, err := c.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return out
	}
	for i, v := range vals {
		if s, ok := v.(string); ok && i < len(keys) {
			out[keys[i]] = s
		}
	}
	return out
}

// Set stores a value under the configured TTL.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := op()
	defer cancel()

	if err := c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err(); err != nil {
		return &anglify.CacheError{Message: "redis set failed", Cause: err, Retryable: true}
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping reports whether Redis answers; /readyz uses it.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return &anglify.CacheError{Message: "redis ping failed", Cause: err, Retryable: true}
	}
	return nil
}

var (
	_ Pinger              = (*RedisCache)(nil)
	_ anglify.BatchGetter = (*RedisCache)(nil)
)
