package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMaxEntries bounds the memory cache when no size is given.
const DefaultMaxEntries = 10000

// InMemoryCache is a size-bounded LRU cache with optional expiry. It is safe
// for concurrent use.
//
// Expired entries are dropped in the background. Once the cache is full,
// the least recently used entry makes room for the new one.
type InMemoryCache struct {
	lru        *expirable.LRU[string, string]
	ttl        time.Duration
	maxEntries int

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// Stats are counters since the cache was created.
type Stats struct {
	Entries    int   `json:"entries"`
	MaxEntries int   `json:"max_entries"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Evictions  int64 `json:"evictions"`
}

// NewInMemoryCache creates a cache holding up to DefaultMaxEntries results.
// If ttlSeconds is 0 or negative, entries never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	return NewBoundedMemoryCache(ttlSeconds, DefaultMaxEntries)
}

// NewBoundedMemoryCache creates a cache holding up to maxEntries results.
// A maxEntries of 0 or less removes the bound.
func NewBoundedMemoryCache(ttlSeconds, maxEntries int) *InMemoryCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &InMemoryCache{
		lru:        expirable.NewLRU[string, string](maxEntries, nil, ttl),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get retrieves a value and marks it recently used. Expired entries are
// misses.
func (c *InMemoryCache) Get(key string) (string, bool) {
	val, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return val, true
}

// Set stores a value, restarting its expiry.
func (c *InMemoryCache) Set(key string, value string) error {
	if c.lru.Add(key, value) {
		c.evictions.Add(1)
	}
	return nil
}

// Len returns the number of entries, including expired ones not yet dropped.
func (c *InMemoryCache) Len() int {
	return c.lru.Len()
}

// Clear removes all entries. Counters are kept.
func (c *InMemoryCache) Clear() {
	c.lru.Purge()
}

// Stats returns a snapshot of the cache counters.
func (c *InMemoryCache) Stats() Stats {
	return Stats{
		Entries:    c.lru.Len(),
		MaxEntries: c.maxEntries,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Evictions:  c.evictions.Load(),
	}
}

// Ping always succeeds; the cache lives in process.
func (c *InMemoryCache) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Entries returns the live entries, for snapshot export.
func (c *InMemoryCache) Entries() map[string]string {
	keys := c.lru.Keys()
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := c.lru.Peek(key); ok {
			out[key] = val
		}
	}
	return out
}
