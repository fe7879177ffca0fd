package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks cache performance.
type Metrics struct {
	Hits   int64
	Misses int64
	Stale  int64
	Sets   int64
}

// Cache is a generic TTL cache. Entries are advisory snapshots, never the
// source of truth: expired entries are kept around so callers can fall back
// to stale data when the backend is unavailable. There is no background
// sweep; expiry is computed from the insertion timestamp at read time.
type Cache[T any] struct {
	mu      sync.RWMutex
	items   map[string]entry[T]
	ttl     time.Duration
	name    string
	clock   func() time.Time
	metrics Metrics
	logger  *zap.Logger
}

type entry[T any] struct {
	value    T
	storedAt time.Time
	ttl      time.Duration
}

// Option configures a Cache.
type Option[T any] func(*Cache[T])

// WithClock replaces the wall clock, for tests.
func WithClock[T any](clock func() time.Time) Option[T] {
	return func(c *Cache[T]) {
		c.clock = clock
	}
}

// New creates a cache with the given default TTL and name.
func New[T any](ttl time.Duration, name string, logger *zap.Logger, opts ...Option[T]) *Cache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache[T]{
		items:  make(map[string]entry[T]),
		ttl:    ttl,
		name:   name,
		clock:  time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores value under key with the cache default TTL, overwriting any
// previous entry unconditionally.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a per-entry TTL.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:    value,
		storedAt: c.clock(),
		ttl:      ttl,
	}
	c.metrics.Sets++

	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)
}

// Get retrieves the entry for key. A missing key reports ok=false and
// expired=true. An entry whose age has reached its TTL is still returned
// (ok=true) with expired=true so the caller may use it as a stale fallback;
// the exact-boundary case counts as expired.
func (c *Cache[T]) Get(key string) (value T, expired bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		c.metrics.Misses++
		var zero T
		c.logger.Debug("Cache miss",
			zap.String("cache", c.name),
			zap.String("key", key),
		)
		return zero, true, false
	}

	if c.clock().Sub(item.storedAt) >= item.ttl {
		c.metrics.Stale++
		c.logger.Debug("Cache stale",
			zap.String("cache", c.name),
			zap.String("key", key),
		)
		return item.value, true, true
	}

	c.metrics.Hits++
	c.logger.Debug("Cache hit",
		zap.String("cache", c.name),
		zap.String("key", key),
	)
	return item.value, false, true
}

// GetFresh retrieves the entry for key only if it is still within its TTL.
func (c *Cache[T]) GetFresh(key string) (T, bool) {
	value, expired, ok := c.Get(key)
	if !ok || expired {
		var zero T
		return zero, false
	}
	return value, true
}

// Delete removes an item from the cache.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	c.logger.Debug("Cache delete",
		zap.String("cache", c.name),
		zap.String("key", key),
	)
}

// Clear removes all items from the cache.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]entry[T])
	c.logger.Info("Cache cleared",
		zap.String("cache", c.name),
	)
}

// GetMetrics returns current cache metrics.
func (c *Cache[T]) GetMetrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

// Size returns the number of items in the cache, stale entries included.
func (c *Cache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
