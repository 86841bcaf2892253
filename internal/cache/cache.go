// Package cache provides a process-wide, concurrency-safe TTL cache.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cache is a generic in-memory cache with per-entry expiry. Writes for the
// same key are last-writer-wins; entries are never merged.
type Cache[K comparable, V any] struct {
	mu         sync.RWMutex
	items      map[K]*item[V]
	defaultTTL time.Duration

	hits   atomic.Int64
	misses atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// New creates a cache with the given default TTL and starts a janitor
// goroutine that sweeps expired entries every cleanupInterval. Call Stop to
// halt the janitor.
func New[K comparable, V any](defaultTTL, cleanupInterval time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items:      make(map[K]*item[V]),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
	}

	go c.janitor(cleanupInterval)

	return c
}

// Get returns the value for key if present and fresh. Expired entries are
// treated as absent.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(it.expiresAt) {
		c.misses.Add(1)
		var zero V
		return zero, false
	}

	c.hits.Add(1)
	return it.value, true
}

// Set stores value under key with the cache's default TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &item[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// GetOrCompute returns the fresh cached value for key, or runs fn and caches
// its result with the given TTL. Errors from fn are returned uncached.
// Concurrent callers for the same missing key may each run fn; the last one
// to finish wins the slot.
func (c *Cache[K, V]) GetOrCompute(key K, ttl time.Duration, fn func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}

	c.SetWithTTL(key, v, ttl)
	return v, nil
}

// Delete removes key from the cache.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Purge removes every entry.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*item[V])
}

// Len returns the number of stored entries, including not-yet-swept expired
// ones.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns a snapshot of entry count and hit/miss counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// Stop halts the janitor goroutine. Idempotent.
func (c *Cache[K, V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Cache[K, V]) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, it := range c.items {
				if now.After(it.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
