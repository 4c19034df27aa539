package tools

import (
	"sync"
	"time"
)

// ttlCache is a generic thread-safe cache with TTL support, used to avoid
// repeating identical place-search model queries within one process.
type ttlCache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]cacheItem[V]
	ttl   time.Duration
}

type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

func newTTLCache[K comparable, V any](ttl time.Duration) *ttlCache[K, V] {
	return &ttlCache[K, V]{
		items: make(map[K]cacheItem[V]),
		ttl:   ttl,
	}
}

// Get retrieves a value if it exists and hasn't expired.
func (c *ttlCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || time.Now().After(item.expiresAt) {
		var zero V
		return zero, false
	}
	return item.value, true
}

// Set adds a value with the configured TTL, pruning expired entries as it goes.
func (c *ttlCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, k)
		}
	}
	c.items[key] = cacheItem[V]{
		value:     value,
		expiresAt: now.Add(c.ttl),
	}
}

// Size returns the number of entries, expired or not.
func (c *ttlCache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
