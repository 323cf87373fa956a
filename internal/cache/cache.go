// internal/cache/cache.go
package cache

import (
	"sync"
	"time"
)

// Key addresses a cached read: an entity family plus an optional
// discriminating parameter, e.g. {Family: "ordersByBuyer", Param: buyerID}.
// Invalidation always targets whole families so a mutation never has to know
// which parameterizations of a listing are currently cached.
type Key struct {
	Family string
	Param  string
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is an explicit read-through query cache. It is constructed once and
// handed to the services; there is no package-level instance. Entries go
// stale after the TTL, and any mutation drops its declared families before
// returning, so a caller that mutates and immediately re-reads one of those
// families observes its own write.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]entry
	ttl     time.Duration
}

const DefaultTTL = 30 * time.Second

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[Key]entry),
		ttl:     ttl,
	}
}

func (c *Cache) Get(key Key) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key Key, value interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// GetOrLoad returns the cached value for key, or runs loader and caches its
// result. Load errors are returned to the caller and never cached.
func (c *Cache) GetOrLoad(key Key, loader func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := loader()
	if err != nil {
		return nil, err
	}
	c.Set(key, v)
	return v, nil
}

// Invalidate drops every entry belonging to the given families. The next
// read for any of them bypasses the cache and re-fetches.
func (c *Cache) Invalidate(families ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		for _, f := range families {
			if key.Family == f {
				delete(c.entries, key)
				break
			}
		}
	}
}

// InvalidateKey drops a single entry.
func (c *Cache) InvalidateKey(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Flush discards everything. Cached state is never a source of truth, so
// this is always safe.
func (c *Cache) Flush() {
	c.mu.Lock()
	c.entries = make(map[Key]entry)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
