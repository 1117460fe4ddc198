// Package cache provides an in-memory cache whose entries expire after a per-entry TTL.
package cache

import (
	"sync"
	"time"
)

type Stats struct {
	Total   int
	Hits    int
	Entries int
}

type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	total   int
	hits    int

	// now is replaced in tests.
	now func() time.Time
}

type entry[V any] struct {
	value V
	exp   time.Time
}

func New[V any]() *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value: value,
		exp:   c.now().Add(ttl),
	}
}

// Get returns the value for key and whether it was present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++

	var val V

	e, ok := c.entries[key]
	if !ok {
		return val, false
	}

	// Present and unexpired
	if c.now().Before(e.exp) {
		c.hits++
		return e.value, true
	}

	// Expired
	delete(c.entries, key)
	return val, false
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Flush removes every entry. Hit statistics are kept.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
}

// Clean removes expired entries and returns how many it removed.
func (c *Cache[V]) Clean() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	toRemove := []string{}
	for k, e := range c.entries {
		if !now.Before(e.exp) {
			toRemove = append(toRemove, k)
		}
	}

	for _, k := range toRemove {
		delete(c.entries, k)
	}

	return len(toRemove)
}

func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Total:   c.total,
		Hits:    c.hits,
		Entries: len(c.entries),
	}
}
