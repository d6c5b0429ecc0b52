// Package cache provides the in-memory TTL store behind the session
// registry and the city-rankings fan-out cache.
package cache

import (
	"sync"
	"time"
)

// minSweep floors the background sweep interval so a short TTL does
// not spin the sweeper.
const minSweep = time.Second

type item[T any] struct {
	value    T
	deadline time.Time
}

// InMemory is a concurrency-safe map with a fixed per-entry TTL.
// Expired entries are invisible to Get immediately and reclaimed by a
// background sweep.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]item[T]
	ttl   time.Duration
}

// New creates a cache whose entries live for ttl after each Set.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]item[T]),
		ttl:   ttl,
	}
	go c.sweep()
	return c
}

// Get returns the live value for key, or false if absent or expired.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || time.Now().After(it.deadline) {
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set stores value under key, resetting its TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[T]{value: value, deadline: time.Now().Add(c.ttl)}
}

// Delete removes key if present.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

func (c *InMemory[T]) sweep() {
	interval := c.ttl
	if interval < minSweep {
		interval = minSweep
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for k, it := range c.items {
			if now.After(it.deadline) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
