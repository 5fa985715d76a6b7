// Package cache is a small in-memory TTL cache.
package cache

import (
	"context"
	"sync"
	"time"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache maps keys to values that expire after a fixed TTL. Expired entries
// are invisible to Get and are swept by a background goroutine until Stop.
type Cache[K comparable, V any] struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	items    map[K]item[V]
	stopChan chan struct{}
	stopped  bool
	done     chan struct{}
}

// New creates a cache whose entries live for ttl and starts the sweeper.
// The sweeper exits when ctx is done or Stop is called.
func New[K comparable, V any](ctx context.Context, ttl, sweepInterval time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[K]item[V]),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	go c.cleanup(ctx, sweepInterval)
	return c
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || c.now().After(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.items[key] = item[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	c.items = make(map[K]item[V])
	c.mu.Unlock()
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stop terminates the sweeper and waits for it to exit.
func (c *Cache[K, V]) Stop() {
	c.mu.Lock()
	if !c.stopped {
		c.stopped = true
		close(c.stopChan)
	}
	c.mu.Unlock()
	<-c.done
}

func (c *Cache[K, V]) cleanup(ctx context.Context, interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache[K, V]) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
		}
	}
}
