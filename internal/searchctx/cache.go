package searchctx

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/alex-user-go/hotelview/internal/booking"
)

// Cache holds hotel list results with a TTL and collapses concurrent
// requests for the same key into one fetch.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	group   singleflight.Group
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

type cacheEntry struct {
	hotels    []booking.Hotel
	expiresAt time.Time
}

// NewCache creates a new Cache with the specified TTL. A non-positive TTL
// disables storage but keeps request collapsing.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
	}

	go c.cleanup(time.Minute)

	return c
}

// Close stops the background cleanup goroutine. It is safe to call twice.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// GetOrFetch returns the cached hotels for key or runs fetch. Callers that
// arrive while a fetch for the same key is running wait for it instead of
// starting another one; a waiter whose ctx ends returns early with the
// context's cause. The boolean reports a cache hit. Errors are never cached.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func() ([]booking.Hotel, error)) ([]booking.Hotel, bool, error) {
	if hotels, ok := c.lookup(key); ok {
		return hotels, true, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		hotels, err := fetch()
		if err != nil {
			return nil, err
		}
		c.store(key, hotels)
		return hotels, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		hotels, _ := res.Val.([]booking.Hotel)
		return hotels, false, nil
	case <-ctx.Done():
		return nil, false, context.Cause(ctx)
	}
}

// Invalidate removes a specific key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) ([]booking.Hotel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.hotels, true
}

func (c *Cache) store(key string, hotels []booking.Hotel) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{hotels: hotels, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// cleanup periodically removes expired entries.
func (c *Cache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, entry := range c.entries {
				if !now.Before(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
