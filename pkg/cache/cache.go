package cache

import (
	"context"
	"sync"
	"time"
)

// Item represents a cached item with expiration
type Item struct {
	Value      any
	Expiration int64
}

// Expired checks if the cache item has expired at the given unix-nano time
func (item Item) Expired(now int64) bool {
	return item.Expiration > 0 && now > item.Expiration
}

// Cache is a thread-safe in-memory cache with expiration
type Cache struct {
	items             map[string]Item
	mu                sync.RWMutex
	defaultExpiration time.Duration
	maxItems          int
	now               func() time.Time
}

// New creates a cache. maxItems zero means unbounded.
func New(defaultExpiration time.Duration, maxItems int) *Cache {
	return &Cache{
		items:             make(map[string]Item),
		defaultExpiration: defaultExpiration,
		maxItems:          maxItems,
		now:               time.Now,
	}
}

// Set adds an item to the cache with the default expiration
func (c *Cache) Set(key string, value any) {
	c.SetWithExpiration(key, value, c.defaultExpiration)
}

// SetWithExpiration adds an item to the cache with a specific expiration time
func (c *Cache) SetWithExpiration(key string, value any, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, d)
}

func (c *Cache) setLocked(key string, value any, d time.Duration) {
	var exp int64
	if d > 0 {
		exp = c.now().Add(d).UnixNano()
	}

	if _, exists := c.items[key]; !exists && c.maxItems > 0 && len(c.items) >= c.maxItems {
		c.evictOldest()
	}

	c.items[key] = Item{Value: value, Expiration: exp}
}

// Get retrieves an item from the cache
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || item.Expired(c.now().UnixNano()) {
		return nil, false
	}
	return item.Value, true
}

// GetOrSet returns the live value for key, storing value first when there is none.
// loaded reports whether the value was already present.
func (c *Cache) GetOrSet(key string, value any) (actual any, loaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, found := c.items[key]; found && !item.Expired(c.now().UnixNano()) {
		// sliding expiration
		c.setLocked(key, item.Value, c.defaultExpiration)
		return item.Value, true
	}
	c.setLocked(key, value, c.defaultExpiration)
	return value, false
}

// Delete removes an item from the cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Count returns the number of items in the cache (including expired items)
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Run purges expired items every interval until ctx is cancelled
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.DeleteExpired()
		}
	}
}

// DeleteExpired deletes all expired items from the cache
func (c *Cache) DeleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for k, v := range c.items {
		if v.Expired(now) {
			delete(c.items, k)
		}
	}
}

// evictOldest removes the item closest to expiry; items without expiry go last
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest int64
	for k, v := range c.items {
		if v.Expiration == 0 {
			if oldestKey == "" {
				oldestKey = k
			}
			continue
		}
		if oldest == 0 || v.Expiration < oldest {
			oldestKey, oldest = k, v.Expiration
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
