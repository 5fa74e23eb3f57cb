package tips

import (
	"sync"
	"time"
)

// TTLCache is the default in-process tip cache: key to (value, expiry)
// with an injectable clock.
type TTLCache struct {
	clock func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

func NewTTLCache(clock func() time.Time) *TTLCache {
	if clock == nil {
		clock = time.Now
	}
	return &TTLCache{
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

func (c *TTLCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.clock().After(entry.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return entry.value, true
}

func (c *TTLCache) Set(key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.clock().Add(ttl)}
}
