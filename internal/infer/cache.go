package infer

import (
	"sync"
	"time"

	"marketpulse/internal/core"
)

// DefaultTTL matches the refresh cadence predictions are served at.
const DefaultTTL = time.Hour

type cacheEntry struct {
	pred      core.Prediction
	expiresAt time.Time
}

// Cache is a mutex-guarded TTL map of predictions. Writing a key again
// supersedes the previous entry; expired entries are dropped on read.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL. A non-positive TTL falls
// back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the live entry for key, if any.
func (c *Cache) Get(key string) (core.Prediction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return core.Prediction{}, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return core.Prediction{}, false
	}
	return e.pred, true
}

// Set stores the prediction under key, replacing any previous entry.
func (c *Cache) Set(key string, pred core.Prediction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		pred:      pred,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
