package cache

import (
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// entry pairs a parsed policy with its absolute expiry instant.
// An entry is valid iff now < expiresAt.
type entry struct {
	policy    *robotstxt.RobotsData
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of the Cache interface with
// TTL-based expiry and capacity-bounded eviction.
//
// Expiry is lazy: a stale entry is removed on the next Get that touches it,
// not by a background sweep. When Put is called at capacity, the single
// entry with the earliest expiresAt is evicted before insertion.
//
// The cache lives only for the duration of the crawling session
// (no persistence) and is private to one Gate instance.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// NewMemoryCache creates an empty cache holding at most maxSize entries,
// each valid for ttl after insertion.
func NewMemoryCache(maxSize int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// NewMemoryCacheWithClock creates a cache with an injected clock.
// This allows TTL expiry to be tested without sleeping.
func NewMemoryCacheWithClock(maxSize int, ttl time.Duration, now func() time.Time) *MemoryCache {
	c := NewMemoryCache(maxSize, ttl)
	c.now = now
	return c
}

// Get retrieves the cached policy for a domain key.
// Expired entries are deleted and reported as absent.
func (c *MemoryCache) Get(key string) (*robotstxt.RobotsData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.policy, true
}

// Put stores a policy with expiresAt = now + ttl, evicting the
// oldest-by-expiry entry first when the cache is at capacity.
func (c *MemoryCache) Put(key string, policy *robotstxt.RobotsData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	c.entries[key] = entry{
		policy:    policy,
		expiresAt: c.now().Add(c.ttl),
	}
}

// evictOldestLocked removes the entry with the earliest expiresAt.
// Caller must hold c.mu.
func (c *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldestExpiry time.Time
	first := true

	for key, e := range c.entries {
		if first || e.expiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = e.expiresAt
			first = false
		}
	}

	if !first {
		delete(c.entries, oldestKey)
	}
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Size returns the number of entries in the cache.
// This method is primarily useful for testing and diagnostics.
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
