package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a TTL-evicting in-memory evidence store
type MemoryCache struct {
	entries *gocache.Cache
}

// NewMemoryCache creates an evidence cache. Entries live for defaultTTL
// unless Set overrides it; expired entries are swept every cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{entries: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the stored evidence bytes for key, if present and unexpired
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.entries.Get(key)
	if !found {
		return nil, false
	}
	raw, ok := val.([]byte)
	return raw, ok
}

// Set stores evidence bytes under key for ttl
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.entries.Set(key, value, ttl)
	return nil
}
