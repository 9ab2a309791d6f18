package cache

import (
	"sync"
	"time"
)

// CacheEntry represents a cached asset with expiration
type CacheEntry struct {
	Data       []byte
	ExpiryTime time.Time
}

// AssetCache provides thread-safe caching of small fetched assets, such as
// the brand mark drawn onto obfuscated previews.
type AssetCache struct {
	cache map[string]CacheEntry
	mutex sync.RWMutex
}

// NewAssetCache creates a new asset cache instance
func NewAssetCache() *AssetCache {
	return &AssetCache{
		cache: make(map[string]CacheEntry),
	}
}

// Get retrieves an asset from cache if not expired
func (c *AssetCache) Get(key string) ([]byte, bool) {
	c.mutex.RLock()
	entry, found := c.cache[key]
	c.mutex.RUnlock()

	if found && time.Now().Before(entry.ExpiryTime) {
		return entry.Data, true
	}

	return nil, false
}

// Set stores an asset in cache with expiration time
func (c *AssetCache) Set(key string, data []byte, expiry time.Time) {
	c.mutex.Lock()
	c.cache[key] = CacheEntry{
		Data:       data,
		ExpiryTime: expiry,
	}
	c.mutex.Unlock()
}

// Clear removes expired entries from cache
func (c *AssetCache) Clear() {
	c.mutex.Lock()
	for key, entry := range c.cache {
		if time.Now().After(entry.ExpiryTime) {
			delete(c.cache, key)
		}
	}
	c.mutex.Unlock()
}
