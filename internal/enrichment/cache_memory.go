package enrichment

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	metadata  BillMetadata
	expiresAt time.Time
}

// MemoryCache is the in-process cache twin. Expired entries are dropped
// lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (BillMetadata, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return BillMetadata{}, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return BillMetadata{}, false, nil
	}
	return entry.metadata, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, metadata BillMetadata, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{metadata: metadata, expiresAt: time.Now().Add(ttl)}
	return nil
}
