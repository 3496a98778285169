package cache

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
)

// MinMemorySize is the smallest cache freecache supports.
const MinMemorySize = 512 * 1024

// MemoryCache is a fixed-size in-memory cache. Old entries are evicted
// when space runs out. Entries larger than 1/1024 of the cache size are
// silently not stored.
type MemoryCache struct {
	c *freecache.Cache
}

// NewMemoryCache allocates a cache of size bytes (at least MinMemorySize).
func NewMemoryCache(size int) *MemoryCache {
	return &MemoryCache{c: freecache.NewCache(max(size, MinMemorySize))}
}

// Get retrieves a value from the cache.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := m.c.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in the cache.
func (m *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := m.c.Set([]byte(key), data, int(ttl/time.Second))
	if errors.Is(err, freecache.ErrLargeEntry) || errors.Is(err, freecache.ErrLargeKey) {
		return nil
	}
	return err
}

// Delete removes a value from the cache.
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.c.Del([]byte(key))
	return nil
}

// Close empties the cache.
func (m *MemoryCache) Close() error {
	m.c.Clear()
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryCache) Len() int64 { return m.c.EntryCount() }

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
