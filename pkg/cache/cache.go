// Package cache stores rendered export artifacts in memory.
//
// The HTTP API renders exports on demand. Keys are derived from the
// diagram content and the render options, so a repeated request for an
// unchanged diagram is served without drawing it again, and an edit
// naturally produces a new key.
//
//	c := cache.NewMemoryCache(32 << 20)
//	key := cache.ArtifactKey(snapshotJSON, "png", cache.ArtifactKeyOpts{Scale: 2})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store keyed by string. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
