// Package cache provides the cache backends used by the classmap
// server to reuse rendered diagram output.
//
// Rendering is deterministic, so a render result can be cached under a
// hash of the facts document and the render options. Backends share one
// small interface; the file backend covers single-host setups, the
// redis backend shared ones, and the null backend disables caching.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional
// TTL. A zero TTL means the entry does not expire.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key for the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
