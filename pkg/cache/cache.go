// Package cache stores rendered diagram artifacts keyed by a hash of their
// inputs.
//
// Rendering the same DOT source to the same format always yields the same
// bytes, so the CLI keeps a local cache to skip the Graphviz pass on repeat
// runs. Three backends are provided:
//
//   - [FileCache]: one JSON file per entry under an XDG cache directory
//   - [RedisCache]: a shared Redis instance, for teams rendering in CI
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached bytes and true on a hit, or nil and false on a
	// miss. Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
