package cache

import (
	"context"
	"time"
)

// NullCache disables artifact caching. Every lookup misses and writes are
// dropped, so each render goes through Graphviz. The CLI selects it for
// --no-cache and for cache.backend "none".
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
