package render

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/observability"
)

const artifactKeyType = "artifact"

type cachedEngine struct {
	inner Engine
	cache cache.Cache
	ttl   time.Duration
}

// Cached wraps inner so artifacts are looked up in c before rendering and
// stored after. DOT passthrough is never cached. Cache read and write
// failures fall through to inner; they never fail a render.
func Cached(inner Engine, c cache.Cache, ttl time.Duration) Engine {
	if c == nil {
		return inner
	}
	return &cachedEngine{inner: inner, cache: c, ttl: ttl}
}

func (e *cachedEngine) Render(ctx context.Context, dot []byte, format Format) ([]byte, error) {
	if format == FormatDOT {
		return e.inner.Render(ctx, dot, format)
	}

	variant := string(format)
	if g, ok := e.inner.(*Graphviz); ok && format == FormatPNG && g.Scale > 1 {
		variant = fmt.Sprintf("%s@%.2fx", format, g.Scale)
	}
	key := cache.ArtifactKey(variant, dot)
	if data, hit, err := e.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, artifactKeyType)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, artifactKeyType)

	data, err := e.inner.Render(ctx, dot, format)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Set(ctx, key, data, e.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, artifactKeyType, len(data))
	}
	return data, nil
}
