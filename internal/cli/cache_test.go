package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/config"
)

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	c := New(os.Stderr, LogInfo)
	c.settings().Cache.Dir = dir

	ctx := context.Background()
	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	keys := []string{
		cache.ArtifactKey("png", []byte("digraph { a }")),
		cache.ArtifactKey("svg", []byte("digraph { a }")),
	}
	for _, key := range keys {
		if err := store.Set(ctx, key, []byte("artifact"), time.Hour); err != nil {
			t.Fatalf("Set(%s): %v", key, err)
		}
	}

	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	for _, key := range keys {
		if _, hit, _ := store.Get(ctx, key); hit {
			t.Errorf("key %s still cached after clear", key)
		}
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.settings().Cache.Dir = t.TempDir() + "/absent"

	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear on missing dir: %v", err)
	}
}

func TestCacheClearNonFileBackend(t *testing.T) {
	dir := t.TempDir()
	c := New(os.Stderr, LogInfo)
	c.settings().Cache.Dir = dir
	c.settings().Cache.Backend = config.BackendRedis

	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	key := cache.ArtifactKey("png", []byte("digraph {}"))
	if err := store.Set(context.Background(), key, []byte("x"), time.Hour); err != nil {
		t.Fatal(err)
	}

	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, hit, _ := store.Get(context.Background(), key); !hit {
		t.Error("file cache should be untouched when the backend is redis")
	}
}

func TestCachePath(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.settings().Cache.Dir = "/var/cache/archdiagram"

	var buf bytes.Buffer
	cmd := c.cachePathCommand()
	cmd.SetOut(&buf)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "/var/cache/archdiagram" {
		t.Errorf("cache path = %q, want /var/cache/archdiagram", got)
	}
}

func TestNewCacheBackends(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		noCache bool
		want    string
	}{
		{"file", config.BackendFile, false, "*cache.FileCache"},
		{"none", config.BackendNone, false, "*cache.NullCache"},
		{"no-cache flag", config.BackendFile, true, "*cache.NullCache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(os.Stderr, LogInfo)
			c.settings().Cache.Backend = tt.backend
			c.settings().Cache.Dir = t.TempDir()

			store, err := c.newCache(context.Background(), tt.noCache)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer store.Close()

			var got string
			switch store.(type) {
			case *cache.FileCache:
				got = "*cache.FileCache"
			case *cache.NullCache:
				got = "*cache.NullCache"
			}
			if got != tt.want {
				t.Errorf("newCache() = %T, want %s", store, tt.want)
			}
		})
	}
}
