package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "Example", []string{"png"}, 3, 2)
	r.OnArtifact(ctx, "png", "example.png", 1024)
	r.OnRenderComplete(ctx, "Example", []string{"png"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testRenderHooks{}
	SetRenderHooks(custom)
	SetRenderHooks(nil)

	if Render() != custom {
		t.Error("SetRenderHooks(nil) should be ignored")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testRenderHooks{}
	SetRenderHooks(h)

	ctx := context.Background()
	Render().OnRenderStart(ctx, "T", []string{"svg"}, 1, 0)
	Render().OnArtifact(ctx, "svg", "t.svg", 10)

	if h.starts != 1 || h.artifacts != 1 {
		t.Errorf("events = %d starts, %d artifacts; want 1, 1", h.starts, h.artifacts)
	}
}

type testRenderHooks struct {
	NoopRenderHooks
	starts    int
	artifacts int
}

func (h *testRenderHooks) OnRenderStart(context.Context, string, []string, int, int) { h.starts++ }
func (h *testRenderHooks) OnArtifact(context.Context, string, string, int)           { h.artifacts++ }

type testCacheHooks struct{ NoopCacheHooks }
