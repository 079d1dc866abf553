package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[[]string](WithTTL(time.Minute))

	// Miss
	if _, ok := c.Get(ctx, "u1"); ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	c.Set(ctx, "u1", []string{"org_a", "org_b"})
	got, ok := c.Get(ctx, "u1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string](WithTTL(10 * time.Millisecond))

	c.Set(ctx, "u1", "v1")
	if _, ok := c.Get(ctx, "u1"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "u1"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string](WithTTL(time.Minute))

	c.Set(ctx, "u1", "v1")
	c.Set(ctx, "u2", "v2")
	c.Invalidate(ctx, "u1")

	if _, ok := c.Get(ctx, "u1"); ok {
		t.Fatal("expected miss after invalidation")
	}
	if _, ok := c.Get(ctx, "u2"); !ok {
		t.Fatal("u2 should be unaffected")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[int](WithTTL(time.Minute), WithMaxSize(3))

	for i := 0; i < 5; i++ {
		c.Set(ctx, fmt.Sprintf("u%d", i), i)
	}

	if got := c.Len(); got > 3 {
		t.Fatalf("cache exceeded max size: %d entries", got)
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string](WithTTL(time.Minute))

	c.Set(ctx, "u1", "old")
	c.Set(ctx, "u1", "new")

	got, ok := c.Get(ctx, "u1")
	if !ok || got != "new" {
		t.Fatalf("expected %q, got %q (hit=%v)", "new", got, ok)
	}
}
