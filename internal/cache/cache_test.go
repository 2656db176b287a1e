package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](0)
	defer c.Close()

	base := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return base }

	c.Set(ctx, "yes", 1, time.Minute)
	c.Set(ctx, "no", 2, 0)

	if v, ok := c.Get(ctx, "yes"); !ok || v != 1 {
		t.Fatalf("Get(yes) = %d, %v", v, ok)
	}

	c.now = func() time.Time { return base.Add(2 * time.Minute) }

	if _, ok := c.Get(ctx, "yes"); ok {
		t.Fatal("expected yes to be expired")
	}
	if v, ok := c.Get(ctx, "no"); !ok || v != 2 {
		t.Fatalf("entry without ttl should persist, got %d, %v", v, ok)
	}

	c.evict()
	if c.Len() != 1 {
		t.Fatalf("Len = %d after eviction, want 1", c.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := New[string, string](time.Hour)
	defer c.Close()

	c.Set(ctx, "k", "v", time.Minute)
	c.Delete(ctx, "k")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected key to be deleted")
	}
	c.Close()
}
