package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/rohmanhakim/crawl-gate/internal/compliance/cache"
)

func mustPolicy(t *testing.T, content string) *robotstxt.RobotsData {
	t.Helper()
	data, err := robotstxt.FromString(content)
	if err != nil {
		t.Fatalf("failed to parse robots.txt fixture: %v", err)
	}
	return data
}

func TestMemoryCache_GetMiss(t *testing.T) {
	c := cache.NewMemoryCache(10, time.Hour)

	if _, found := c.Get("https://example.com"); found {
		t.Error("expected miss on empty cache")
	}
}

func TestMemoryCache_PutThenGet(t *testing.T) {
	c := cache.NewMemoryCache(10, time.Hour)
	policy := mustPolicy(t, "User-agent: *\nDisallow: /private/")

	c.Put("https://example.com", policy)

	got, found := c.Get("https://example.com")
	if !found {
		t.Fatal("expected hit after Put")
	}
	if got != policy {
		t.Error("Get returned a different policy than was stored")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := cache.NewMemoryCacheWithClock(10, time.Hour, clock)

	c.Put("https://example.com", mustPolicy(t, ""))

	// Just before expiry: still a hit
	now = now.Add(time.Hour - time.Millisecond)
	if _, found := c.Get("https://example.com"); !found {
		t.Error("entry expired before its TTL elapsed")
	}

	// Just past expiry: lazy removal on access
	now = now.Add(2 * time.Millisecond)
	if _, found := c.Get("https://example.com"); found {
		t.Error("entry survived past its TTL")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry not removed, size = %d", c.Size())
	}
}

func TestMemoryCache_CapacityEvictsOldestExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := cache.NewMemoryCacheWithClock(3, time.Hour, clock)

	// Insert three entries at increasing times so expiries differ
	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("https://site%d.example", i), mustPolicy(t, ""))
		now = now.Add(time.Minute)
	}

	// Fourth insert must evict site0, the earliest-expiring entry
	c.Put("https://site3.example", mustPolicy(t, ""))

	if c.Size() != 3 {
		t.Fatalf("expected size 3 after eviction, got %d", c.Size())
	}
	if _, found := c.Get("https://site0.example"); found {
		t.Error("oldest-by-expiry entry was not evicted")
	}
	for i := 1; i <= 3; i++ {
		if _, found := c.Get(fmt.Sprintf("https://site%d.example", i)); !found {
			t.Errorf("entry site%d unexpectedly evicted", i)
		}
	}
}

func TestMemoryCache_OverwriteDoesNotEvict(t *testing.T) {
	c := cache.NewMemoryCache(2, time.Hour)
	c.Put("https://a.example", mustPolicy(t, ""))
	c.Put("https://b.example", mustPolicy(t, ""))

	// Overwriting an existing key at capacity must not evict anything
	c.Put("https://a.example", mustPolicy(t, "User-agent: *\nDisallow: /"))

	if c.Size() != 2 {
		t.Errorf("expected size 2 after overwrite, got %d", c.Size())
	}
	if _, found := c.Get("https://b.example"); !found {
		t.Error("unrelated entry evicted by overwrite")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := cache.NewMemoryCache(10, time.Hour)
	c.Put("https://a.example", mustPolicy(t, ""))
	c.Put("https://b.example", mustPolicy(t, ""))

	c.Clear()

	if c.Size() != 0 {
		t.Errorf("expected empty cache after Clear, got size %d", c.Size())
	}
	if _, found := c.Get("https://a.example"); found {
		t.Error("entry survived Clear")
	}
}
