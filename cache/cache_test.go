package cache

import (
	"testing"

	"github.com/birdwatch-dev/birdwatch/models"
)

func okResult(handle string) *models.ScrapeResult {
	return &models.ScrapeResult{Success: true, Handle: handle}
}

func TestCacheRoundTrip(t *testing.T) {
	c := New(10)
	key := Key("jack", 10)

	c.Set(key, okResult("jack"))

	got, ok := c.Get(key, 60_000)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Handle != "jack" {
		t.Errorf("Handle = %q, want jack", got.Handle)
	}
}

func TestCacheGet_ZeroMaxAgeSkipsLookup(t *testing.T) {
	c := New(10)
	key := Key("jack", 10)
	c.Set(key, okResult("jack"))

	if _, ok := c.Get(key, 0); ok {
		t.Error("maxAge 0 must bypass the cache")
	}
	if _, ok := c.Get(key, -1); ok {
		t.Error("negative maxAge must bypass the cache")
	}
}

func TestCacheSet_RejectsFailures(t *testing.T) {
	c := New(10)
	key := Key("jack", 10)

	c.Set(key, nil)
	c.Set(key, &models.ScrapeResult{Success: false, Handle: "jack"})

	if _, ok := c.Get(key, 60_000); ok {
		t.Error("failed results must not be cached")
	}
}

func TestCacheEvictsAtCapacity(t *testing.T) {
	c := New(2)
	c.Set(Key("a", 10), okResult("a"))
	c.Set(Key("b", 10), okResult("b"))
	c.Set(Key("c", 10), okResult("c"))

	c.mu.RLock()
	n := len(c.store)
	c.mu.RUnlock()
	if n > 2 {
		t.Errorf("store holds %d entries, want at most 2", n)
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	if Key("jack", 10) == Key("jack", 20) {
		t.Error("maxPosts must contribute to the key")
	}
	if Key("jack", 10) == Key("jill", 10) {
		t.Error("handle must contribute to the key")
	}
}
