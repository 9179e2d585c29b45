package respcache

import (
	"testing"
	"time"
)

func TestBoltCacheStoresAndExpiresPayloads(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		TTL:             1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	cacheRaw, err := openBolt(dir+"/respcache.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	cache := cacheRaw.(*boltCache)
	defer cache.Close()

	if _, ok, err := cache.Get("GET /v1/table/"); err != nil || ok {
		t.Fatalf("expected empty cache, ok=%v err=%v", ok, err)
	}

	payload := []byte(`{"tables":["items"]}`)
	if err := cache.Put("GET /v1/table/", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := cache.Get("GET /v1/table/")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload = %q", got)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	cache.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	if _, ok, err := cache.Get("GET /v1/table/"); err != nil {
		t.Fatalf("Get after expiry: %v", err)
	} else if ok {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestBoltCacheKeepsDistinctKeysApart(t *testing.T) {
	cacheRaw, err := openBolt(t.TempDir()+"/respcache.db", Options{TTL: time.Minute, CleanupInterval: time.Hour})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer cacheRaw.Close()

	if err := cacheRaw.Put("a", []byte("one")); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := cacheRaw.Put("b", []byte("two")); err != nil {
		t.Fatalf("Put b: %v", err)
	}

	got, ok, err := cacheRaw.Get("b")
	if err != nil || !ok || string(got) != "two" {
		t.Fatalf("Get b = %q ok=%v err=%v", got, ok, err)
	}
}

func TestNewSupportsNoop(t *testing.T) {
	cache, err := New("none", "", Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cache.Close()

	if err := cache.Put("k", []byte("v")); err != nil {
		t.Fatalf("noop Put: %v", err)
	}
	if _, ok, err := cache.Get("k"); err != nil || ok {
		t.Fatalf("noop cache must never hit, ok=%v err=%v", ok, err)
	}
}

func TestNewRejectsUnknownType(t *testing.T) {
	if _, err := New("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported cache type")
	}
}

func TestNewRequiresPathForBolt(t *testing.T) {
	if _, err := New("bbolt", "  ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
