package driver

import (
	"path/filepath"
	"testing"

	"sweep/internal/engine"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("sweep-test")
	if err != nil {
		t.Fatalf("OpenDiskCache failed: %v", err)
	}

	key := CacheKey([]byte("import os\n"), engine.Policy{})
	if err := cache.Put(key, CleanPayload(key)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var payload DiskPayload
	ok, err := cache.Get(key, &payload)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%t err=%v", ok, err)
	}
	if !ValidPayload(&payload, key) {
		t.Fatalf("payload invalid: %+v", payload)
	}

	// Атомарная запись не должна оставлять временных файлов.
	leftovers, err := filepath.Glob(filepath.Join(cache.dir, "clean", "tmp-*"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestDiskCacheNilSafe(t *testing.T) {
	var cache *DiskCache
	key := CacheKey([]byte("x"), engine.Policy{})
	if err := cache.Put(key, CleanPayload(key)); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	if ok, err := cache.Get(key, &DiskPayload{}); ok || err != nil {
		t.Fatalf("nil Get: ok=%t err=%v", ok, err)
	}
}
