package storage

import (
	"context"
	"testing"
	"time"
)

func TestSQLiteStorage_CacheRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	ids, total, ok, err := store.CacheGet(ctx, "lead routing", time.Hour)
	if err != nil {
		t.Fatalf("CacheGet failed: %v", err)
	}
	if ok {
		t.Fatalf("Expected miss on empty cache, got ids=%v total=%d", ids, total)
	}

	if err := store.CachePut(ctx, "lead routing", []int64{3, 1, 2}, 3); err != nil {
		t.Fatalf("CachePut failed: %v", err)
	}

	ids, total, ok, err = store.CacheGet(ctx, "lead routing", time.Hour)
	if err != nil {
		t.Fatalf("CacheGet failed: %v", err)
	}
	if !ok || total != 3 {
		t.Fatalf("Expected hit with total 3, got ok=%v total=%d", ok, total)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Errorf("Cached order lost: %v", ids)
	}
}

func TestSQLiteStorage_CacheExpiry(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.CachePut(ctx, "stale query", []int64{1}, 1); err != nil {
		t.Fatalf("CachePut failed: %v", err)
	}

	// A zero TTL makes any entry stale immediately.
	_, _, ok, err := store.CacheGet(ctx, "stale query", 0)
	if err != nil {
		t.Fatalf("CacheGet failed: %v", err)
	}
	if ok {
		t.Error("Expired entry should miss")
	}

	// Expiry removes the row; a long TTL still misses afterward.
	_, _, ok, err = store.CacheGet(ctx, "stale query", time.Hour)
	if err != nil {
		t.Fatalf("CacheGet failed: %v", err)
	}
	if ok {
		t.Error("Expired entry should have been deleted")
	}
}

func TestSQLiteStorage_CacheOverwriteAndClear(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.CachePut(ctx, "q", []int64{1, 2}, 2); err != nil {
		t.Fatalf("CachePut failed: %v", err)
	}
	if err := store.CachePut(ctx, "q", []int64{9}, 1); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	ids, total, ok, err := store.CacheGet(ctx, "q", time.Hour)
	if err != nil || !ok {
		t.Fatalf("CacheGet failed: ok=%v err=%v", ok, err)
	}
	if total != 1 || len(ids) != 1 || ids[0] != 9 {
		t.Errorf("Last write should win: ids=%v total=%d", ids, total)
	}

	if err := store.CachePut(ctx, "other", []int64{5}, 1); err != nil {
		t.Fatalf("CachePut failed: %v", err)
	}
	dropped, err := store.CacheClear(ctx)
	if err != nil {
		t.Fatalf("CacheClear failed: %v", err)
	}
	if dropped != 2 {
		t.Errorf("Expected 2 dropped entries, got %d", dropped)
	}
}
