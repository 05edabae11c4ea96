package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStorePutAndGet(t *testing.T) {
	store := newTestStore(t)
	key := "1700000000_app.ts"

	payload := []byte("(function(){})();")
	if _, err := store.Put(context.Background(), key, payload); err != nil {
		t.Fatalf("put error: %v", err)
	}

	entry, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if string(entry.Body) != string(payload) {
		t.Fatalf("cached payload mismatch: %s", string(entry.Body))
	}
	if entry.SizeBytes != int64(len(payload)) {
		t.Fatalf("size mismatch: %d", entry.SizeBytes)
	}
	if entry.FilePath != filepath.Join(store.Dir(), key) {
		t.Fatalf("unexpected file path: %s", entry.FilePath)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "1_missing.ts")
	if err == nil || err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreRejectsEscapingKeys(t *testing.T) {
	store := newTestStore(t)
	for _, key := range []string{"", "..", "../x", "a/b", `a\b`, ".hidden"} {
		if _, err := store.Put(context.Background(), key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %q, got %v", key, err)
		}
	}
}

func TestStoreIgnoresDirectories(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Join(store.Dir(), "1_dir.ts"), 0o755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}

	if _, err := store.Get(context.Background(), "1_dir.ts"); err == nil || err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for directory, got %v", err)
	}
}

func TestStoreOverwriteKeepsLastWriter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.Put(ctx, "1_a.ts", []byte("first")); err != nil {
		t.Fatalf("put error: %v", err)
	}
	if _, err := store.Put(ctx, "1_a.ts", []byte("second")); err != nil {
		t.Fatalf("put error: %v", err)
	}
	entry, err := store.Get(ctx, "1_a.ts")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if string(entry.Body) != "second" {
		t.Fatalf("expected last writer to win, got %s", entry.Body)
	}
}

func TestStoreStatsSkipsTempFiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.Put(ctx, "1_a.ts", []byte("abc")); err != nil {
		t.Fatalf("put error: %v", err)
	}
	if _, err := store.Put(ctx, "2_b.ts", []byte("de")); err != nil {
		t.Fatalf("put error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), ".cache-123"), []byte("partial"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	if stats.Entries != 2 || stats.SizeBytes != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTempStoreCloseRemovesDir(t *testing.T) {
	store, err := NewTempStore("jsbrew-test-*")
	if err != nil {
		t.Fatalf("temp store error: %v", err)
	}
	dir := store.Dir()
	if _, err := store.Put(context.Background(), "1_a.ts", []byte("x")); err != nil {
		t.Fatalf("put error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected temp dir removed, stat err=%v", err)
	}
	if _, err := store.Get(context.Background(), "1_a.ts"); !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
}

func TestExplicitStoreCloseKeepsDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("store error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("explicit dir should survive close: %v", err)
	}
}

// newTestStore returns a Store backed by a temporary directory.
func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}
