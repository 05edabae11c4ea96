package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/any-hub/jsbrew/internal/cache"
)

func resolveOne(t *testing.T, path string) ResolvedFile {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	return ResolvedFile{
		Path:     path,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
		IsSource: filepath.Ext(path) == ".ts",
	}
}

func newDiskStore(t *testing.T) cache.Store {
	t.Helper()
	store, err := cache.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("store error: %v", err)
	}
	return store
}

func TestCacheKey(t *testing.T) {
	file := ResolvedFile{Path: "/srv/javascripts/app.ts", ModTime: baseTime.Add(500 * time.Millisecond)}
	if got, want := CacheKey(file), "1709294400_app.ts"; got != want {
		t.Fatalf("CacheKey = %s, want %s", got, want)
	}
}

func TestMaterializeReturnsCompiledFormVerbatim(t *testing.T) {
	root := t.TempDir()
	path := writeAsset(t, root, "app.js", "console.log(1)", baseTime)
	comp := &countingCompiler{}

	brew, err := NewCompileCache(newDiskStore(t), comp).Materialize(context.Background(), resolveOne(t, path))
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	if string(brew.Body) != "console.log(1)" || brew.Compiled {
		t.Fatalf("unexpected brew: %+v", brew)
	}
	if comp.Calls() != 0 {
		t.Fatalf("compiler must not run for compiled form")
	}
}

func TestMaterializeWithoutStoreAlwaysCompiles(t *testing.T) {
	root := t.TempDir()
	path := writeAsset(t, root, "app.ts", "src", baseTime)
	comp := &countingCompiler{}
	cc := NewCompileCache(nil, comp)

	for i := 0; i < 2; i++ {
		brew, err := cc.Materialize(context.Background(), resolveOne(t, path))
		if err != nil {
			t.Fatalf("materialize failed: %v", err)
		}
		if string(brew.Body) != "compiled(src)" || brew.CacheHit {
			t.Fatalf("unexpected brew: %+v", brew)
		}
	}
	if comp.Calls() != 2 {
		t.Fatalf("expected 2 compiles without cache, got %d", comp.Calls())
	}
}

func TestMaterializeCompilesAtMostOnce(t *testing.T) {
	root := t.TempDir()
	path := writeAsset(t, root, "app.ts", "src", baseTime)
	comp := &countingCompiler{}
	store := newDiskStore(t)
	cc := NewCompileCache(store, comp)

	first, err := cc.Materialize(context.Background(), resolveOne(t, path))
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	second, err := cc.Materialize(context.Background(), resolveOne(t, path))
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}

	if comp.Calls() != 1 {
		t.Fatalf("expected a single compile, got %d", comp.Calls())
	}
	if string(second.Body) != string(first.Body) || !second.CacheHit || first.CacheHit {
		t.Fatalf("second call should hit cache: first=%+v second=%+v", first, second)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "1709294400_app.ts")); err != nil {
		t.Fatalf("expected cache file on disk: %v", err)
	}
}

func TestMaterializeTrustsCachedEntry(t *testing.T) {
	root := t.TempDir()
	path := writeAsset(t, root, "app.ts", "v1", baseTime)
	comp := &countingCompiler{}
	cc := NewCompileCache(newDiskStore(t), comp)

	if _, err := cc.Materialize(context.Background(), resolveOne(t, path)); err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	// 内容变化但 mtime 不变：缓存条目照常命中。
	writeAsset(t, root, "app.ts", "v2", baseTime)
	brew, err := cc.Materialize(context.Background(), resolveOne(t, path))
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	if string(brew.Body) != "compiled(v1)" {
		t.Fatalf("cache entry should be trusted, got %s", brew.Body)
	}
}

func TestMaterializeRecompilesOnMtimeChange(t *testing.T) {
	root := t.TempDir()
	path := writeAsset(t, root, "app.ts", "src", baseTime)
	comp := &countingCompiler{}
	store := newDiskStore(t)
	cc := NewCompileCache(store, comp)

	if _, err := cc.Materialize(context.Background(), resolveOne(t, path)); err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	touch(t, path, baseTime.Add(time.Minute))
	brew, err := cc.Materialize(context.Background(), resolveOne(t, path))
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}

	if comp.Calls() != 2 || brew.CacheHit {
		t.Fatalf("mtime change must trigger recompilation, calls=%d brew=%+v", comp.Calls(), brew)
	}
	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Entries != 2 {
		t.Fatalf("old entry should be orphaned alongside the new one, got %d entries", stats.Entries)
	}
}

func TestMaterializePropagatesCompileError(t *testing.T) {
	root := t.TempDir()
	path := writeAsset(t, root, "bad.ts", "SYNTAX ERROR", baseTime)
	store := newDiskStore(t)
	cc := NewCompileCache(store, &countingCompiler{})

	_, err := cc.Materialize(context.Background(), resolveOne(t, path))
	if !isCompileError(err) {
		t.Fatalf("expected CompileError, got %v", err)
	}
	stats, _ := store.Stats()
	if stats.Entries != 0 {
		t.Fatalf("failed compiles must not be cached")
	}
}

func TestMaterializeWithMemoryTier(t *testing.T) {
	root := t.TempDir()
	path := writeAsset(t, root, "app.ts", "src", baseTime)
	comp := &countingCompiler{}
	cc := NewCompileCache(cache.WithMemory(newDiskStore(t), 4), comp)

	for i := 0; i < 3; i++ {
		if _, err := cc.Materialize(context.Background(), resolveOne(t, path)); err != nil {
			t.Fatalf("materialize failed: %v", err)
		}
	}
	if comp.Calls() != 1 {
		t.Fatalf("expected a single compile, got %d", comp.Calls())
	}
}
