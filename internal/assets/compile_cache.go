package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/any-hub/jsbrew/internal/cache"
	"github.com/any-hub/jsbrew/internal/compiler"
)

// Brew 是 Materialize 的产出。
type Brew struct {
	Body     []byte
	Compiled bool
	CacheHit bool
}

// CompileCache 把源码文件转换为可下发的正文；store 为 nil 时每次都重新编译。
type CompileCache struct {
	store    cache.Store
	compiler compiler.Compiler
}

// NewCompileCache 构造 CompileCache，store 可为 nil。
func NewCompileCache(store cache.Store, c compiler.Compiler) *CompileCache {
	return &CompileCache{store: store, compiler: c}
}

// CacheKey 返回 "<mtime 秒>_<文件名>"，mtime 变化即产生新 key，旧条目只会被孤立。
func CacheKey(file ResolvedFile) string {
	return fmt.Sprintf("%d_%s", file.ModTime.Unix(), filepath.Base(file.Path))
}

// Materialize 返回文件的最终正文：非源码形式原样读取；源码形式经缓存或编译器产出。
// 命中的缓存条目不会再与源码内容比对。编译错误原样返回给调用方。
func (c *CompileCache) Materialize(ctx context.Context, file ResolvedFile) (Brew, error) {
	if !file.IsSource {
		body, err := os.ReadFile(file.Path)
		if err != nil {
			return Brew{}, err
		}
		return Brew{Body: body}, nil
	}

	if c.store == nil {
		body, err := c.compile(ctx, file)
		if err != nil {
			return Brew{}, err
		}
		return Brew{Body: body, Compiled: true}, nil
	}

	key := CacheKey(file)
	entry, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		return Brew{Body: entry.Body, Compiled: true, CacheHit: true}, nil
	case errors.Is(err, cache.ErrNotFound):
	default:
		return Brew{}, fmt.Errorf("read compile cache %s: %w", key, err)
	}

	body, err := c.compile(ctx, file)
	if err != nil {
		return Brew{}, err
	}
	if _, err := c.store.Put(ctx, key, body); err != nil {
		return Brew{}, fmt.Errorf("write compile cache %s: %w", key, err)
	}
	return Brew{Body: body, Compiled: true}, nil
}

// Store 暴露底层缓存，未开启编译缓存时为 nil。
func (c *CompileCache) Store() cache.Store {
	return c.store
}

// CompilerName 返回当前编译器标识。
func (c *CompileCache) CompilerName() string {
	if c.compiler == nil {
		return ""
	}
	return c.compiler.Name()
}

func (c *CompileCache) compile(ctx context.Context, file ResolvedFile) ([]byte, error) {
	if c.compiler == nil {
		return nil, errors.New("no compiler configured")
	}
	source, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, err
	}
	return c.compiler.Compile(ctx, file.Path, source)
}
