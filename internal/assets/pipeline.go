package assets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/any-hub/jsbrew/internal/cache"
	"github.com/any-hub/jsbrew/internal/compiler"
	"github.com/any-hub/jsbrew/internal/config"
)

// Options 是 Pipeline 的不可变配置，构造后只读，可被并发请求共享。
type Options struct {
	Prefix       string
	URLs         []string
	Root         string
	SourceExt    string
	CompiledExt  string
	CacheControl string
}

// OptionsFromConfig 将 [Assets] 配置映射为 Pipeline 选项。
func OptionsFromConfig(a config.AssetsConfig) Options {
	return Options{
		Prefix:       a.Prefix,
		URLs:         append([]string(nil), a.URLs...),
		Root:         a.Root,
		SourceExt:    a.SourceExt,
		CompiledExt:  a.CompiledExt,
		CacheControl: a.CacheControl.Header(),
	}
}

// Pipeline 串联前缀匹配、越界检查、文件定位、条件请求与编译。
type Pipeline struct {
	opts     Options
	resolver *Resolver
	brewer   *CompileCache
}

// New 构造 Pipeline；brewer 决定源码文件如何被编译与缓存。
func New(opts Options, brewer *CompileCache) *Pipeline {
	if brewer == nil {
		brewer = NewCompileCache(nil, nil)
	}
	return &Pipeline{
		opts:     opts,
		resolver: NewResolver(opts.Root, opts.URLs, opts.SourceExt, opts.CompiledExt),
		brewer:   brewer,
	}
}

// Build 根据配置创建编译器与（可选的）编译缓存目录。CacheCompile 未指定目录时
// 创建新的临时目录，其生命周期与进程一致，由 Close 负责删除。
func Build(a config.AssetsConfig) (*Pipeline, error) {
	c, err := compiler.FromConfig(a)
	if err != nil {
		return nil, err
	}

	var store cache.Store
	if a.CacheCompile {
		if a.CacheCompileDir != "" {
			store, err = cache.NewStore(a.CacheCompileDir)
		} else {
			store, err = cache.NewTempStore("jsbrew-*")
		}
		if err != nil {
			return nil, fmt.Errorf("init compile cache: %w", err)
		}
		store = cache.WithMemory(store, a.MemoryCacheEntries)
	}

	return New(OptionsFromConfig(a), NewCompileCache(store, c)), nil
}

// Options 返回构造时的配置副本。
func (p *Pipeline) Options() Options {
	opts := p.opts
	opts.URLs = append([]string(nil), p.opts.URLs...)
	return opts
}

// CompileCache 返回 Pipeline 使用的编译缓存。
func (p *Pipeline) CompileCache() *CompileCache {
	return p.brewer
}

// Close 释放编译缓存目录（若由 Pipeline 创建）。
func (p *Pipeline) Close() error {
	if p.brewer == nil || p.brewer.store == nil {
		return nil
	}
	return p.brewer.store.Close()
}

// Serve 按固定顺序执行：前缀归属 → 越界检查 → 文件定位 → 条件请求 → 编译下发。
// rawPath 为未解码的请求路径；ifModifiedSince 为空表示客户端未携带该头。
// 编译错误与 I/O 错误原样返回，由宿主框架转换为 5xx。
func (p *Pipeline) Serve(ctx context.Context, rawPath, ifModifiedSince string) (Result, error) {
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return delegate(), nil
	}

	if !OwnsPath(path, p.opts.Prefix) {
		return delegate(), nil
	}
	if IsTraversal(path) {
		return forbidden(), nil
	}

	file, ok := p.resolver.Resolve(StripPrefix(path, p.opts.Prefix))
	if !ok {
		return delegate(), nil
	}

	if IsNotModified(ifModifiedSince, file.ModTime) {
		return notModified(file), nil
	}

	brew, err := p.brewer.Materialize(ctx, *file)
	if err != nil {
		return Result{Outcome: OutcomeHandled, File: file}, err
	}

	return Result{
		Outcome: OutcomeHandled,
		File:    file,
		Response: Response{
			Status: http.StatusOK,
			Header: Headers(file.ModTime, p.opts.CacheControl),
			Body:   brew.Body,
		},
		Compiled: brew.Compiled,
		CacheHit: brew.CacheHit,
	}, nil
}

// Inspection 描述一个路径在不编译的前提下会如何被处理，供诊断接口使用。
type Inspection struct {
	Path      string        `json:"path"`
	Owned     bool          `json:"owned"`
	Forbidden bool          `json:"forbidden"`
	Logical   string        `json:"logical,omitempty"`
	File      *ResolvedFile `json:"file,omitempty"`
	CacheKey  string        `json:"cache_key,omitempty"`
}

// Inspect 执行 Serve 的前三步（归属、越界、定位），不读取也不编译文件。
func (p *Pipeline) Inspect(rawPath string) Inspection {
	out := Inspection{Path: rawPath}
	path, err := url.PathUnescape(rawPath)
	if err != nil || !OwnsPath(path, p.opts.Prefix) {
		return out
	}
	out.Owned = true
	if IsTraversal(path) {
		out.Forbidden = true
		return out
	}
	out.Logical = StripPrefix(path, p.opts.Prefix)
	if file, ok := p.resolver.Resolve(out.Logical); ok {
		out.File = file
		if file.IsSource {
			out.CacheKey = CacheKey(*file)
		}
	}
	return out
}
