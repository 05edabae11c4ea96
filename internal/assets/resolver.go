package assets

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ResolvedFile 是单次请求定位到的磁盘文件，每次请求重新计算，不做缓存。
type ResolvedFile struct {
	Path     string    `json:"path"`
	ModTime  time.Time `json:"mod_time"`
	Size     int64     `json:"size"`
	IsSource bool      `json:"is_source"`
}

// Resolver 在 root 下按 urls 的顺序查找逻辑路径对应的文件。
// 调用方必须先拒绝包含 .. 的路径，Resolver 自身不做清洗。
type Resolver struct {
	root        string
	urls        []string
	sourceExt   string
	compiledExt string
}

// NewResolver 构造 Resolver；urls 会被复制，调用方后续修改不影响查找。
func NewResolver(root string, urls []string, sourceExt, compiledExt string) *Resolver {
	return &Resolver{
		root:        root,
		urls:        append([]string(nil), urls...),
		sourceExt:   sourceExt,
		compiledExt: compiledExt,
	}
}

// Resolve 返回第一个命中的文件；某个 url 命中后不再尝试后续 url。
func (r *Resolver) Resolve(logical string) (*ResolvedFile, bool) {
	for _, base := range r.urls {
		if file, ok := r.findCompiledOrSource(base + logical); ok {
			return file, true
		}
	}
	return nil, false
}

// findCompiledOrSource 优先直接命中，其次把结尾的编译扩展名替换为源码扩展名再查找。
func (r *Resolver) findCompiledOrSource(candidate string) (*ResolvedFile, bool) {
	rel := strings.TrimPrefix(candidate, "/")
	if file, ok := r.statFile(rel); ok {
		return file, true
	}
	if !strings.HasSuffix(rel, r.compiledExt) {
		return nil, false
	}
	return r.statFile(strings.TrimSuffix(rel, r.compiledExt) + r.sourceExt)
}

func (r *Resolver) statFile(rel string) (*ResolvedFile, bool) {
	full := filepath.Join(r.root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	return &ResolvedFile{
		Path:     full,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
		IsSource: strings.HasSuffix(full, r.sourceExt),
	}, true
}
