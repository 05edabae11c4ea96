package cache

import (
	"context"
	"errors"
	"time"
)

// Store 负责编译产物的读写。磁盘布局为扁平目录：
//
//	<dir>/<key>    # 编译后的正文
//
// key 由调用方决定（如 <mtime>_<basename>），Store 不解释其含义，也不做过期淘汰。
type Store interface {
	// Get 返回 key 对应的条目。若不存在则返回 ErrNotFound。
	Get(ctx context.Context, key string) (*Entry, error)

	// Put 写入条目。实现需通过临时文件 + rename 保证写入原子性，失败时清理临时文件。
	Put(ctx context.Context, key string, body []byte) (*Entry, error)

	// Dir 返回条目所在目录。
	Dir() string

	// Stats 汇总当前目录中的条目数量与总字节数。
	Stats() (Stats, error)

	// Close 释放资源；自有临时目录会被整体删除。
	Close() error
}

// Entry 表示一次命中或写入的结果。
type Entry struct {
	Key       string    `json:"key"`
	FilePath  string    `json:"file_path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
	Body      []byte    `json:"-"`
}

// Stats 是目录级别的统计信息，供诊断接口输出。
type Stats struct {
	Entries   int   `json:"entries"`
	SizeBytes int64 `json:"size_bytes"`
}

var (
	// ErrNotFound 表示缓存不存在。
	ErrNotFound = errors.New("cache entry not found")
	// ErrStoreClosed 表示 Store 已经 Close。
	ErrStoreClosed = errors.New("cache store closed")
	// ErrInvalidKey 表示 key 含有路径分隔符或为空。
	ErrInvalidKey = errors.New("invalid cache key")
)
