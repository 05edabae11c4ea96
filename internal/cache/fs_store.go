package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// NewStore 以 dir 为目录打开磁盘缓存；目录不存在时创建，Close 时保留。
func NewStore(dir string) (Store, error) {
	if dir == "" {
		return nil, errors.New("cache dir required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &fileStore{basePath: abs}, nil
}

// NewTempStore 在系统临时目录下创建一个新的缓存目录，生命周期与进程一致，
// Close 时删除整个目录。
func NewTempStore(pattern string) (Store, error) {
	if pattern == "" {
		pattern = "jsbrew-*"
	}
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("create temp cache dir: %w", err)
	}
	return &fileStore{basePath: dir, owned: true}, nil
}

// fileStore 不做进程内加锁：同 key 并发写入的内容一致，rename 保证最后写入者胜出。
type fileStore struct {
	basePath string
	owned    bool
	closed   atomic.Bool
}

func (s *fileStore) Get(ctx context.Context, key string) (*Entry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	filePath, err := s.entryPath(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}

	body, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &Entry{
		Key:       key,
		FilePath:  filePath,
		SizeBytes: int64(len(body)),
		ModTime:   info.ModTime(),
		Body:      body,
	}, nil
}

func (s *fileStore) Put(ctx context.Context, key string, body []byte) (*Entry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	filePath, err := s.entryPath(key)
	if err != nil {
		return nil, err
	}

	tempFile, err := os.CreateTemp(s.basePath, ".cache-*")
	if err != nil {
		return nil, err
	}
	tempName := tempFile.Name()

	written, err := copyWithContext(ctx, tempFile, bytes.NewReader(body))
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return nil, err
	}

	if err := os.Rename(tempName, filePath); err != nil {
		os.Remove(tempName)
		return nil, err
	}

	return &Entry{
		Key:       key,
		FilePath:  filePath,
		SizeBytes: written,
		ModTime:   time.Now(),
		Body:      body,
	}, nil
}

func (s *fileStore) Dir() string {
	return s.basePath
}

func (s *fileStore) Stats() (Stats, error) {
	var stats Stats
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, nil
		}
		return stats, err
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.SizeBytes += info.Size()
	}
	return stats, nil
}

func (s *fileStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if !s.owned {
		return nil
	}
	return os.RemoveAll(s.basePath)
}

func (s *fileStore) ready(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return ctx.Err()
}

// entryPath 将 key 映射为目录下的单个文件，拒绝任何可能逃逸目录的 key。
func (s *fileStore) entryPath(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return "", ErrInvalidKey
	}
	if strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.basePath, key), nil
}

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	var copied int64
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		n, err := src.Read(buf)
		if n > 0 {
			w, wErr := dst.Write(buf[:n])
			copied += int64(w)
			if wErr != nil {
				return copied, wErr
			}
			if w < n {
				return copied, io.ErrShortWrite
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return copied, nil
			}
			return copied, err
		}
	}
}
