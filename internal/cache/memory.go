package cache

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"
)

// WithMemory 在 next 之前加一层容量为 entries 的 LRU；entries <= 0 时直接返回 next。
// key 内已包含源文件 mtime，因此内存层与磁盘层的失效条件一致。
func WithMemory(next Store, entries int) Store {
	if entries <= 0 || next == nil {
		return next
	}
	return &memoryStore{
		next:  next,
		items: lru.New(entries),
	}
}

type memoryStore struct {
	next Store

	mu    sync.Mutex
	items *lru.Cache
}

func (m *memoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	if value, ok := m.items.Get(key); ok {
		m.mu.Unlock()
		entry := value.(Entry)
		return &entry, nil
	}
	m.mu.Unlock()

	entry, err := m.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	m.remember(*entry)
	return entry, nil
}

func (m *memoryStore) Put(ctx context.Context, key string, body []byte) (*Entry, error) {
	entry, err := m.next.Put(ctx, key, body)
	if err != nil {
		return nil, err
	}
	m.remember(*entry)
	return entry, nil
}

func (m *memoryStore) Dir() string {
	return m.next.Dir()
}

func (m *memoryStore) Stats() (Stats, error) {
	return m.next.Stats()
}

func (m *memoryStore) Close() error {
	m.mu.Lock()
	m.items.Clear()
	m.mu.Unlock()
	return m.next.Close()
}

// Len 返回内存层当前条目数。
func (m *memoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Len()
}

func (m *memoryStore) remember(entry Entry) {
	m.mu.Lock()
	m.items.Add(entry.Key, entry)
	m.mu.Unlock()
}
