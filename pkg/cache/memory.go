package cache

import (
	"sync"
	"time"
)

type memoryItem struct {
	value     any
	expiresAt time.Time // ゼロ値は無期限
}

// MemoryStore は参照画像バイト列などを保持する小さな TTL 付きメモリキャッシュです。
// adapters.ImageCacher を満たします。
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

// NewMemoryStore は空の MemoryStore を生成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem)}
}

// Get は期限内のアイテムを返します。期限切れはその場で破棄してミス扱いにします。
func (s *MemoryStore) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return nil, false
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		delete(s.items, key)
		return nil, false
	}
	return item.value, true
}

// Set はアイテムを保存します。d <= 0 の場合は無期限です。
func (s *MemoryStore) Set(key string, value any, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := memoryItem{value: value}
	if d > 0 {
		item.expiresAt = time.Now().Add(d)
	}
	s.items[key] = item
}
