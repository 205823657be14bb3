package cache

import (
	"sync"

	"github.com/shouni/slide-deck-kit/pkg/domain"
)

// SessionCache は正規化済みリクエストキーごとに、完全成功した生成結果を保持します。
// TTL も件数上限もなく、プロセスの生存期間だけ有効です。
// 公開後の GenerationOutcome は不変として扱うため、読み取りはロック共有で構いません。
type SessionCache struct {
	mu      sync.RWMutex
	entries map[domain.RequestKey]*domain.GenerationOutcome
}

// NewSessionCache は空のセッションキャッシュを生成します。
func NewSessionCache() *SessionCache {
	return &SessionCache{
		entries: make(map[domain.RequestKey]*domain.GenerationOutcome),
	}
}

// Get はキーに対応する結果を返します。
func (c *SessionCache) Get(key domain.RequestKey) (*domain.GenerationOutcome, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	outcome, ok := c.entries[key]
	return outcome, ok
}

// Put は結果を登録します。同一キーへの再登録は上書きです（冪等）。
func (c *SessionCache) Put(key domain.RequestKey, outcome *domain.GenerationOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = outcome
}

// Len は登録済みエントリ数を返します。
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
