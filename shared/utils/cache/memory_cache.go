package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is a process-local TTL cache used when Redis is not available
// and as a test double.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryCache creates an empty cache. now may be nil.
func NewMemoryCache(now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		items: make(map[string]memoryItem),
		now:   now,
	}
}

func (m *MemoryCache) lookup(key string) (memoryItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		delete(m.items, key)
		return memoryItem{}, false
	}
	return item, true
}

func (m *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	return item.value, ok, nil
}

func (m *MemoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *MemoryCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.items, key)
	}
	return nil
}

func (m *MemoryCache) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, held := m.lookup(key); held {
		return false, nil
	}
	item := memoryItem{value: owner}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.items[key] = item
	return true, nil
}

// InvalidateByPattern deletes keys matching pattern. Only a trailing * wildcard is supported.
func (m *MemoryCache) InvalidateByPattern(ctx context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key := range m.items {
		if matchPattern(pattern, key) {
			delete(m.items, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live keys
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key := range m.items {
		if _, ok := m.lookup(key); ok {
			n++
		}
	}
	return n
}

// matchPattern supports a literal prefix with a trailing '*', the only form
// GenerateTenantBlacklistPattern and BlacklistKeyPrefix+"*" produce
func matchPattern(pattern, key string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok && !strings.HasSuffix(prefix, "\\") {
		return strings.HasPrefix(key, unescapeGlob(prefix))
	}
	return unescapeGlob(pattern) == key
}

func unescapeGlob(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
