package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cloudphone-backend/shared/database/models/livechat"
)

// MemoryBlacklistRepository keeps entries in process memory. It mirrors the
// postgres schema rules, including the active-key unique index.
type MemoryBlacklistRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*livechat.BlacklistEntry
	seq     map[uuid.UUID]int
	next    int
	now     func() time.Time
}

func NewMemoryBlacklistRepository(now func() time.Time) *MemoryBlacklistRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryBlacklistRepository{
		entries: make(map[uuid.UUID]*livechat.BlacklistEntry),
		seq:     make(map[uuid.UUID]int),
		now:     now,
	}
}

func clone(e *livechat.BlacklistEntry) *livechat.BlacklistEntry {
	c := *e
	if e.Metadata != nil {
		c.Metadata = append(c.Metadata[:0:0], e.Metadata...)
	}
	return &c
}

func (r *MemoryBlacklistRepository) activeLocked(tenantID string, kind livechat.BlacklistKind, value string) *livechat.BlacklistEntry {
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.Kind == kind && e.Value == value && e.State == livechat.BlacklistStateActive {
			return e
		}
	}
	return nil
}

func (r *MemoryBlacklistRepository) FindActive(ctx context.Context, tenantID string, kind livechat.BlacklistKind, value string) (*livechat.BlacklistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e := r.activeLocked(tenantID, kind, value); e != nil {
		return clone(e), nil
	}
	return nil, nil
}

func (r *MemoryBlacklistRepository) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*livechat.BlacklistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok || e.TenantID != tenantID {
		return nil, nil
	}
	return clone(e), nil
}

// sortedLocked returns the tenant's entries matching keep, newest first
func (r *MemoryBlacklistRepository) sortedLocked(tenantID string, keep func(*livechat.BlacklistEntry) bool) []*livechat.BlacklistEntry {
	var out []*livechat.BlacklistEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out
}

func (r *MemoryBlacklistRepository) Search(ctx context.Context, tenantID string, filter Filter) ([]livechat.BlacklistEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keyword := strings.ToLower(filter.Keyword)
	matched := r.sortedLocked(tenantID, func(e *livechat.BlacklistEntry) bool {
		if filter.Kind != "" && e.Kind != filter.Kind {
			return false
		}
		if filter.State != "" && e.State != filter.State {
			return false
		}
		return keyword == "" || strings.Contains(strings.ToLower(e.Value), keyword)
	})

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	items := make([]livechat.BlacklistEntry, 0, end-start)
	for _, e := range matched[start:end] {
		items = append(items, *clone(e))
	}
	return items, total, nil
}

func (r *MemoryBlacklistRepository) Create(ctx context.Context, entry *livechat.BlacklistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.State == livechat.BlacklistStateActive && r.activeLocked(entry.TenantID, entry.Kind, entry.Value) != nil {
		return gorm.ErrDuplicatedKey
	}
	if err := entry.BeforeCreate(nil); err != nil {
		return err
	}
	if _, exists := r.entries[entry.ID]; exists {
		return gorm.ErrDuplicatedKey
	}

	now := r.now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	r.next++
	r.seq[entry.ID] = r.next
	r.entries[entry.ID] = clone(entry)
	return nil
}

func (r *MemoryBlacklistRepository) SaveActive(ctx context.Context, entry *livechat.BlacklistEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[entry.ID]
	if !ok || stored.State != livechat.BlacklistStateActive {
		return false, nil
	}
	entry.UpdatedAt = r.now().UTC()

	stored.Reason = entry.Reason
	stored.State = entry.State
	stored.IsPermanent = entry.IsPermanent
	stored.ExpiresAt = entry.ExpiresAt
	stored.Metadata = append(entry.Metadata[:0:0], entry.Metadata...)
	stored.RevokedBy = entry.RevokedBy
	stored.RevokedAt = entry.RevokedAt
	stored.RevokeReason = entry.RevokeReason
	stored.UpdatedAt = entry.UpdatedAt
	return true, nil
}

func (r *MemoryBlacklistRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok && e.TenantID == tenantID {
		delete(r.entries, id)
		delete(r.seq, id)
	}
	return nil
}

func (r *MemoryBlacklistRepository) IncrementBlockCount(ctx context.Context, tenantID string, kind livechat.BlacklistKind, value string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.activeLocked(tenantID, kind, value)
	if e == nil {
		return 0, nil
	}
	e.BlockCount++
	blockedAt := at.UTC()
	e.LastBlockedAt = &blockedAt
	return 1, nil
}

func (r *MemoryBlacklistRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, e := range r.entries {
		if e.Overdue(now) {
			e.State = livechat.BlacklistStateExpired
			e.UpdatedAt = now.UTC()
			n++
		}
	}
	return n, nil
}

func (r *MemoryBlacklistRepository) CountActiveByKind(ctx context.Context, tenantID string) (map[livechat.BlacklistKind]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[livechat.BlacklistKind]int64)
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.State == livechat.BlacklistStateActive {
			counts[e.Kind]++
		}
	}
	return counts, nil
}

func (r *MemoryBlacklistRepository) SumBlockCount(ctx context.Context, tenantID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, e := range r.entries {
		if e.TenantID == tenantID {
			total += e.BlockCount
		}
	}
	return total, nil
}

func (r *MemoryBlacklistRepository) RecentlyBlocked(ctx context.Context, tenantID string, since time.Time, limit int) ([]livechat.BlacklistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []livechat.BlacklistEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.State == livechat.BlacklistStateActive &&
			e.LastBlockedAt != nil && e.LastBlockedAt.After(since) {
			out = append(out, *clone(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastBlockedAt.After(*out[j].LastBlockedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns the number of stored entries
func (r *MemoryBlacklistRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
