package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cloudphone-backend/shared/database/models/livechat"
	"cloudphone-backend/shared/utils/query"
)

// Filter narrows a blacklist search. Empty fields are ignored.
type Filter struct {
	Keyword string
	Kind    livechat.BlacklistKind
	State   livechat.BlacklistState
	query.Pagination
}

// BlacklistRepository stores entries in postgres through gorm
type BlacklistRepository struct {
	db *gorm.DB
}

func NewBlacklistRepository(db *gorm.DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

func (r *BlacklistRepository) tenantScope(ctx context.Context, tenantID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&livechat.BlacklistEntry{}).Where("tenant_id = ?", tenantID)
}

func (r *BlacklistRepository) first(q *gorm.DB) (*livechat.BlacklistEntry, error) {
	var entry livechat.BlacklistEntry
	if err := q.First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *BlacklistRepository) FindActive(ctx context.Context, tenantID string, kind livechat.BlacklistKind, value string) (*livechat.BlacklistEntry, error) {
	entry, err := r.first(r.tenantScope(ctx, tenantID).
		Where("kind = ? AND value = ? AND state = ?", kind, value, livechat.BlacklistStateActive))
	if err != nil {
		return nil, fmt.Errorf("find active entry: %w", err)
	}
	return entry, nil
}

func (r *BlacklistRepository) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*livechat.BlacklistEntry, error) {
	entry, err := r.first(r.tenantScope(ctx, tenantID).Where("id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("find entry %s: %w", id, err)
	}
	return entry, nil
}

func (r *BlacklistRepository) Search(ctx context.Context, tenantID string, filter Filter) ([]livechat.BlacklistEntry, int64, error) {
	q := query.ApplyFilters(r.tenantScope(ctx, tenantID), map[string]string{
		"kind":  string(filter.Kind),
		"state": string(filter.State),
	})
	// the base query feeds both the count and the page
	q = query.ApplySearch(q, filter.Keyword, []string{"value"}).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	var entries []livechat.BlacklistEntry
	if err := query.ApplyPagination(q.Order("created_at DESC"), filter.Pagination).Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("search entries: %w", err)
	}
	return entries, total, nil
}

func (r *BlacklistRepository) Create(ctx context.Context, entry *livechat.BlacklistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// mutableColumns are written by SaveActive. Counters are left to IncrementBlockCount.
var mutableColumns = []string{
	"reason", "state", "is_permanent", "expires_at", "metadata",
	"revoked_by", "revoked_at", "revoke_reason", "updated_at",
}

// SaveActive writes mutableColumns only while the stored row is active, so
// concurrent revokes or a sweep cannot be overwritten
func (r *BlacklistRepository) SaveActive(ctx context.Context, entry *livechat.BlacklistEntry) (bool, error) {
	res := r.db.WithContext(ctx).Model(entry).
		Where("state = ?", livechat.BlacklistStateActive).
		Select(mutableColumns).
		Updates(entry)
	return res.RowsAffected > 0, res.Error
}

func (r *BlacklistRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&livechat.BlacklistEntry{}).Error
}

// IncrementBlockCount bumps the counter of the active entry in a single statement
func (r *BlacklistRepository) IncrementBlockCount(ctx context.Context, tenantID string, kind livechat.BlacklistKind, value string, at time.Time) (int64, error) {
	res := r.tenantScope(ctx, tenantID).
		Where("kind = ? AND value = ? AND state = ?", kind, value, livechat.BlacklistStateActive).
		UpdateColumns(map[string]interface{}{
			"block_count":     gorm.Expr("block_count + ?", 1),
			"last_blocked_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *BlacklistRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&livechat.BlacklistEntry{}).
		Where("state = ? AND is_permanent = ? AND expires_at < ?", livechat.BlacklistStateActive, false, now).
		Updates(map[string]interface{}{
			"state":      livechat.BlacklistStateExpired,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *BlacklistRepository) CountActiveByKind(ctx context.Context, tenantID string) (map[livechat.BlacklistKind]int64, error) {
	var rows []struct {
		Kind  livechat.BlacklistKind
		Count int64
	}
	err := r.tenantScope(ctx, tenantID).
		Select("kind, COUNT(*) AS count").
		Where("state = ?", livechat.BlacklistStateActive).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count active entries: %w", err)
	}

	counts := make(map[livechat.BlacklistKind]int64, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}

func (r *BlacklistRepository) SumBlockCount(ctx context.Context, tenantID string) (int64, error) {
	var total int64
	err := r.tenantScope(ctx, tenantID).
		Select("COALESCE(SUM(block_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum block counts: %w", err)
	}
	return total, nil
}

func (r *BlacklistRepository) RecentlyBlocked(ctx context.Context, tenantID string, since time.Time, limit int) ([]livechat.BlacklistEntry, error) {
	var entries []livechat.BlacklistEntry
	err := r.tenantScope(ctx, tenantID).
		Where("state = ? AND last_blocked_at > ?", livechat.BlacklistStateActive, since).
		Order("last_blocked_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("recently blocked entries: %w", err)
	}
	return entries, nil
}
