package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cloudphone-backend/livechat-service/repository"
	"cloudphone-backend/shared/database/models/livechat"
)

// BlacklistRepository is the source of truth for blacklist entries.
// Finders return (nil, nil) when nothing matches.
type BlacklistRepository interface {
	FindActive(ctx context.Context, tenantID string, kind livechat.BlacklistKind, value string) (*livechat.BlacklistEntry, error)
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*livechat.BlacklistEntry, error)
	Search(ctx context.Context, tenantID string, filter repository.Filter) ([]livechat.BlacklistEntry, int64, error)
	Create(ctx context.Context, entry *livechat.BlacklistEntry) error
	// SaveActive writes the mutable fields if the stored entry is still active
	SaveActive(ctx context.Context, entry *livechat.BlacklistEntry) (bool, error)
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
	IncrementBlockCount(ctx context.Context, tenantID string, kind livechat.BlacklistKind, value string, at time.Time) (int64, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	CountActiveByKind(ctx context.Context, tenantID string) (map[livechat.BlacklistKind]int64, error)
	SumBlockCount(ctx context.Context, tenantID string) (int64, error)
	RecentlyBlocked(ctx context.Context, tenantID string, since time.Time, limit int) ([]livechat.BlacklistEntry, error)
}

// Cache holds membership check results
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Locker grants a lease on a key to one owner at a time
type Locker interface {
	TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
}
