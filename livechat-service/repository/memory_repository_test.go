package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cloudphone-backend/shared/database/models/livechat"
	"cloudphone-backend/shared/utils/query"
)

type stepClock struct{ t time.Time }

// Now advances a second per call so creation order is observable
func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newEntry(tenant string, kind livechat.BlacklistKind, value string) *livechat.BlacklistEntry {
	return &livechat.BlacklistEntry{
		TenantID: tenant,
		Kind:     kind,
		Value:    value,
		State:    livechat.BlacklistStateActive,
	}
}

func TestMemoryCreateRejectsSecondActiveEntry(t *testing.T) {
	repo := NewMemoryBlacklistRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newEntry("t1", livechat.BlacklistKindIP, "1.2.3.4")))
	err := repo.Create(ctx, newEntry("t1", livechat.BlacklistKindIP, "1.2.3.4"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// other tenants and kinds are independent keys
	require.NoError(t, repo.Create(ctx, newEntry("t2", livechat.BlacklistKindIP, "1.2.3.4")))
	require.NoError(t, repo.Create(ctx, newEntry("t1", livechat.BlacklistKindDevice, "1.2.3.4")))
	assert.Equal(t, 3, repo.Len())
}

func TestMemoryCreateAllowsNewEntryAfterRevoke(t *testing.T) {
	repo := NewMemoryBlacklistRepository(nil)
	ctx := context.Background()

	first := newEntry("t1", livechat.BlacklistKindUser, "u1")
	require.NoError(t, repo.Create(ctx, first))

	first.State = livechat.BlacklistStateRevoked
	saved, err := repo.SaveActive(ctx, first)
	require.NoError(t, err)
	require.True(t, saved)

	require.NoError(t, repo.Create(ctx, newEntry("t1", livechat.BlacklistKindUser, "u1")))
}

func TestMemorySearch(t *testing.T) {
	clock := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := NewMemoryBlacklistRepository(clock.Now)
	ctx := context.Background()

	for _, v := range []string{"10.0.0.1", "10.0.0.2", "192.168.1.1"} {
		require.NoError(t, repo.Create(ctx, newEntry("t1", livechat.BlacklistKindIP, v)))
	}
	require.NoError(t, repo.Create(ctx, newEntry("t1", livechat.BlacklistKindUser, "Alice")))
	require.NoError(t, repo.Create(ctx, newEntry("t2", livechat.BlacklistKindIP, "10.0.0.9")))

	items, total, err := repo.Search(ctx, "t1", Filter{Keyword: "10.0", Pagination: query.Pagination{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "10.0.0.2", items[0].Value, "newest first")

	items, total, err = repo.Search(ctx, "t1", Filter{Keyword: "alice", Kind: livechat.BlacklistKindUser, Pagination: query.Pagination{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Alice", items[0].Value)

	items, total, err = repo.Search(ctx, "t1", Filter{Pagination: query.Pagination{Page: 2, Limit: 3}})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, items, 1)
	assert.Equal(t, "10.0.0.1", items[0].Value)
}

func TestMemoryIncrementOnlyTouchesActive(t *testing.T) {
	repo := NewMemoryBlacklistRepository(nil)
	ctx := context.Background()
	at := time.Now()

	e := newEntry("t1", livechat.BlacklistKindIP, "1.1.1.1")
	require.NoError(t, repo.Create(ctx, e))

	n, err := repo.IncrementBlockCount(ctx, "t1", livechat.BlacklistKindIP, "1.1.1.1", at)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	e.State = livechat.BlacklistStateRevoked
	saved, err := repo.SaveActive(ctx, e)
	require.NoError(t, err)
	require.True(t, saved)

	n, err = repo.IncrementBlockCount(ctx, "t1", livechat.BlacklistKindIP, "1.1.1.1", at)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	stored, err := repo.FindByID(ctx, "t1", e.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.BlockCount, "save keeps the counter")
	require.NotNil(t, stored.LastBlockedAt)
}

func TestMemoryExpireOverdue(t *testing.T) {
	repo := NewMemoryBlacklistRepository(nil)
	ctx := context.Background()
	now := time.Now()
	past := now.Add(-time.Hour)

	overdue := newEntry("t1", livechat.BlacklistKindIP, "1.1.1.1")
	overdue.ExpiresAt = &past
	permanent := newEntry("t1", livechat.BlacklistKindIP, "2.2.2.2")
	permanent.ExpiresAt = &past
	permanent.IsPermanent = true
	require.NoError(t, repo.Create(ctx, overdue))
	require.NoError(t, repo.Create(ctx, permanent))

	n, err := repo.ExpireOverdue(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, _ := repo.FindByID(ctx, "t1", overdue.ID)
	assert.Equal(t, livechat.BlacklistStateExpired, got.State)
	got, _ = repo.FindByID(ctx, "t1", permanent.ID)
	assert.Equal(t, livechat.BlacklistStateActive, got.State)
}

func TestMemoryFindByIDIsTenantScoped(t *testing.T) {
	repo := NewMemoryBlacklistRepository(nil)
	ctx := context.Background()

	e := newEntry("t1", livechat.BlacklistKindIP, "1.1.1.1")
	require.NoError(t, repo.Create(ctx, e))

	got, err := repo.FindByID(ctx, "t2", e.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Delete(ctx, "t2", e.ID))
	assert.Equal(t, 1, repo.Len())
}

func TestMemorySaveActiveSkipsTerminalEntries(t *testing.T) {
	repo := NewMemoryBlacklistRepository(nil)
	ctx := context.Background()

	e := newEntry("t1", livechat.BlacklistKindIP, "2.2.2.2")
	require.NoError(t, repo.Create(ctx, e))

	e.State = livechat.BlacklistStateRevoked
	e.RevokedBy = "first"
	saved, err := repo.SaveActive(ctx, e)
	require.NoError(t, err)
	assert.True(t, saved)

	e.RevokedBy = "second"
	saved, err = repo.SaveActive(ctx, e)
	require.NoError(t, err)
	assert.False(t, saved)

	stored, err := repo.FindByID(ctx, "t1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.RevokedBy)
}
