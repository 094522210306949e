package livechat

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocksAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name  string
		entry BlacklistEntry
		want  bool
	}{
		{"permanent ignores past expiry", BlacklistEntry{State: BlacklistStateActive, IsPermanent: true, ExpiresAt: &past}, true},
		{"no expiry", BlacklistEntry{State: BlacklistStateActive}, true},
		{"future expiry", BlacklistEntry{State: BlacklistStateActive, ExpiresAt: &future}, true},
		{"past expiry not yet swept", BlacklistEntry{State: BlacklistStateActive, ExpiresAt: &past}, false},
		{"revoked", BlacklistEntry{State: BlacklistStateRevoked, IsPermanent: true}, false},
		{"expired", BlacklistEntry{State: BlacklistStateExpired}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.BlocksAt(now))
		})
	}
}

func TestOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	assert.True(t, (&BlacklistEntry{State: BlacklistStateActive, ExpiresAt: &past}).Overdue(now))
	assert.False(t, (&BlacklistEntry{State: BlacklistStateActive, ExpiresAt: &past, IsPermanent: true}).Overdue(now))
	assert.False(t, (&BlacklistEntry{State: BlacklistStateActive}).Overdue(now))
	assert.False(t, (&BlacklistEntry{State: BlacklistStateRevoked, ExpiresAt: &past}).Overdue(now))
}

func TestBeforeCreateAssignsID(t *testing.T) {
	e := &BlacklistEntry{}
	require.NoError(t, e.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, e.ID)

	id := uuid.New()
	e = &BlacklistEntry{ID: id}
	require.NoError(t, e.BeforeCreate(nil))
	assert.Equal(t, id, e.ID)
}

func TestKindAndStateValid(t *testing.T) {
	assert.True(t, BlacklistKindFingerprint.Valid())
	assert.False(t, BlacklistKind("email").Valid())
	assert.True(t, BlacklistStateRevoked.Valid())
	assert.False(t, BlacklistState("paused").Valid())
}
