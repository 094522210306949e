package livechat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BlacklistKind classifies the banned value
type BlacklistKind string

const (
	BlacklistKindIP          BlacklistKind = "ip"
	BlacklistKindDevice      BlacklistKind = "device"
	BlacklistKindUser        BlacklistKind = "user"
	BlacklistKindFingerprint BlacklistKind = "fingerprint"
)

// Valid reports whether k is one of the known kinds
func (k BlacklistKind) Valid() bool {
	switch k {
	case BlacklistKindIP, BlacklistKindDevice, BlacklistKindUser, BlacklistKindFingerprint:
		return true
	}
	return false
}

// BlacklistState is the lifecycle state of an entry. expired and revoked are terminal.
type BlacklistState string

const (
	BlacklistStateActive  BlacklistState = "active"
	BlacklistStateExpired BlacklistState = "expired"
	BlacklistStateRevoked BlacklistState = "revoked"
)

// Valid reports whether s is one of the known states
func (s BlacklistState) Valid() bool {
	switch s {
	case BlacklistStateActive, BlacklistStateExpired, BlacklistStateRevoked:
		return true
	}
	return false
}

// MaxValueLength is the column size of BlacklistEntry.Value
const MaxValueLength = 255

// BlacklistEntry is a ban on an ip, device, user or fingerprint within a tenant
type BlacklistEntry struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID      string         `json:"tenantId" gorm:"size:64;not null;default:'default';index:idx_blacklist_tenant_state,priority:1;index:idx_blacklist_tenant_kind_value,priority:1;index:idx_blacklist_tenant_expires,priority:1"`
	Kind          BlacklistKind  `json:"kind" gorm:"type:varchar(20);not null;index:idx_blacklist_tenant_kind_value,priority:2"`
	Value         string         `json:"value" gorm:"size:255;not null;index:idx_blacklist_tenant_kind_value,priority:3"`
	Reason        string         `json:"reason,omitempty" gorm:"type:text"`
	State         BlacklistState `json:"state" gorm:"type:varchar(20);not null;default:'active';index:idx_blacklist_tenant_state,priority:2"`
	IsPermanent   bool           `json:"isPermanent" gorm:"not null;default:false"`
	ExpiresAt     *time.Time     `json:"expiresAt,omitempty" gorm:"index:idx_blacklist_tenant_expires,priority:2"`
	BlockCount    int64          `json:"blockCount" gorm:"not null;default:0"`
	LastBlockedAt *time.Time     `json:"lastBlockedAt,omitempty"`
	Metadata      datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedBy     string         `json:"createdBy,omitempty" gorm:"size:64"`
	RevokedBy     string         `json:"revokedBy,omitempty" gorm:"size:64"`
	RevokedAt     *time.Time     `json:"revokedAt,omitempty"`
	RevokeReason  *string        `json:"revokeReason,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// TableName returns the table name for BlacklistEntry
func (BlacklistEntry) TableName() string {
	return "blacklist_entries"
}

// BeforeCreate assigns an id when the caller did not
func (e *BlacklistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// BlocksAt reports whether the entry bans its value at the given instant.
// Entries without an expiry behave as permanent until revoked.
func (e *BlacklistEntry) BlocksAt(now time.Time) bool {
	if e.State != BlacklistStateActive {
		return false
	}
	if e.IsPermanent || e.ExpiresAt == nil {
		return true
	}
	return e.ExpiresAt.After(now)
}

// Overdue reports whether the sweep should move the entry to expired
func (e *BlacklistEntry) Overdue(now time.Time) bool {
	return e.State == BlacklistStateActive && !e.IsPermanent && e.ExpiresAt != nil && e.ExpiresAt.Before(now)
}
