package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	BlacklistAdded   = "blacklist_added"
	BlacklistRevoked = "blacklist_revoked"
)

// Event is the envelope every domain event travels in
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       string      `json:"type"`
	TenantID   string      `json:"tenantId"`
	ActorID    string      `json:"actorId,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data,omitempty"`
}

// NewEvent stamps a fresh id and the current UTC time
func NewEvent(eventType, tenantID, actorID string, data interface{}) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		TenantID:   tenantID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
