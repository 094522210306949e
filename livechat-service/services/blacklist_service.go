package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cloudphone-backend/livechat-service/repository"
	"cloudphone-backend/shared/database/models/livechat"
	"cloudphone-backend/shared/events"
	"cloudphone-backend/shared/utils/cache"
	"cloudphone-backend/shared/utils/query"
)

const (
	DefaultCacheTTL     = 60 * time.Second
	DefaultTenantID     = "default"
	DefaultTopic        = "livechat.blacklist"
	MaxBatchSize        = 1000
	recentBlocksWindow  = 24 * time.Hour
	recentBlocksLimit   = 10
	cacheValueBanned    = "1"
	cacheValueNotBanned = "0"
)

// CreateBlacklistInput is the payload of a single ban
type CreateBlacklistInput struct {
	Kind        livechat.BlacklistKind `json:"kind" binding:"required"`
	Value       string                 `json:"value" binding:"required,max=255"`
	Reason      string                 `json:"reason"`
	IsPermanent bool                   `json:"isPermanent"`
	ExpiresAt   *string                `json:"expiresAt"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// UpdateBlacklistInput is a shallow patch. Nil fields are left unchanged.
type UpdateBlacklistInput struct {
	Reason      *string                  `json:"reason"`
	IsPermanent *bool                    `json:"isPermanent"`
	ExpiresAt   *string                  `json:"expiresAt"`
	State       *livechat.BlacklistState `json:"state"`
	Metadata    map[string]interface{}   `json:"metadata"`
}

// RevokeBlacklistInput carries the revoke message
type RevokeBlacklistInput struct {
	Reason *string `json:"reason"`
}

// SearchBlacklistInput filters a tenant's entries
type SearchBlacklistInput struct {
	Keyword string
	Kind    livechat.BlacklistKind
	State   livechat.BlacklistState
	Page    int
	Limit   int
}

type SearchBlacklistResult struct {
	Items []livechat.BlacklistEntry `json:"items"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

type BatchResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type BlacklistStats struct {
	Total        int64                     `json:"total"`
	ByKind       map[string]int64          `json:"byKind"`
	TotalBlocks  int64                     `json:"totalBlocks"`
	RecentBlocks []livechat.BlacklistEntry `json:"recentBlocks"`
}

// BlacklistEventData is the payload of blacklist domain events
type BlacklistEventData struct {
	EntryID uuid.UUID              `json:"entryId"`
	Kind    livechat.BlacklistKind `json:"kind"`
	Value   string                 `json:"value"`
}

// BlacklistService decides membership and owns the entry lifecycle.
// Cache and publisher failures are logged and never fail the caller.
type BlacklistService struct {
	repo          BlacklistRepository
	cache         Cache
	publisher     events.Publisher
	logger        *slog.Logger
	cacheTTL      time.Duration
	topic         string
	defaultTenant string
	now           func() time.Time
}

type Option func(*BlacklistService)

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *BlacklistService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithTopic(topic string) Option {
	return func(s *BlacklistService) {
		if topic != "" {
			s.topic = topic
		}
	}
}

func WithDefaultTenant(tenantID string) Option {
	return func(s *BlacklistService) {
		if tenantID != "" {
			s.defaultTenant = tenantID
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *BlacklistService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *BlacklistService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewBlacklistService(repo BlacklistRepository, c Cache, publisher events.Publisher, opts ...Option) *BlacklistService {
	s := &BlacklistService{
		repo:          repo,
		cache:         c,
		publisher:     publisher,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		cacheTTL:      DefaultCacheTTL,
		topic:         DefaultTopic,
		defaultTenant: DefaultTenantID,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tenant resolves an empty tenant id to the default tenant
func (s *BlacklistService) Tenant(tenantID string) string {
	if tenantID == "" {
		return s.defaultTenant
	}
	return tenantID
}

// IsBanned reports whether value is currently banned for the tenant
func (s *BlacklistService) IsBanned(ctx context.Context, tenantID string, kind livechat.BlacklistKind, value string) (bool, error) {
	if !kind.Valid() {
		return false, invalid("kind", "unsupported kind %q", kind)
	}
	tenantID = s.Tenant(tenantID)
	value = normalizeValue(value)
	key := cache.GenerateBlacklistKey(tenantID, string(kind), value)

	cached, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "blacklist cache read failed", "key", key, "error", err)
	} else if hit {
		return cached == cacheValueBanned, nil
	}

	entry, err := s.repo.FindActive(ctx, tenantID, kind, value)
	if err != nil {
		return false, err
	}
	banned := entry != nil && entry.BlocksAt(s.now())

	result := cacheValueNotBanned
	if banned {
		result = cacheValueBanned
	}
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "blacklist cache write failed", "key", key, "error", err)
	}
	return banned, nil
}

// Search lists a tenant's entries, newest first
func (s *BlacklistService) Search(ctx context.Context, input SearchBlacklistInput, tenantID string) (*SearchBlacklistResult, error) {
	if input.Kind != "" && !input.Kind.Valid() {
		return nil, invalid("kind", "unsupported kind %q", input.Kind)
	}
	if input.State != "" && !input.State.Valid() {
		return nil, invalid("state", "unsupported state %q", input.State)
	}
	page := query.NormalizePagination(input.Page, input.Limit)

	items, total, err := s.repo.Search(ctx, s.Tenant(tenantID), repository.Filter{
		Keyword:    strings.TrimSpace(input.Keyword),
		Kind:       input.Kind,
		State:      input.State,
		Pagination: page,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []livechat.BlacklistEntry{}
	}
	return &SearchBlacklistResult{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// GetByID returns ErrEntryNotFound when the id does not exist for the tenant
func (s *BlacklistService) GetByID(ctx context.Context, id uuid.UUID, tenantID string) (*livechat.BlacklistEntry, error) {
	entry, err := s.repo.FindByID(ctx, s.Tenant(tenantID), id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// Create bans a value. The duplicate pre-check is backed by the store's
// unique index on active keys.
func (s *BlacklistService) Create(ctx context.Context, input CreateBlacklistInput, tenantID, actorID string) (*livechat.BlacklistEntry, error) {
	tenantID = s.Tenant(tenantID)
	value := normalizeValue(input.Value)

	if !input.Kind.Valid() {
		return nil, invalid("kind", "unsupported kind %q", input.Kind)
	}
	if value == "" {
		return nil, invalid("value", "is required")
	}
	if utf8.RuneCountInString(value) > livechat.MaxValueLength {
		return nil, invalid("value", "must be at most %d characters", livechat.MaxValueLength)
	}
	expiresAt, err := parseOptionalTimestamp(input.ExpiresAt)
	if err != nil {
		return nil, err
	}
	metadata, err := encodeMetadata(input.Metadata)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindActive(ctx, tenantID, input.Kind, value)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%s %q: %w", input.Kind, value, ErrAlreadyBlacklisted)
	}

	entry := &livechat.BlacklistEntry{
		TenantID:    tenantID,
		Kind:        input.Kind,
		Value:       value,
		Reason:      input.Reason,
		State:       livechat.BlacklistStateActive,
		IsPermanent: input.IsPermanent,
		ExpiresAt:   expiresAt,
		BlockCount:  0,
		Metadata:    metadata,
		CreatedBy:   actorID,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%s %q: %w", input.Kind, value, ErrAlreadyBlacklisted)
		}
		return nil, err
	}

	s.invalidate(ctx, entry)
	s.publish(ctx, events.BlacklistAdded, entry, actorID)

	s.logger.InfoContext(ctx, "blacklist entry created",
		"tenant_id", tenantID, "entry_id", entry.ID.String(), "kind", entry.Kind, "actor_id", actorID)
	return entry, nil
}

// CreateBatch creates each item in order. Any per-item failure counts as skipped.
func (s *BlacklistService) CreateBatch(ctx context.Context, items []CreateBlacklistInput, tenantID, actorID string) BatchResult {
	var result BatchResult
	for i, item := range items {
		if _, err := s.Create(ctx, item, tenantID, actorID); err != nil {
			result.Skipped++
			s.logger.DebugContext(ctx, "blacklist batch item skipped", "index", i, "error", err)
			continue
		}
		result.Created++
	}
	return result
}

// Update patches reason, permanence, expiry and metadata of an active entry.
// State may be sent only with its current value; transitions go through
// Revoke and the expiry sweep.
func (s *BlacklistService) Update(ctx context.Context, id uuid.UUID, input UpdateBlacklistInput, tenantID, actorID string) (*livechat.BlacklistEntry, error) {
	entry, err := s.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	if entry.State != livechat.BlacklistStateActive {
		return nil, ErrEntryNotActive
	}
	if input.State != nil && *input.State != entry.State {
		return nil, invalid("state", "cannot change state from %s to %s; use revoke", entry.State, *input.State)
	}

	if input.Reason != nil {
		entry.Reason = *input.Reason
	}
	if input.IsPermanent != nil {
		entry.IsPermanent = *input.IsPermanent
	}
	if input.ExpiresAt != nil {
		expiresAt, err := parseOptionalTimestamp(input.ExpiresAt)
		if err != nil {
			return nil, err
		}
		entry.ExpiresAt = expiresAt
	}
	if input.Metadata != nil {
		metadata, err := encodeMetadata(input.Metadata)
		if err != nil {
			return nil, err
		}
		entry.Metadata = metadata
	}

	saved, err := s.repo.SaveActive(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, ErrEntryNotActive
	}
	s.invalidate(ctx, entry)

	s.logger.InfoContext(ctx, "blacklist entry updated",
		"tenant_id", entry.TenantID, "entry_id", entry.ID.String(), "actor_id", actorID)
	return entry, nil
}

// Revoke moves an active entry to revoked
func (s *BlacklistService) Revoke(ctx context.Context, id uuid.UUID, input RevokeBlacklistInput, tenantID, actorID string) (*livechat.BlacklistEntry, error) {
	entry, err := s.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	if entry.State != livechat.BlacklistStateActive {
		return nil, ErrEntryNotActive
	}

	reason := ""
	if input.Reason != nil {
		reason = *input.Reason
	}
	now := s.now().UTC()
	entry.State = livechat.BlacklistStateRevoked
	entry.RevokedBy = actorID
	entry.RevokedAt = &now
	entry.RevokeReason = &reason

	saved, err := s.repo.SaveActive(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !saved {
		// lost to a concurrent revoke or the sweep
		return nil, ErrEntryNotActive
	}
	s.invalidate(ctx, entry)
	s.publish(ctx, events.BlacklistRevoked, entry, actorID)

	s.logger.InfoContext(ctx, "blacklist entry revoked",
		"tenant_id", entry.TenantID, "entry_id", entry.ID.String(), "actor_id", actorID)
	return entry, nil
}

// Delete removes the entry whatever its state
func (s *BlacklistService) Delete(ctx context.Context, id uuid.UUID, tenantID, actorID string) error {
	entry, err := s.GetByID(ctx, id, tenantID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entry.TenantID, entry.ID); err != nil {
		return err
	}
	s.invalidate(ctx, entry)

	s.logger.InfoContext(ctx, "blacklist entry deleted",
		"tenant_id", entry.TenantID, "entry_id", entry.ID.String(), "actor_id", actorID)
	return nil
}

// RecordBlock counts an intercepted action against the active entry, if any.
// It is meant for request hot paths and never reports failure.
func (s *BlacklistService) RecordBlock(ctx context.Context, kind livechat.BlacklistKind, value, tenantID string) {
	tenantID = s.Tenant(tenantID)
	value = normalizeValue(value)
	if _, err := s.repo.IncrementBlockCount(ctx, tenantID, kind, value, s.now().UTC()); err != nil {
		s.logger.WarnContext(ctx, "blacklist block count update failed",
			"tenant_id", tenantID, "kind", kind, "error", err)
	}
}

// GetStats aggregates a tenant's active entries and block counters
func (s *BlacklistService) GetStats(ctx context.Context, tenantID string) (*BlacklistStats, error) {
	tenantID = s.Tenant(tenantID)

	counts, err := s.repo.CountActiveByKind(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	totalBlocks, err := s.repo.SumBlockCount(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentlyBlocked(ctx, tenantID, s.now().Add(-recentBlocksWindow), recentBlocksLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []livechat.BlacklistEntry{}
	}

	stats := &BlacklistStats{
		ByKind:       make(map[string]int64, len(counts)),
		TotalBlocks:  totalBlocks,
		RecentBlocks: recent,
	}
	for kind, n := range counts {
		stats.ByKind[string(kind)] = n
		stats.Total += n
	}
	return stats, nil
}

// ExpireOverdue moves every overdue non-permanent active entry to expired.
// Cached membership results are left to age out.
func (s *BlacklistService) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("expire overdue entries: %w", err)
	}
	s.logger.InfoContext(ctx, "blacklist expiry sweep finished", "expired", n)
	return n, nil
}

func (s *BlacklistService) invalidate(ctx context.Context, entry *livechat.BlacklistEntry) {
	key := cache.GenerateBlacklistKey(entry.TenantID, string(entry.Kind), entry.Value)
	if err := s.cache.Del(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "blacklist cache invalidation failed", "key", key, "error", err)
	}
}

func (s *BlacklistService) publish(ctx context.Context, eventType string, entry *livechat.BlacklistEntry, actorID string) {
	event := events.NewEvent(eventType, entry.TenantID, actorID, BlacklistEventData{
		EntryID: entry.ID,
		Kind:    entry.Kind,
		Value:   entry.Value,
	})
	if err := s.publisher.Publish(ctx, s.topic, event); err != nil {
		s.logger.WarnContext(ctx, "blacklist event publish failed",
			"event_type", eventType, "entry_id", entry.ID.String(), "error", err)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// normalizeValue is applied to every value stored, checked or counted
func normalizeValue(value string) string {
	return strings.TrimSpace(value)
}

// parseOptionalTimestamp parses an ISO-8601 timestamp. nil and "" yield nil.
func parseOptionalTimestamp(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalid("expiresAt", "%q is not an ISO-8601 timestamp", value)
}

func encodeMetadata(metadata map[string]interface{}) (datatypes.JSON, error) {
	if metadata == nil {
		return nil, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, invalid("metadata", "cannot be encoded: %v", err)
	}
	return datatypes.JSON(raw), nil
}
