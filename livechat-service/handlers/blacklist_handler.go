package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cloudphone-backend/livechat-service/services"
	"cloudphone-backend/shared/database/models/livechat"
	"cloudphone-backend/shared/utils/query"
)

// BlacklistRegistry is the set of registry operations the HTTP layer exposes
type BlacklistRegistry interface {
	IsBanned(ctx context.Context, tenantID string, kind livechat.BlacklistKind, value string) (bool, error)
	Search(ctx context.Context, input services.SearchBlacklistInput, tenantID string) (*services.SearchBlacklistResult, error)
	GetByID(ctx context.Context, id uuid.UUID, tenantID string) (*livechat.BlacklistEntry, error)
	Create(ctx context.Context, input services.CreateBlacklistInput, tenantID, actorID string) (*livechat.BlacklistEntry, error)
	CreateBatch(ctx context.Context, items []services.CreateBlacklistInput, tenantID, actorID string) services.BatchResult
	Update(ctx context.Context, id uuid.UUID, input services.UpdateBlacklistInput, tenantID, actorID string) (*livechat.BlacklistEntry, error)
	Revoke(ctx context.Context, id uuid.UUID, input services.RevokeBlacklistInput, tenantID, actorID string) (*livechat.BlacklistEntry, error)
	Delete(ctx context.Context, id uuid.UUID, tenantID, actorID string) error
	GetStats(ctx context.Context, tenantID string) (*services.BlacklistStats, error)
}

// BatchCreateRequest represents request body for bulk import
type BatchCreateRequest struct {
	Items []services.CreateBlacklistInput `json:"items" binding:"required,max=1000"`
}

// CheckRequest represents request body for a membership check. Type is an alias of Kind.
type CheckRequest struct {
	Kind  livechat.BlacklistKind `json:"kind"`
	Type  livechat.BlacklistKind `json:"type"`
	Value string                 `json:"value" binding:"required"`
}

// CheckResponse represents the result of a membership check
type CheckResponse struct {
	IsBlacklisted bool `json:"isBlacklisted"`
}

// BlacklistListResponse represents a page of entries
type BlacklistListResponse struct {
	Success bool                           `json:"success"`
	Data    services.SearchBlacklistResult `json:"data"`
}

// SingleBlacklistResponse represents a single entry response
type SingleBlacklistResponse struct {
	Success bool                    `json:"success"`
	Data    livechat.BlacklistEntry `json:"data"`
}

// BlacklistStatsResponse represents tenant statistics
type BlacklistStatsResponse struct {
	Success bool                    `json:"success"`
	Data    services.BlacklistStats `json:"data"`
}

// BatchCreateResponse represents bulk import counters
type BatchCreateResponse struct {
	Success bool                 `json:"success"`
	Data    services.BatchResult `json:"data"`
}

// CheckBlacklistResponse wraps CheckResponse
type CheckBlacklistResponse struct {
	Success bool          `json:"success"`
	Data    CheckResponse `json:"data"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type BlacklistHandler struct {
	registry BlacklistRegistry
}

func NewBlacklistHandler(registry BlacklistRegistry) *BlacklistHandler {
	return &BlacklistHandler{registry: registry}
}

// RegisterRoutes mounts the blacklist routes on group. Static segments are
// registered before :id.
func (h *BlacklistHandler) RegisterRoutes(group *gin.RouterGroup) {
	blacklist := group.Group("/livechat/blacklist")
	{
		blacklist.GET("", h.List)
		blacklist.GET("/stats", h.Stats)
		blacklist.POST("", h.Create)
		blacklist.POST("/batch", h.CreateBatch)
		blacklist.POST("/check", h.Check)
		blacklist.GET("/:id", h.Get)
		blacklist.PATCH("/:id", h.Update)
		blacklist.PUT("/:id", h.Update)
		blacklist.POST("/:id/revoke", h.Revoke)
		blacklist.DELETE("/:id", h.Delete)
	}
}

// List retrieves blacklist entries with pagination and filtering
// @Summary List blacklist entries
// @Description Search the tenant's blacklist, newest first
// @Tags blacklist
// @Accept json
// @Produce json
// @Param keyword query string false "Substring match on value (case-insensitive)"
// @Param kind query string false "Filter by kind (ip, device, user, fingerprint)"
// @Param type query string false "Alias of kind"
// @Param state query string false "Filter by state (active, expired, revoked)"
// @Param status query string false "Alias of state"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20, max: 100)"
// @Security BearerAuth
// @Success 200 {object} handlers.BlacklistListResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Server error"
// @Router /livechat/blacklist [get]
func (h *BlacklistHandler) List(ctx *gin.Context) {
	page := query.ParsePagination(ctx)
	input := services.SearchBlacklistInput{
		Keyword: query.FirstQuery(ctx, "keyword", "search"),
		Kind:    livechat.BlacklistKind(query.FirstQuery(ctx, "kind", "type")),
		State:   livechat.BlacklistState(query.FirstQuery(ctx, "state", "status")),
		Page:    page.Page,
		Limit:   page.Limit,
	}

	result, err := h.registry.Search(ctx.Request.Context(), input, tenantOf(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to retrieve blacklist entries")
		return
	}
	respondOK(ctx, http.StatusOK, result)
}

// Stats returns aggregate blacklist statistics for the tenant
// @Summary Blacklist statistics
// @Description Active entries by kind, total blocks and the entries blocked in the last 24 hours
// @Tags blacklist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.BlacklistStatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Server error"
// @Router /livechat/blacklist/stats [get]
func (h *BlacklistHandler) Stats(ctx *gin.Context) {
	stats, err := h.registry.GetStats(ctx.Request.Context(), tenantOf(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to load blacklist statistics")
		return
	}
	respondOK(ctx, http.StatusOK, stats)
}

// Get retrieves a single entry
// @Summary Get blacklist entry
// @Description Get a blacklist entry by ID
// @Tags blacklist
// @Produce json
// @Param id path string true "Entry ID"
// @Security BearerAuth
// @Success 200 {object} handlers.SingleBlacklistResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID"
// @Failure 404 {object} handlers.ErrorResponse "Entry not found"
// @Failure 500 {object} handlers.ErrorResponse "Server error"
// @Router /livechat/blacklist/{id} [get]
func (h *BlacklistHandler) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	entry, err := h.registry.GetByID(ctx.Request.Context(), id, tenantOf(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to retrieve blacklist entry")
		return
	}
	respondOK(ctx, http.StatusOK, entry)
}

// Create adds a new entry
// @Summary Create blacklist entry
// @Description Ban an IP, device, user or fingerprint for the tenant
// @Tags blacklist
// @Accept json
// @Produce json
// @Param entry body services.CreateBlacklistInput true "Entry data"
// @Security BearerAuth
// @Success 201 {object} handlers.SingleBlacklistResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid input"
// @Failure 409 {object} handlers.ErrorResponse "Value already blacklisted"
// @Failure 500 {object} handlers.ErrorResponse "Server error"
// @Router /livechat/blacklist [post]
func (h *BlacklistHandler) Create(ctx *gin.Context) {
	var input services.CreateBlacklistInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondInvalidBody(ctx, err)
		return
	}

	entry, err := h.registry.Create(ctx.Request.Context(), input, tenantOf(ctx), actorOf(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to create blacklist entry")
		return
	}
	respondWritten(ctx, http.StatusCreated, entry, "Blacklist entry created successfully")
}

// CreateBatch imports several entries, skipping the ones that fail
// @Summary Bulk create blacklist entries
// @Description Create up to 1000 entries. Duplicates and invalid items are counted as skipped.
// @Tags blacklist
// @Accept json
// @Produce json
// @Param payload body handlers.BatchCreateRequest true "Entries"
// @Security BearerAuth
// @Success 200 {object} handlers.BatchCreateResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid input"
// @Router /livechat/blacklist/batch [post]
func (h *BlacklistHandler) CreateBatch(ctx *gin.Context) {
	var req BatchCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(ctx, err)
		return
	}

	result := h.registry.CreateBatch(ctx.Request.Context(), req.Items, tenantOf(ctx), actorOf(ctx))
	respondWritten(ctx, http.StatusOK, result, fmt.Sprintf("%d created, %d skipped", result.Created, result.Skipped))
}

// Check reports whether a value is currently blacklisted
// @Summary Check blacklist membership
// @Description Cached membership check used by the chat widget
// @Tags blacklist
// @Accept json
// @Produce json
// @Param payload body handlers.CheckRequest true "Kind and value"
// @Security BearerAuth
// @Success 200 {object} handlers.CheckBlacklistResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid input"
// @Failure 500 {object} handlers.ErrorResponse "Server error"
// @Router /livechat/blacklist/check [post]
func (h *BlacklistHandler) Check(ctx *gin.Context) {
	var req CheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(ctx, err)
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = req.Type
	}

	banned, err := h.registry.IsBanned(ctx.Request.Context(), tenantOf(ctx), kind, req.Value)
	if err != nil {
		respondError(ctx, err, "Failed to check blacklist")
		return
	}
	respondOK(ctx, http.StatusOK, CheckResponse{IsBlacklisted: banned})
}

// Update patches an active entry
// @Summary Update blacklist entry
// @Description Change reason, permanence, expiry or metadata of an active entry
// @Tags blacklist
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param entry body services.UpdateBlacklistInput true "Fields to change"
// @Security BearerAuth
// @Success 200 {object} handlers.SingleBlacklistResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid input or entry not active"
// @Failure 404 {object} handlers.ErrorResponse "Entry not found"
// @Failure 500 {object} handlers.ErrorResponse "Server error"
// @Router /livechat/blacklist/{id} [patch]
// @Router /livechat/blacklist/{id} [put]
func (h *BlacklistHandler) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var input services.UpdateBlacklistInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondInvalidBody(ctx, err)
		return
	}

	entry, err := h.registry.Update(ctx.Request.Context(), id, input, tenantOf(ctx), actorOf(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to update blacklist entry")
		return
	}
	respondWritten(ctx, http.StatusOK, entry, "Blacklist entry updated successfully")
}

// Revoke lifts an active ban
// @Summary Revoke blacklist entry
// @Description Move an active entry to revoked. Revoked entries stay listed for audit.
// @Tags blacklist
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body services.RevokeBlacklistInput false "Revoke reason"
// @Security BearerAuth
// @Success 200 {object} handlers.SingleBlacklistResponse
// @Failure 400 {object} handlers.ErrorResponse "Entry not active"
// @Failure 404 {object} handlers.ErrorResponse "Entry not found"
// @Failure 500 {object} handlers.ErrorResponse "Server error"
// @Router /livechat/blacklist/{id}/revoke [post]
func (h *BlacklistHandler) Revoke(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	// the body is optional
	var input services.RevokeBlacklistInput
	if err := ctx.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		respondInvalidBody(ctx, err)
		return
	}

	entry, err := h.registry.Revoke(ctx.Request.Context(), id, input, tenantOf(ctx), actorOf(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to revoke blacklist entry")
		return
	}
	respondWritten(ctx, http.StatusOK, entry, "Blacklist entry revoked successfully")
}

// Delete removes an entry permanently
// @Summary Delete blacklist entry
// @Description Remove an entry whatever its state
// @Tags blacklist
// @Param id path string true "Entry ID"
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID"
// @Failure 404 {object} handlers.ErrorResponse "Entry not found"
// @Failure 500 {object} handlers.ErrorResponse "Server error"
// @Router /livechat/blacklist/{id} [delete]
func (h *BlacklistHandler) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := h.registry.Delete(ctx.Request.Context(), id, tenantOf(ctx), actorOf(ctx)); err != nil {
		respondError(ctx, err, "Failed to delete blacklist entry")
		return
	}
	ctx.Status(http.StatusNoContent)
}

func tenantOf(ctx *gin.Context) string {
	return ctx.GetString("tenantID")
}

func actorOf(ctx *gin.Context) string {
	if v, exists := ctx.Get("userID"); exists {
		switch id := v.(type) {
		case uuid.UUID:
			return id.String()
		case string:
			return id
		}
	}
	return ""
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid entry ID",
			Message: fmt.Sprintf("%q is not a valid UUID", ctx.Param("id")),
		})
		return uuid.Nil, false
	}
	return id, true
}

func respondOK(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondWritten(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondInvalidBody(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   "Invalid request data",
		Message: err.Error(),
	})
}

// respondError maps registry errors to status codes
func respondError(ctx *gin.Context, err error, fallback string) {
	var vErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrEntryNotFound):
		ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "Blacklist entry not found", Message: err.Error()})
	case errors.Is(err, services.ErrAlreadyBlacklisted):
		ctx.JSON(http.StatusConflict, ErrorResponse{Error: "Value is already blacklisted", Message: err.Error()})
	case errors.Is(err, services.ErrEntryNotActive):
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Blacklist entry is not active", Message: err.Error()})
	case errors.As(err, &vErr):
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback, Message: err.Error()})
	}
}
