package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cloudphone-backend/shared/database/models/livechat"
)

const (
	HeaderDeviceID          = "X-Device-ID"
	HeaderDeviceFingerprint = "X-Device-Fingerprint"
)

// BanChecker is the part of the registry the guard needs
type BanChecker interface {
	IsBanned(ctx context.Context, tenantID string, kind livechat.BlacklistKind, value string) (bool, error)
	RecordBlock(ctx context.Context, kind livechat.BlacklistKind, value, tenantID string)
}

type subject struct {
	kind  livechat.BlacklistKind
	value string
}

// requestSubjects lists the identities a request carries, cheapest first
func requestSubjects(c *gin.Context) []subject {
	subjects := []subject{{kind: livechat.BlacklistKindIP, value: c.ClientIP()}}

	if v := strings.TrimSpace(c.GetHeader(HeaderDeviceID)); v != "" {
		subjects = append(subjects, subject{kind: livechat.BlacklistKindDevice, value: v})
	}
	if v := strings.TrimSpace(c.GetHeader(HeaderDeviceFingerprint)); v != "" {
		subjects = append(subjects, subject{kind: livechat.BlacklistKindFingerprint, value: v})
	}
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uuid.UUID); ok && id != uuid.Nil {
			subjects = append(subjects, subject{kind: livechat.BlacklistKindUser, value: id.String()})
		}
	}
	return subjects
}

// BlacklistGuard rejects requests from banned IPs, devices, fingerprints and users.
// Lookup failures let the request through.
func BlacklistGuard(checker BanChecker, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tenantID := c.GetString("tenantID")

		for _, s := range requestSubjects(c) {
			if s.value == "" {
				continue
			}

			banned, err := checker.IsBanned(ctx, tenantID, s.kind, s.value)
			if err != nil {
				logger.WarnContext(ctx, "blacklist guard lookup failed",
					"tenant_id", tenantID, "kind", s.kind, "error", err)
				continue
			}
			if !banned {
				continue
			}

			checker.RecordBlock(ctx, s.kind, s.value, tenantID)
			logger.InfoContext(ctx, "request blocked by blacklist",
				"tenant_id", tenantID, "kind", s.kind, "path", c.FullPath())

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied",
				"message": "This " + string(s.kind) + " has been blacklisted",
			})
			return
		}

		c.Next()
	}
}
