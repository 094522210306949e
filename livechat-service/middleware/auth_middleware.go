package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	utils "cloudphone-backend/shared/utils/auth"
)

// AuthMiddleware extracts user and tenant from the JWT and sets them in context.
// Tokens without a tenant claim are bound to defaultTenant.
func AuthMiddleware(defaultTenant string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractTokenFromHeader(c.Request)
		if tokenString == "" {
			// browsers cannot set headers on websocket upgrades
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			unauthorized(c, "Invalid user ID in token")
			return
		}

		tenantID := claims.TenantID
		if tenantID == "" {
			tenantID = defaultTenant
		}

		c.Set("userID", userID)
		c.Set("userEmail", claims.Email)
		c.Set("tenantID", tenantID)

		c.Next()
	}
}

// ExtractTokenFromHeader extracts the token from the Authorization header
func ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return ""
	}

	return tokenParts[1]
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "Unauthorized",
		"message": message,
	})
}
