package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware keeps the caller's X-Request-ID or assigns a new one,
// and forwards it to the upstream service.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Request.Header.Set(HeaderRequestID, requestID)
		c.Writer.Header().Set(HeaderRequestID, requestID)

		c.Next()
	}
}
