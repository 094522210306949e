package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"cloudphone-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// RateLimit - Rate limit window of one client key
type RateLimit struct {
	Count      int
	ResetAt    time.Time
	LastAccess time.Time
	Blocked    bool
	BlockUntil time.Time
}

// RateLimiter - In-process rate limiter for the API Gateway
type RateLimiter struct {
	store       map[string]*RateLimit
	mutex       sync.Mutex
	cleanupTime time.Duration
	idleTTL     time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// RateLimitConfig - Rate limiter configuration
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// NewRateLimitConfig - Creates a RateLimitConfig from environment variables
func NewRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()

	return RateLimitConfig{
		MaxRequests:   cfg.GetRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetRateLimitBlockDurationMinutes()) * time.Minute,
	}
}

// NewRateLimiter - Creates a RateLimiter and starts its cleanup loop
func NewRateLimiter(cleanupTime time.Duration) *RateLimiter {
	limiter := &RateLimiter{
		store:       make(map[string]*RateLimit),
		cleanupTime: cleanupTime,
		idleTTL:     24 * time.Hour,
		now:         time.Now,
		stop:        make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTime)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

// evictIdle removes keys not seen for idleTTL
func (rl *RateLimiter) evictIdle() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	removed := 0
	for key, limit := range rl.store {
		if now.Sub(limit.LastAccess) > rl.idleTTL {
			delete(rl.store, key)
			removed++
		}
	}
	return removed
}

// isAllowed - Counts a request for key and reports whether it may pass
func (rl *RateLimiter) isAllowed(key string, config RateLimitConfig) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	limit, exists := rl.store[key]

	if !exists {
		rl.store[key] = &RateLimit{
			Count:      1,
			ResetAt:    now.Add(config.TimeWindow),
			LastAccess: now,
		}
		return true
	}

	limit.LastAccess = now

	if limit.Blocked {
		if now.Before(limit.BlockUntil) {
			return false
		}
		// block served, start a fresh window
		limit.Blocked = false
		limit.Count = 1
		limit.ResetAt = now.Add(config.TimeWindow)
		return true
	}

	if now.After(limit.ResetAt) {
		limit.Count = 1
		limit.ResetAt = now.Add(config.TimeWindow)
		return true
	}

	if limit.Count >= config.MaxRequests {
		limit.Blocked = true
		limit.BlockUntil = now.Add(config.BlockDuration)
		return false
	}

	limit.Count++
	return true
}

// GlobalRateLimitMiddleware - Limits every request by client IP
func (rl *RateLimiter) GlobalRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return rl.RouteRateLimitMiddleware("global", config)
}

// RouteRateLimitMiddleware - Limits requests by client IP within scope, so a
// hot route can get its own budget
func (rl *RateLimiter) RouteRateLimitMiddleware(scope string, config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		if !rl.isAllowed(key, config) {
			c.Header("Retry-After", strconv.Itoa(int(config.BlockDuration.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"error":       "Rate limit exceeded",
				"message":     "Too many requests from this IP. Please try again later.",
				"retry_after": config.BlockDuration.Seconds(),
			})
			return
		}

		c.Next()
	}
}
