package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cloudphone-backend/shared/config"
)

// CacheManager is a thin key/value layer over Redis
type CacheManager struct {
	client *redis.Client
}

var globalCacheManager *CacheManager

// BlacklistKeyPrefix prefixes every membership check key
const BlacklistKeyPrefix = "blacklist:"

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	globalCacheManager = NewCacheManager(client)

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// NewCacheManager wraps an existing Redis client
func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{client: client}
}

// GenerateBlacklistKey generates the cache key of a membership check.
// The tenant is length-prefixed so tenants and values containing ':' can
// never produce the same key.
func GenerateBlacklistKey(tenantID, kind, value string) string {
	return fmt.Sprintf("%s%d:%s:%s:%s", BlacklistKeyPrefix, len(tenantID), tenantID, kind, value)
}

// GenerateTenantBlacklistPattern matches every membership key of a tenant
func GenerateTenantBlacklistPattern(tenantID string) string {
	return fmt.Sprintf("%s%d:%s:*", BlacklistKeyPrefix, len(tenantID), escapeGlob(tenantID))
}

// escapeGlob quotes the characters Redis MATCH treats as wildcards
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Get returns the value stored at key. The boolean is false on a miss.
func (cm *CacheManager) Get(ctx context.Context, key string) (string, bool, error) {
	if cm == nil || cm.client == nil {
		return "", false, fmt.Errorf("cache manager not initialized")
	}

	result, err := cm.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	return result, true, nil
}

// Set stores value at key for ttl
func (cm *CacheManager) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	if err := cm.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Del removes keys
func (cm *CacheManager) Del(ctx context.Context, keys ...string) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}
	if len(keys) == 0 {
		return nil
	}

	if err := cm.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys %v: %w", keys, err)
	}
	return nil
}

// TryLock acquires key for ttl if nobody holds it
func (cm *CacheManager) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if cm == nil || cm.client == nil {
		return false, fmt.Errorf("cache manager not initialized")
	}

	ok, err := cm.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// InvalidateByPattern deletes every key matching pattern and returns how many were removed
func (cm *CacheManager) InvalidateByPattern(ctx context.Context, pattern string) (int, error) {
	if cm == nil || cm.client == nil {
		return 0, fmt.Errorf("cache manager not initialized")
	}

	iter := cm.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan keys: %w", err)
	}

	if len(keys) == 0 {
		log.Printf("🔍 No cache keys found for pattern: %s", pattern)
		return 0, nil
	}

	if err := cm.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}
	log.Printf("🗑️  Cache invalidated: %d keys matching pattern '%s'", len(keys), pattern)
	return len(keys), nil
}

// Ping checks the Redis connection
func (cm *CacheManager) Ping(ctx context.Context) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}
	return cm.client.Ping(ctx).Err()
}

// Close closes the cache manager connection
func (cm *CacheManager) Close() error {
	if cm != nil && cm.client != nil {
		return cm.client.Close()
	}
	return nil
}
