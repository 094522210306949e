package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// StoreDriver selects the blacklist store: "postgres" or "memory"
	StoreDriver string

	// JWT
	JWTSecret string

	// API Gateway URL
	APIGatewayURL string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Rate Limiting
	RateLimitMaxRequests          string
	RateLimitTimeWindowSeconds    string
	RateLimitBlockDurationMinutes string

	// Frontend URL
	FrontendURL string

	// Service URLs
	LivechatServiceURL string

	// Event bus
	EventBusDriver      string
	KafkaBrokers        string
	KafkaBlacklistTopic string

	// Blacklist
	BlacklistDefaultTenant       string
	BlacklistCacheTTLSeconds     string
	BlacklistSweepIntervalMinute string
	BlacklistSweepLockEnabled    bool
	BlacklistGuardEnabled        bool

	// Logging
	LogLevel string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "cloudphone"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		StoreDriver: getEnv("STORE_DRIVER", "postgres"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-this"),

		// API Gateway URL
		APIGatewayURL: getEnv("API_GATEWAY_URL", "http://localhost:8000"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Rate Limiting
		RateLimitMaxRequests:          getEnv("RATE_LIMIT_MAX_REQUESTS", "100"),
		RateLimitTimeWindowSeconds:    getEnv("RATE_LIMIT_TIME_WINDOW_SECONDS", "60"),
		RateLimitBlockDurationMinutes: getEnv("RATE_LIMIT_BLOCK_DURATION_MINUTES", "15"),

		// Frontend URL
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Service URLs
		LivechatServiceURL: getEnv("LIVECHAT_SERVICE_URL", "http://localhost:8010"),

		// Event bus
		EventBusDriver:      getEnv("EVENT_BUS_DRIVER", "log"),
		KafkaBrokers:        getEnv("KAFKA_BROKERS", ""),
		KafkaBlacklistTopic: getEnv("KAFKA_BLACKLIST_TOPIC", "livechat.blacklist"),

		// Blacklist
		BlacklistDefaultTenant:       getEnv("BLACKLIST_DEFAULT_TENANT", "default"),
		BlacklistCacheTTLSeconds:     getEnv("BLACKLIST_CACHE_TTL_SECONDS", "60"),
		BlacklistSweepIntervalMinute: getEnv("BLACKLIST_SWEEP_INTERVAL_MINUTES", "60"),
		BlacklistSweepLockEnabled:    getEnvAsBool("BLACKLIST_SWEEP_LOCK_ENABLED", false),
		BlacklistGuardEnabled:        getEnvAsBool("BLACKLIST_GUARD_ENABLED", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func atoiOr(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil && v > 0 {
		return v
	}
	return fallback
}

// GetRateLimitMaxRequests returns the rate limit max requests as integer
func (c *Config) GetRateLimitMaxRequests() int {
	return atoiOr(c.RateLimitMaxRequests, 100)
}

// GetRateLimitTimeWindowSeconds returns the rate limit time window as integer
func (c *Config) GetRateLimitTimeWindowSeconds() int {
	return atoiOr(c.RateLimitTimeWindowSeconds, 60)
}

// GetRateLimitBlockDurationMinutes returns the rate limit block duration as integer
func (c *Config) GetRateLimitBlockDurationMinutes() int {
	return atoiOr(c.RateLimitBlockDurationMinutes, 15)
}

// GetBlacklistCacheTTL returns how long a membership check result stays cached
func (c *Config) GetBlacklistCacheTTL() time.Duration {
	return time.Duration(atoiOr(c.BlacklistCacheTTLSeconds, 60)) * time.Second
}

// GetBlacklistSweepInterval returns the period of the expiry sweep
func (c *Config) GetBlacklistSweepInterval() time.Duration {
	return time.Duration(atoiOr(c.BlacklistSweepIntervalMinute, 60)) * time.Minute
}

// GetKafkaBrokers splits KAFKA_BROKERS into a broker list
func (c *Config) GetKafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// ServicePort extracts the port from a service URL such as http://localhost:8010
func ServicePort(serviceURL, fallback string) string {
	idx := strings.LastIndex(serviceURL, ":")
	if idx < 0 || idx == len(serviceURL)-1 {
		return fallback
	}
	port := strings.TrimRight(serviceURL[idx+1:], "/")
	if _, err := strconv.Atoi(port); err != nil {
		return fallback
	}
	return port
}
