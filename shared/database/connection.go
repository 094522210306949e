package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cloudphone-backend/shared/config"
	"cloudphone-backend/shared/database/models/livechat"
)

var DB *gorm.DB

// activeEntryUniqueIndex keeps at most one active entry per (tenant, kind, value)
const activeEntryUniqueIndex = `CREATE UNIQUE INDEX IF NOT EXISTS uniq_blacklist_active_key
	ON blacklist_entries (tenant_id, kind, value) WHERE state = 'active'`

// getLogLevel returns appropriate log level based on environment
func getLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.DBHost == "localhost" || cfg.DBHost == "127.0.0.1" {
		return logger.Warn
	}
	return logger.Error
}

// DSN builds the postgres connection string from configuration
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	)
}

// InitDatabase initializes the database connection and runs migrations
func InitDatabase() error {
	cfg := config.GetConfig()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(getLogLevel(cfg)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	}

	var err error
	DB, err = gorm.Open(postgres.Open(DSN(cfg)), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established successfully")

	if err := runMigrations(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// runMigrations runs all database migrations
func runMigrations() error {
	log.Println("🔄 Checking database schema...")

	modelsToMigrate := []interface{}{
		&livechat.BlacklistEntry{},
	}

	migrator := DB.Migrator()
	migratedCount := 0
	for _, model := range modelsToMigrate {
		if !migrator.HasTable(model) {
			log.Printf("📦 Creating table: %T", model)
			migratedCount++
		}

		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	if err := DB.Exec(activeEntryUniqueIndex).Error; err != nil {
		return fmt.Errorf("failed to create active entry index: %w", err)
	}

	if migratedCount > 0 {
		log.Printf("✅ Database migrations completed (%d tables created/updated)", migratedCount)
	} else {
		log.Println("✅ Database schema is up to date")
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
