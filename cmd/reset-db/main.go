package main

import (
	"context"
	"log"

	"cloudphone-backend/shared/config"
	"cloudphone-backend/shared/database"
	"cloudphone-backend/shared/utils/cache"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	log.Println("🗑️ Starting database reset...")

	config.LoadConfig()
	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(database.DSN(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}

	tables := []string{
		"blacklist_entries",
	}

	log.Println("🗑️ Dropping tables...")

	for _, table := range tables {
		log.Printf("   Dropping table: %s", table)
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE;").Error; err != nil {
			log.Printf("❌ Failed to drop %s: %v", table, err)
		}
	}

	// cached results refer to the dropped rows
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("⚠️ Redis unavailable, skipping cache flush: %v", err)
	} else {
		cm := cache.GetCacheManager()
		removed, err := cm.InvalidateByPattern(context.Background(), cache.BlacklistKeyPrefix+"*")
		if err != nil {
			log.Printf("❌ Failed to flush blacklist cache: %v", err)
		} else {
			log.Printf("   Flushed %d cached blacklist keys", removed)
		}
		cm.Close()
	}

	log.Println("✅ Database reset completed - all tables dropped!")
	log.Println("💡 Start livechat-service to recreate the schema")
}
