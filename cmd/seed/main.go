package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"cloudphone-backend/livechat-service/repository"
	"cloudphone-backend/livechat-service/services"
	"cloudphone-backend/shared/config"
	"cloudphone-backend/shared/database"
	"cloudphone-backend/shared/events"
	"cloudphone-backend/shared/utils/cache"
)

func main() {
	file := flag.String("file", "", "JSON file with an array of entries, or {\"items\": [...]}")
	tenant := flag.String("tenant", "", "tenant to import into (default: BLACKLIST_DEFAULT_TENANT)")
	actor := flag.String("actor", "seed", "recorded as createdBy")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	log.Println("🌱 Starting blacklist seeding...")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	items, err := decodeEntries(f)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	var membershipCache services.Cache = cache.NewMemoryCache(nil)
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("⚠️ Redis unavailable, cached membership results will age out on their own: %v", err)
	} else {
		membershipCache = cache.GetCacheManager()
	}

	svc := services.NewBlacklistService(
		repository.NewBlacklistRepository(database.GetDB()),
		membershipCache,
		events.NewMultiPublisher(),
		services.WithDefaultTenant(cfg.BlacklistDefaultTenant),
		services.WithCacheTTL(cfg.GetBlacklistCacheTTL()),
	)

	result := svc.CreateBatch(context.Background(), items, *tenant, *actor)
	log.Printf("✅ Blacklist seeding completed: %d created, %d skipped", result.Created, result.Skipped)
}

// decodeEntries accepts a bare array or the batch endpoint body
func decodeEntries(r io.Reader) ([]services.CreateBlacklistInput, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var items []services.CreateBlacklistInput
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Items []services.CreateBlacklistInput `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("expected an array of entries or {\"items\": [...]}: %w", err)
	}
	return wrapped.Items, nil
}
