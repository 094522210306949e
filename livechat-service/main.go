package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "cloudphone-backend/docs"
	"cloudphone-backend/livechat-service/handlers"
	"cloudphone-backend/livechat-service/middleware"
	"cloudphone-backend/livechat-service/repository"
	"cloudphone-backend/livechat-service/services"
	"cloudphone-backend/shared/config"
	"cloudphone-backend/shared/database"
	"cloudphone-backend/shared/events"
	"cloudphone-backend/shared/utils/cache"
)

// @title Livechat Service API
// @version 1.0
// @description Visitor blacklist management for the live chat widget
// @host localhost:8010
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// keyValueStore is what the registry and the sweep lock need from a cache
type keyValueStore interface {
	services.Cache
	services.Locker
}

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()
	logger := newLogger(cfg.LogLevel)

	repo := newRepository(cfg)
	defer database.CloseDatabase()

	store := newCache(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Admin console push channel
	hub := services.NewEventHub(cfg.FrontendURL)
	go hub.Run(ctx)

	publisher, closePublisher := newPublisher(cfg, logger, hub)
	defer closePublisher()

	blacklistService := services.NewBlacklistService(repo, store, publisher,
		services.WithCacheTTL(cfg.GetBlacklistCacheTTL()),
		services.WithTopic(cfg.KafkaBlacklistTopic),
		services.WithDefaultTenant(cfg.BlacklistDefaultTenant),
		services.WithLogger(logger),
	)

	schedulerOpts := []services.SchedulerOption{services.WithSchedulerLogger(logger)}
	if cfg.BlacklistSweepLockEnabled {
		schedulerOpts = append(schedulerOpts, services.WithSweepLock(store))
	}
	scheduler := services.NewExpiryScheduler(blacklistService, cfg.GetBlacklistSweepInterval(), schedulerOpts...)
	scheduler.Start(ctx)

	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "livechat-service",
			"status":  "healthy",
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.BlacklistDefaultTenant))
	if cfg.BlacklistGuardEnabled {
		api.Use(middleware.BlacklistGuard(blacklistService, logger))
		log.Println("🛡️ Blacklist guard enabled on /api")
	}
	handlers.NewBlacklistHandler(blacklistService).RegisterRoutes(api)

	// WebSocket endpoint
	wsHandler := handlers.NewWebSocketHandler(hub)
	router.GET("/ws/livechat/blacklist",
		middleware.AuthMiddleware(cfg.BlacklistDefaultTenant),
		wsHandler.HandleWebSocket)

	port := config.ServicePort(cfg.LivechatServiceURL, "8010")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("💬 Livechat Service starting on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down Livechat Service...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Livechat Service stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})).
		With("service", "livechat-service")
}

func newRepository(cfg *config.Config) services.BlacklistRepository {
	if cfg.StoreDriver == "memory" {
		log.Println("⚠️ Using in-memory blacklist store, data is lost on restart")
		return repository.NewMemoryBlacklistRepository(nil)
	}

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return repository.NewBlacklistRepository(database.GetDB())
}

func newCache(cfg *config.Config) keyValueStore {
	if cfg.StoreDriver == "memory" {
		return cache.NewMemoryCache(nil)
	}

	if err := cache.InitCacheManager(); err != nil {
		log.Printf("⚠️ Redis unavailable, falling back to in-process cache: %v", err)
		return cache.NewMemoryCache(nil)
	}
	return cache.GetCacheManager()
}

func newPublisher(cfg *config.Config, logger *slog.Logger, hub *services.EventHub) (events.Publisher, func()) {
	publishers := []events.Publisher{hub}
	closeFn := func() {}

	switch cfg.EventBusDriver {
	case "kafka":
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.GetKafkaBrokers())
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
		log.Printf("✅ Kafka publisher ready - topic %s", cfg.KafkaBlacklistTopic)
		publishers = append(publishers, kafkaPublisher)
		closeFn = func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Printf("❌ Failed to close Kafka publisher: %v", err)
			}
		}
	default:
		publishers = append(publishers, events.NewLoggingPublisher(logger))
	}

	return events.NewMultiPublisher(publishers...), closeFn
}
