package main

import (
	"log"
	"net/http"
	"time"

	"cloudphone-backend/api-gateway/middleware"
	"cloudphone-backend/api-gateway/routes"
	"cloudphone-backend/shared/config"

	_ "cloudphone-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title CloudPhone Livechat API
// @version 1.0
// @description Public entry point of the CloudPhone backend
// @termsOfService http://swagger.io/terms/

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @tag.name blacklist
// @tag.description Live chat visitor blacklist

// @tag.name websocket
// @tag.description Real-time admin console events

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize global rate limiter
	rateLimiter := middleware.NewRateLimiter(5 * time.Minute) // Cleanup every 5 minutes
	defer rateLimiter.Stop()

	// Global rate limit configuration from environment variables
	globalRateConfig := middleware.NewRateLimitConfig()

	router := gin.Default()

	// Add CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization", middleware.HeaderRequestID, "X-Device-ID", "X-Device-Fingerprint")
	corsConfig.AddExposeHeaders(middleware.HeaderRequestID)
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestIDMiddleware())

	// Global rate limiter middleware
	router.Use(rateLimiter.GlobalRateLimitMiddleware(globalRateConfig))

	// Health check endpoint
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "API Gateway is running"})
	})

	// Livechat service routes
	router.Any("/api/livechat/*path", routes.ProxyToService("livechat"))

	// WebSocket routes
	router.GET("/ws/livechat/*path", routes.ProxyToService("livechat"))

	// Swagger documentation UI only in debug mode
	router.GET("/swagger/*any", func(c *gin.Context) {
		if gin.Mode() == gin.DebugMode {
			ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
		} else {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Swagger documentation not available in production",
			})
		}
	})

	// Server Start
	port := config.ServicePort(cfg.APIGatewayURL, "8000")
	log.Printf("API Gateway is running on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
