package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockroom/internal/admin"
	"stockroom/internal/audit"
	"stockroom/internal/auth"
	"stockroom/internal/cascade"
	"stockroom/internal/category"
	"stockroom/internal/item"
	"stockroom/internal/location"
	"stockroom/internal/media"
	"stockroom/internal/reorder"
	"stockroom/internal/stock"
	"stockroom/pkg/database"
	"stockroom/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ No .env file found, using environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Database migration failed: %v", err)
	}
	log.Printf("✅ Database migrations complete")

	// Redis is optional; caching and rate limits degrade gracefully
	var redisClient *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("⚠️ Redis unavailable, continuing without cache: %v", err)
			redisClient = nil
		} else {
			log.Printf("✅ Connected to Redis at %s", addr)
		}
	} else {
		log.Printf("⚠️ REDIS_ADDR not set, running without Redis")
	}

	// R2 storage is optional; image endpoints report errors when missing
	var mediaService *media.Service
	r2, err := media.NewR2Client(context.Background())
	if err != nil {
		log.Printf("⚠️ R2 storage unavailable, image uploads disabled: %v", err)
	} else {
		mediaService = media.NewService(r2)
		log.Printf("✅ R2 storage connected")
	}

	auditSink := audit.NewSink(db)
	authService := auth.NewService(db, jwtSecret)
	locationService := location.NewService(db)
	itemService := item.NewService(db)
	categoryService := category.NewService(db, auditSink)
	coordinator := cascade.NewCoordinator(db, auditSink)
	adminService := admin.NewService(db, auditSink)
	reorderService := reorder.NewService(db, itemService, locationService)
	stockService := stock.NewService(db, redisClient)

	authHandler := auth.NewHandler(authService)
	locationHandler := location.NewHandler(locationService)
	itemHandler := item.NewHandler(itemService)
	categoryHandler := category.NewHandler(categoryService)
	cascadeHandler := cascade.NewHandler(coordinator)
	adminHandler := admin.NewHandler(adminService, auditSink)
	reorderHandler := reorder.NewHandler(reorderService)
	stockHandler := stock.NewHandler(stockService)

	scheduler := stock.NewScheduler(stockService)
	scheduler.Start()

	if getEnv("GIN_MODE", "") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")

	// Public auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(authService))
	{
		protected.GET("/auth/me", authHandler.Me)

		locations := protected.Group("/locations")
		{
			locations.GET("", locationHandler.List)
			locations.POST("", locationHandler.Create)
			locations.GET("/tree", locationHandler.GetTree)
			locations.PUT("/:id", locationHandler.Update)
			locations.GET("/:id/children", locationHandler.Children)
			locations.GET("/:id/candidate-parents", locationHandler.CandidateParents)
			locations.GET("/:id/cascade-preview", middleware.RequireAdmin(), cascadeHandler.Preview)
			locations.POST("/:id/cascade-delete", middleware.RequireAdmin(), cascadeHandler.Delete)
		}

		items := protected.Group("/items")
		{
			items.GET("", itemHandler.List)
			items.POST("", itemHandler.Create)
			items.GET("/:id", itemHandler.Get)
			items.PUT("/:id", itemHandler.Update)
			items.DELETE("/:id", middleware.RequireAdmin(), cascadeHandler.DeleteItem)
			items.POST("/:id/quantity", itemHandler.AdjustQuantity)
			items.GET("/:id/availability", itemHandler.Availability)
			items.POST("/:id/checkout", itemHandler.Checkout)
			items.POST("/:id/checkin", itemHandler.Checkin)
		}

		categories := protected.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", middleware.RequireAdmin(), categoryHandler.Delete)
		}

		reorders := protected.Group("/reorders")
		{
			reorders.GET("", reorderHandler.List)
			reorders.POST("", reorderHandler.Create)
			reorders.PUT("/:id", reorderHandler.Update)
			reorders.POST("/:id/status", reorderHandler.UpdateStatus)
			reorders.POST("/:id/fulfill", reorderHandler.Fulfill)
		}

		protected.GET("/dashboard/low-stock", stockHandler.LowStock)

		if mediaService != nil {
			mediaHandler := media.NewHandler(mediaService, db)
			protected.POST("/items/:id/image", mediaHandler.UploadItemImage)
			protected.POST("/locations/:id/image", mediaHandler.UploadLocationImage)
			protected.GET("/media/*key", mediaHandler.GetImage)
		}

		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.RequireAdmin())
		adminGroup.Use(middleware.NewAdminRateLimiter(redisClient).Limit())
		{
			adminGroup.GET("/deleted", adminHandler.ListDeleted)
			adminGroup.POST("/restore/:type/:id", adminHandler.Restore)
			adminGroup.GET("/audit-logs", adminHandler.AuditLogs)
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.PUT("/users/:id/role", adminHandler.ChangeRole)
			adminGroup.DELETE("/users/:id", adminHandler.DeactivateUser)
		}
	}

	srv := &http.Server{
		Addr:    ":" + getEnv("PORT", "8080"),
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Stockroom server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("🛑 Shutting down...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Forced shutdown: %v", err)
	}

	log.Printf("✅ Server stopped")
}
