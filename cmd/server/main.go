package main

import (
	"context"   // Run context and shutdown deadline
	"net/http"  // HTTP server
	"os/signal" // Graceful shutdown on interrupt
	"syscall"   // SIGTERM
	"time"      // Shutdown deadline

	"realestate_system/internal/analytics"   // Market statistics
	"realestate_system/internal/api"         // API handlers
	"realestate_system/internal/config"      // Configuration
	"realestate_system/internal/middleware"  // Middleware
	"realestate_system/internal/notify"      // Notification dispatch
	"realestate_system/internal/property"    // Property directory
	"realestate_system/internal/transaction" // Transaction pipeline
	"realestate_system/internal/user"        // User directory

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Redis client for list caching when an address is configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Run context, cancelled on interrupt or termination
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Construct the services once and inject them everywhere
	properties := property.NewService()      // Property directory
	users := user.NewService(cfg.JWTSecret)  // User directory
	dispatcher := notify.NewDispatcher(64)   // Notification dispatch
	dispatcher.Subscribe(notify.EventTransactionUpdate, notify.LogObserver{})
	dispatcher.Subscribe(notify.EventPropertySold, notify.LogObserver{})
	dispatcher.Start(ctx)

	// Transaction pipeline with its collaborators injected
	txService := transaction.NewService(properties, users, dispatcher, transaction.Config{
		WorkerCount:    cfg.WorkerCount,    // Worker pool size
		QueueCapacity:  cfg.QueueCapacity,  // Submission queue capacity
		CommissionRate: cfg.CommissionRate, // Commission rate
	})
	txService.Start(ctx)

	reporter := analytics.NewReporter(txService, properties) // Market statistics

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/user", api.RegisterHandler(users))  // Registration endpoint
	r.GET("/user", api.LoginHandler(users))      // Login endpoint

	// Authenticated routes (protected by JWT)
	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	auth.POST("/logout", api.LogoutHandler(users)) // Logout endpoint

	// Property routes
	auth.GET("/properties/:id", api.GetPropertyHandler(properties))                        // Get listing endpoint
	auth.GET("/properties", api.SearchPropertiesHandler(properties))                       // Search endpoint
	auth.GET("/properties/:id/transactions", api.ListPropertyTransactionsHandler(txService)) // Per-property history

	// Transaction routes
	auth.POST("/transactions", api.InitiateTransactionHandler(txService, redisClient))     // Submit endpoint
	auth.POST("/transactions/:id/cancel", api.CancelTransactionHandler(txService, redisClient)) // Cancel endpoint
	auth.GET("/transactions/:id", api.GetTransactionHandler(txService))                    // Snapshot endpoint
	auth.GET("/transactions/:id/status", api.GetTransactionStatusHandler(txService))       // Status endpoint
	auth.GET("/transactions", api.ListUserTransactionsHandler(txService, redisClient))     // Own history endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(users))
	adminGroup.POST("/properties", api.AddPropertyHandler(properties))                       // List property endpoint
	adminGroup.GET("/transactions", api.ListAllTransactionsHandler(txService, redisClient)) // All transactions endpoint
	adminGroup.GET("/stats", api.MarketStatsHandler(reporter, redisClient))                 // Market stats endpoint

	// Serve until the run context is cancelled
	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done() // Wait for interrupt or termination

	// Drain HTTP first, then the pipeline, then notifications
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
	txService.Stop()
	dispatcher.Stop()
	logrus.Info("Shutdown complete")
}
