package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"github.com/bilalcs1781/cryptobackend/internal/api"        // Custom package for API handlers
	"github.com/bilalcs1781/cryptobackend/internal/clients"    // External API clients
	"github.com/bilalcs1781/cryptobackend/internal/config"     // Custom package for configuration
	"github.com/bilalcs1781/cryptobackend/internal/db"         // Custom package for database setup
	"github.com/bilalcs1781/cryptobackend/internal/middleware" // Custom package for middleware
	"github.com/bilalcs1781/cryptobackend/internal/payment"    // Payment lifecycle

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Create the bootstrap admin account when configured
	if err := db.EnsureAdmin(gdb, cfg); err != nil {
		logrus.Fatalf("failed to ensure admin user: %v", err)
	}

	// Explicit composition of the payment lifecycle: the manager holds a
	// gateway and a store, both chosen here at process start. Missing Stripe
	// credentials leave the gateway unconfigured and the payment endpoints
	// degrade to 503 instead of crashing the process.
	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	store := payment.NewGormStore(gdb)
	manager := payment.NewManager(gateway, store)

	// Price API client
	prices := clients.NewCoinGeckoClient(cfg.CoinGeckoBaseURL)

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
	r.POST("/auth/signup", api.SignupHandler(gdb, cfg.JWTSecret)) // Registration endpoint
	r.POST("/auth/login", api.LoginHandler(gdb, cfg.JWTSecret))   // Login endpoint

	// Payment routes
	payments := r.Group("/payments")
	// Webhook endpoint: no bearer token, trust derives solely from the
	// processor signature over the raw body
	payments.POST("/webhook", api.WebhookHandler(manager))
	// Authenticated payment endpoints
	paymentsAuth := payments.Group("")
	paymentsAuth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	paymentsAuth.POST("/create-intent", api.CreatePaymentIntentHandler(manager, redisClient)) // Create payment intent endpoint
	paymentsAuth.GET("/transactions", api.GetTransactionsHandler(manager, redisClient))       // Transaction history endpoint

	// Crypto price routes (protected by JWT)
	crypto := r.Group("/crypto")
	crypto.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	crypto.GET("/price/:coinId", api.GetPriceHandler(prices, redisClient)) // Single price endpoint
	crypto.GET("/prices", api.GetPricesHandler(prices, redisClient))       // Multi price endpoint

	// Wallet routes (protected by JWT)
	wallet := r.Group("/wallet")
	wallet.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	wallet.POST("/connect", api.ConnectWalletHandler(gdb)) // Connect wallet endpoint
	wallet.GET("", api.GetUserWalletsHandler(gdb))         // List own wallets endpoint

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(gdb))
	admin.GET("/users", api.ListUsersHandler(gdb, redisClient))               // List users endpoint
	admin.GET("/users/:id", api.GetUserHandler(gdb))                          // Get user endpoint
	admin.PATCH("/users/:id", api.UpdateUserHandler(gdb, redisClient))        // Update user endpoint
	admin.DELETE("/users/:id", api.DeleteUserHandler(gdb, redisClient))       // Delete user endpoint
	admin.GET("/wallets", api.ListWalletsHandler(gdb, redisClient))           // List wallets endpoint
	admin.GET("/transactions", api.ListTransactionsHandler(gdb, redisClient)) // List transactions endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
