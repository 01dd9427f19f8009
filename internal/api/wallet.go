package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"github.com/bilalcs1781/cryptobackend/internal/domain" // Importing domain models
	"github.com/bilalcs1781/cryptobackend/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/sirupsen/logrus" // Logging library
)

// ConnectWalletRequest is the body of POST /wallet/connect
type ConnectWalletRequest struct {
	Address string `json:"address" binding:"required"` // External wallet address
}

// ConnectWalletHandler binds an external wallet address to the authenticated user
func ConnectWalletHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ConnectWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		address := strings.ToLower(req.Address) // Normalize address to lowercase
		var existing domain.Wallet              // Check for an existing binding
		err := db.Where("address = ?", address).First(&existing).Error
		if err == nil {
			// Address already bound; re-connecting your own wallet is a no-op
			if existing.UserID == userID.(uint) {
				c.JSON(http.StatusOK, gin.H{"wallet": existing})
				return
			}
			// Bound to another user: conflict
			c.JSON(http.StatusConflict, gin.H{"error": "This wallet address is already connected to another user"})
			return
		}
		// Create the new wallet connection
		wallet := domain.Wallet{
			UserID:   userID.(uint), // Owning user
			Address:  address,       // Normalized address
			IsActive: true,          // Active by default
		}
		if err := db.Create(&wallet).Error; err != nil {
			// If creation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to connect wallet"})
			return
		}
		// Log successful wallet connection
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,                          // User ID
			"wallet_id": wallet.ID,                       // Wallet ID
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Wallet connected") // Log wallet connection
		// Return the new wallet connection
		c.JSON(http.StatusCreated, gin.H{"wallet": wallet})
	}
}

// GetUserWalletsHandler returns the authenticated user's connected wallets
func GetUserWalletsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var wallets []domain.Wallet // Slice to hold wallets
		// Fetch wallets newest-first
		if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&wallets).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallets"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallets": wallets}) // Return wallet list
	}
}

// ListWalletsHandler returns all wallet connections (admin only)
func ListWalletsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := "admin:wallets:page=" + c.DefaultQuery("page", "1") + ":limit=" + c.DefaultQuery("limit", "10")
		var cached struct {
			Data  []domain.Wallet `json:"data"`  // List of wallets
			Page  int             `json:"page"`  // Current page
			Limit int             `json:"limit"` // Page size
			Total int64           `json:"total"` // Total number of wallets
		}
		// If cached data found, return it
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"data":   cached.Data,  // List of wallets
					"page":   cached.Page,  // Current page
					"limit":  cached.Limit, // Page size
					"total":  cached.Total, // Total number of wallets
					"cached": true,         // Indicate response is from cache
				})
				return
			}
		}
		page := 1   // Default page number
		limit := 10 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if l := c.Query("limit"); l != "" {
			// If valid, set page size
			if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
				limit = v // Set page size
			}
		}
		offset := (page - 1) * limit // Calculate offset for pagination
		var total int64              // Total wallet count
		// Fetch total wallet count
		if err := db.Model(&domain.Wallet{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count wallets"}) // Return on error
			return
		}
		var wallets []domain.Wallet // Slice to hold wallets
		// Fetch paginated wallets newest-first
		if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&wallets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallets"}) // Return on error
			return
		}
		respData := gin.H{
			"data":   wallets, // List of wallets
			"page":   page,    // Current page
			"limit":  limit,   // Page size
			"total":  total,   // Total number of wallets
			"cached": false,   // Indicate response is not from cache
		}
		// Cache the response for future requests
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, respData, utils.DefaultTTL)
		}
		c.JSON(http.StatusOK, respData) // Return the response
	}
}
