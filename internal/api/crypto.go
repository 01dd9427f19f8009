package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/bilalcs1781/cryptobackend/internal/clients" // External API clients
	"github.com/bilalcs1781/cryptobackend/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// PriceClient is the slice of the price API client the handlers depend on
type PriceClient interface {
	GetPrice(ctx context.Context, coinID, currency string) (*clients.PriceData, error)
	GetPrices(ctx context.Context, coinIDs []string, currency string) ([]clients.PriceData, error)
}

// GetPriceHandler proxies a single-coin price lookup with caching
func GetPriceHandler(pc PriceClient, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		coinID := c.Param("coinId")                                    // Coin id from the path
		currency := strings.ToLower(c.DefaultQuery("currency", "usd")) // Quote currency
		ctx := context.Background()                                    // Context for Redis operations
		cacheKey := "crypto:price:" + coinID + ":" + currency          // Cache key for the quote
		var cached clients.PriceData                                   // Cached quote
		// Try to get from cache
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			// If found in cache, return it
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{"price": cached, "cached": true})
				return
			}
		}
		// Fetch from the price API
		price, err := pc.GetPrice(c.Request.Context(), coinID, currency)
		if err != nil {
			// Unknown coin maps to not found
			if errors.Is(err, clients.ErrCoinNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Coin with id \"" + coinID + "\" not found"})
				return
			}
			// Upstream failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch crypto price"})
			return
		}
		// Cache the quote for 60 seconds
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, price, utils.DefaultTTL)
		}
		c.JSON(http.StatusOK, gin.H{"price": price, "cached": false}) // Return the quote
	}
}

// GetPricesHandler proxies a multi-coin price lookup with caching
func GetPricesHandler(pc PriceClient, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := c.Query("ids") // Comma-separated coin ids
		if ids == "" {
			// Coin ids must be provided
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter ids is required"})
			return
		}
		currency := strings.ToLower(c.DefaultQuery("currency", "usd")) // Quote currency
		coinIDs := strings.Split(ids, ",")                             // Parse the id list
		ctx := context.Background()                                    // Context for Redis operations
		cacheKey := "crypto:prices:" + ids + ":" + currency            // Cache key for the quotes
		var cached []clients.PriceData                                 // Cached quotes
		// Try to get from cache
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			// If found in cache, return it
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{"prices": cached, "cached": true})
				return
			}
		}
		// Fetch from the price API
		prices, err := pc.GetPrices(c.Request.Context(), coinIDs, currency)
		if err != nil {
			// Upstream failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch crypto prices"})
			return
		}
		// Cache the quotes for 60 seconds
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, prices, utils.DefaultTTL)
		}
		c.JSON(http.StatusOK, gin.H{"prices": prices, "cached": false}) // Return the quotes
	}
}
