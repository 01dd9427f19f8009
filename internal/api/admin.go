package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation

	"github.com/bilalcs1781/cryptobackend/internal/domain" // Importing domain models
	"github.com/bilalcs1781/cryptobackend/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// ListUsersHandler returns all users with pagination (admin only)
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":limit=" + c.DefaultQuery("limit", "10")
		var cached struct {
			Data  []domain.User `json:"data"`  // List of users
			Page  int           `json:"page"`  // Current page
			Limit int           `json:"limit"` // Page size
			Total int64         `json:"total"` // Total number of users
		}
		// If cached data found, return it
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"data":   cached.Data,  // List of users
					"page":   cached.Page,  // Current page
					"limit":  cached.Limit, // Page size
					"total":  cached.Total, // Total number of users
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
		var total int64              // Total user count
		// Fetch total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		// Apply offset and limit for pagination
		if err := db.Offset(offset).Limit(limit).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		// Prepare final response data
		respData := gin.H{
			"data":   users, // List of users
			"page":   page,  // Current page
			"limit":  limit, // Page size
			"total":  total, // Total number of users
			"cached": false, // Indicate response is not from cache
		}
		// Cache the response for future requests
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, respData, utils.DefaultTTL)
		}
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// GetUserHandler returns a single user by id (admin only)
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user domain.User // Fetch user from database
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user}) // Return the user
	}
}

// UpdateUserRequest is the body of PATCH /admin/users/:id
type UpdateUserRequest struct {
	Name    *string `json:"name"`    // Optional new display name
	Age     *int    `json:"age"`     // Optional new age
	Address *string `json:"address"` // Optional new address
	Role    *string `json:"role"`    // Optional new role: user or admin
}

// UpdateUserHandler partially updates a user (admin only)
func UpdateUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		updates := map[string]any{} // Collect the provided fields
		if req.Name != nil {
			updates["name"] = *req.Name // New display name
		}
		if req.Age != nil {
			updates["age"] = *req.Age // New age
		}
		if req.Address != nil {
			updates["address"] = *req.Address // New address
		}
		if req.Role != nil {
			// Only the two known roles are accepted
			if *req.Role != "user" && *req.Role != "admin" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be user or admin"})
				return
			}
			updates["role"] = *req.Role // New role
		}
		// Apply the update if any field was provided
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		}
		// Invalidate the users listing cache
		if rdb != nil {
			invalidateAdminUsersCache(rdb)
		}
		c.JSON(http.StatusOK, gin.H{"user": user}) // Return the updated user
	}
}

// DeleteUserHandler deletes a user by id (admin only)
func DeleteUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user domain.User // Fetch user from database
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Delete the user record
		if err := db.Delete(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		// Invalidate the users listing cache
		if rdb != nil {
			invalidateAdminUsersCache(rdb)
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"}) // Return success
	}
}

// invalidateAdminUsersCache drops cached admin user listings (simple
// version: delete the first 5 pages at the default page size)
func invalidateAdminUsersCache(rdb *redis.Client) {
	ctx := context.Background() // Context for Redis operations
	for i := 1; i <= 5; i++ {
		_ = utils.DeleteCache(ctx, rdb, "admin:users:page="+strconv.Itoa(i)+":limit=10")
	}
}

// ListTransactionsHandler returns all payment transactions, with optional
// filtering by user, status, or date (admin only)
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		// Build cache key from all query params
		var keyParts []string // Parts of the cache key
		// Append each query parameter to the key parts
		for _, k := range []string{"user_id", "status", "from", "to", "page", "limit"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, "")) // Append key-value pair
		}
		// Join key parts to form the final cache key
		cacheKey := "admin:txs:" + strings.Join(keyParts, ":")
		var cached struct {
			Data  []domain.Transaction `json:"data"`  // List of transactions
			Page  int                  `json:"page"`  // Current page
			Limit int                  `json:"limit"` // Page size
			Total int64                `json:"total"` // Total number of transactions
		}
		// If cached data found, return it
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"data":   cached.Data,  // List of transactions
					"page":   cached.Page,  // Current page
					"limit":  cached.Limit, // Page size
					"total":  cached.Total, // Total number of transactions
					"cached": true,         // Indicate response is from cache
				})
				return
			}
		}
		page := 1   // Default page number
		limit := 10 // Default page size
		// Check and set page number and size from query params
		if p := c.Query("page"); p != "" {
			// If valid, set page number
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
		offset := (page - 1) * limit             // Calculate offset for pagination
		query := db.Model(&domain.Transaction{}) // Start building the query
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by user ID
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by transaction status
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("created_at >= ?", from) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("created_at <= ?", to) // Filter by end date
		}
		var total int64 // Total transaction count
		// Get total count of transactions matching the filters
		if err := query.Count(&total).Error; err != nil {
			// If error occurs, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var txs []domain.Transaction // Slice to hold transactions
		// Fetch paginated transactions with filters applied
		if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
			// If error occurs, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		respData := gin.H{
			"data":   txs,   // List of transactions
			"page":   page,  // Current page
			"limit":  limit, // Page size
			"total":  total, // Total number of transactions
			"cached": false, // Indicate response is not from cache
		}
		// Cache the response for future requests
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, respData, utils.DefaultTTL)
		}
		c.JSON(http.StatusOK, respData) // Return the response
	}
}
