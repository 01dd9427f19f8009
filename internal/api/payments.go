package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"io"       // Raw body reading
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"github.com/bilalcs1781/cryptobackend/internal/domain"  // Domain models
	"github.com/bilalcs1781/cryptobackend/internal/payment" // Payment lifecycle
	"github.com/bilalcs1781/cryptobackend/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// PaymentManager is the slice of the lifecycle manager the handlers depend on
type PaymentManager interface {
	CreateIntent(ctx context.Context, userID uint, in payment.CreateIntentInput) (*payment.CreateIntentResult, error)
	Reconcile(ctx context.Context, payload []byte, sigHeader string) (bool, error)
	ListTransactions(ctx context.Context, userID uint, page, limit int) ([]domain.Transaction, int64, error)
}

// CreatePaymentIntentRequest is the body of POST /payments/create-intent
type CreatePaymentIntentRequest struct {
	Amount      int64             `json:"amount" binding:"required,gte=50"` // Amount in minor units, at or above the processor floor
	Currency    string            `json:"currency" binding:"required"`      // Currency code, e.g. usd
	Description string            `json:"description"`                      // Optional payment description
	Metadata    map[string]string `json:"metadata"`                         // Optional passthrough metadata
}

// CreatePaymentIntentHandler opens a payment intent and records it as a pending transaction
func CreatePaymentIntentHandler(m PaymentManager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreatePaymentIntentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Create the intent through the lifecycle manager
		res, err := m.CreateIntent(c.Request.Context(), userID.(uint), payment.CreateIntentInput{
			Amount:      req.Amount,      // Amount in minor units
			Currency:    req.Currency,    // Currency code
			Description: req.Description, // Passthrough description
			Metadata:    req.Metadata,    // Passthrough metadata
		})
		if err != nil {
			switch {
			case errors.Is(err, payment.ErrGatewayUnavailable):
				// Operator-recoverable configuration problem
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway is not configured"})
			case errors.Is(err, payment.ErrGatewayRejected):
				// Processor declined the request
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				// Store failure or duplicate intent: programming/race bug
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent"})
			}
			return
		}
		// Log successful intent creation
		logrus.WithFields(logrus.Fields{
			"user_id":           userID,                          // User ID
			"payment_intent_id": res.PaymentIntentID,             // Processor intent ID
			"amount":            req.Amount,                      // Amount in minor units
			"currency":          req.Currency,                    // Currency code
			"timestamp":         time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Payment intent created") // Log intent creation
		// Invalidate transaction history cache for the user
		if rdb != nil {
			ctx := context.Background()                                   // Context for Redis operations
			prefix := "payments:user:" + strconv.Itoa(int(userID.(uint))) // Transaction history prefix
			// Invalidate paginated cache (simple version: delete first 5 pages)
			for i := 1; i <= 5; i++ {
				_ = utils.DeleteCache(ctx, rdb, prefix+":page:"+strconv.Itoa(i)+":limit:10")
			}
		}
		// Return the client-side completion token and record ids
		c.JSON(http.StatusCreated, res)
	}
}

// WebhookHandler receives processor webhook deliveries. The request body is
// read raw and handed to the lifecycle manager untouched: signature
// verification is byte-exact, so the body must never be parsed or
// re-serialized before it is verified.
func WebhookHandler(m PaymentManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body) // Read the raw body bytes
		if err != nil {
			// If reading fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}
		sigHeader := c.GetHeader("Stripe-Signature") // Processor signature header
		// Reconcile the event against the transaction store
		if _, err := m.Reconcile(c.Request.Context(), payload, sigHeader); err != nil {
			switch {
			case errors.Is(err, payment.ErrGatewayUnavailable):
				// Webhook secret not configured
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Webhook secret is not configured"})
			case errors.Is(err, payment.ErrInvalidSignature):
				// Signature mismatch: reject so the processor does not mark
				// the delivery successful
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
			default:
				// Post-verification failure: non-2xx so the processor retries
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
			}
			return
		}
		// Acknowledge the delivery
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// GetTransactionsHandler returns the authenticated user's payment history
func GetTransactionsHandler(m PaymentManager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page := 1   // Default page
		limit := 10 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If limit exists in query
		if l := c.Query("limit"); l != "" {
			// Convert limit to integer
			if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
				limit = v // Set limit if valid
			}
		}
		ctx := context.Background() // Context for Redis operations
		// Redis cache key
		cacheKey := "payments:user:" + strconv.Itoa(int(userID.(uint))) + ":page:" + strconv.Itoa(page) + ":limit:" + strconv.Itoa(limit)
		var cached struct {
			Data  []domain.Transaction `json:"data"`  // List of transactions
			Page  int                  `json:"page"`  // Current page
			Limit int                  `json:"limit"` // Page size
			Total int64                `json:"total"` // Total transactions
		}
		// Try to get from cache
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			// If found in cache, return it
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"data":   cached.Data,  // Cached transactions
					"page":   cached.Page,  // Current page
					"limit":  cached.Limit, // Page size
					"total":  cached.Total, // Total transactions
					"cached": true,         // From cache
				})
				return
			}
		}
		// Fetch the page from the store
		txs, total, err := m.ListTransactions(c.Request.Context(), userID.(uint), page, limit)
		if err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		if txs == nil {
			txs = []domain.Transaction{} // Empty page, not null
		}
		resp := gin.H{
			"data":   txs,   // List of transactions
			"page":   page,  // Current page
			"limit":  limit, // Page size
			"total":  total, // Total transactions
			"cached": false, // Not from cache
		}
		// Cache the result for 60 seconds
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.DefaultTTL)
		}
		c.JSON(http.StatusOK, resp) // Return transaction history
	}
}
