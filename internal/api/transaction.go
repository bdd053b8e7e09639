package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"realestate_system/internal/domain"      // Domain models
	"realestate_system/internal/transaction" // Transaction service
	"realestate_system/internal/utils"       // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact monetary arithmetic
)

// listCacheTTL bounds staleness of cached transaction lists
const listCacheTTL = 60 * time.Second

// InitiateTransactionRequest represents a sale submission
type InitiateTransactionRequest struct {
	PropertyID string          `json:"property_id" binding:"required"` // Property being sold
	BuyerID    string          `json:"buyer_id" binding:"required"`    // Buying user
	SellerID   string          `json:"seller_id" binding:"required"`   // Selling user
	Amount     decimal.Decimal `json:"amount" binding:"required"`      // Agreed sale amount
}

// InitiateTransactionHandler validates and admits a sale into the pipeline
func InitiateTransactionHandler(svc *transaction.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, exists := c.Get("sessionToken") // Set by the JWT middleware
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req InitiateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Submit; the service validates token, directories and amount
		id, err := svc.Initiate(req.PropertyID, req.BuyerID, req.SellerID, req.Amount, token.(string))
		if err != nil {
			respondError(c, err) // Map kind to status
			return
		}
		// Invalidate cached lists for both parties
		utils.InvalidateTransactionCaches(context.Background(), rdb, req.BuyerID, req.SellerID)
		// The id is queryable immediately, status PENDING
		c.JSON(http.StatusAccepted, gin.H{"transaction_id": id, "status": domain.StatusPending})
	}
}

// CancelTransactionHandler cancels a still-pending transaction
func CancelTransactionHandler(svc *transaction.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, exists := c.Get("sessionToken") // Set by the JWT middleware
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id := c.Param("id") // Transaction id from the path
		if err := svc.Cancel(id, token.(string)); err != nil {
			respondError(c, err) // NotFound or InvalidState (already claimed/terminal)
			return
		}
		// Invalidate the parties' cached lists; the snapshot has the ids
		if tx, err := svc.GetTransaction(id); err == nil {
			utils.InvalidateTransactionCaches(context.Background(), rdb, tx.BuyerID, tx.SellerID)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Transaction cancelled"})
	}
}

// GetTransactionHandler returns a snapshot of a transaction.
// Never cached: status must reflect the latest committed transition.
func GetTransactionHandler(svc *transaction.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx, err := svc.GetTransaction(c.Param("id")) // Look up by path id
		if err != nil {
			respondError(c, err) // Not found
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": tx}) // Return the snapshot
	}
}

// GetTransactionStatusHandler returns just the current status
func GetTransactionStatusHandler(svc *transaction.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := svc.GetStatus(c.Param("id")) // Look up by path id
		if err != nil {
			respondError(c, err) // Not found
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": status}) // Return the status
	}
}

// ListUserTransactionsHandler returns the authenticated user's transactions,
// as buyer or seller, cached briefly in Redis
func ListUserTransactionsHandler(svc *transaction.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                               // Context for Redis operations
		cacheKey := utils.UserTransactionsKey(userID.(string))    // Cache key for this user's list
		var cached []domain.Transaction                           // Cached list
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached) // Try the cache first
			if err == nil && found {
				// Return cached list
				c.JSON(http.StatusOK, gin.H{"transactions": cached, "count": len(cached), "cached": true})
				return
			}
		}
		txs := svc.ListByUser(userID.(string)) // Resolve through the index
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, txs, listCacheTTL) // Cache for the TTL
		}
		c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs), "cached": false})
	}
}

// ListPropertyTransactionsHandler returns every transaction for a property
func ListPropertyTransactionsHandler(svc *transaction.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		txs := svc.ListByProperty(c.Param("id")) // Resolve through the index
		c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
	}
}
