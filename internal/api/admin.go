package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strings"  // Cache key assembly
	"time"     // Cache TTL

	"realestate_system/internal/analytics"   // Market statistics
	"realestate_system/internal/domain"      // Domain models
	"realestate_system/internal/transaction" // Transaction service
	"realestate_system/internal/utils"       // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// ListAllTransactionsHandler returns every transaction, with optional
// filtering by status, property or user (admin only)
func ListAllTransactionsHandler(svc *transaction.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		// Build cache key from all query params
		var keyParts []string // Parts of the cache key
		for _, k := range []string{"status", "property_id", "user_id"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, "")) // Append key-value pair
		}
		cacheKey := "admin:transactions:" + strings.Join(keyParts, ":")
		var cached []domain.Transaction // Cached list
		if rdb != nil {
			// If cached data found, return it
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{"transactions": cached, "count": len(cached), "cached": true})
				return
			}
		}
		// Narrow the source set through the index when filtering by user or property
		var txs []domain.Transaction
		switch {
		case c.Query("user_id") != "":
			txs = svc.ListByUser(c.Query("user_id")) // Filter by user
		case c.Query("property_id") != "":
			txs = svc.ListByProperty(c.Query("property_id")) // Filter by property
		default:
			txs = svc.List() // Everything
		}
		// Apply the status filter over the selected set
		if status := c.Query("status"); status != "" {
			filtered := txs[:0]
			for _, tx := range txs {
				if tx.Status == domain.TransactionStatus(strings.ToUpper(status)) {
					filtered = append(filtered, tx)
				}
			}
			txs = filtered
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, txs, listCacheTTL) // Cache for the TTL
		}
		c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs), "cached": false})
	}
}

// MarketStatsHandler returns the market summary (admin only)
func MarketStatsHandler(reporter *analytics.Reporter, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()  // Context for Redis operations
		cacheKey := "admin:stats"    // Single summary key
		var cached analytics.MarketSummary
		if rdb != nil {
			// If cached data found, return it
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{"stats": cached, "cached": true})
				return
			}
		}
		summary := reporter.Summary() // Compute over current snapshots
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, summary, 30*time.Second) // Short TTL, stats move fast
		}
		c.JSON(http.StatusOK, gin.H{"stats": summary, "cached": false})
	}
}
