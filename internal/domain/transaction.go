package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact monetary arithmetic
)

// TransactionStatus tracks a transaction through its lifecycle
type TransactionStatus string

// Transaction lifecycle states
const (
	StatusPending    TransactionStatus = "PENDING"    // Created, waiting for a worker
	StatusProcessing TransactionStatus = "PROCESSING" // Claimed by exactly one worker
	StatusCompleted  TransactionStatus = "COMPLETED"  // All processing steps succeeded
	StatusFailed     TransactionStatus = "FAILED"     // A processing step failed
	StatusCancelled  TransactionStatus = "CANCELLED"  // Cancelled while still pending
)

// Terminal reports whether no further status transitions are permitted
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Transaction Model (snapshot — status, notes and commission reflect the moment it was read)
type Transaction struct {
	ID         string            `json:"id"`              // Unique identifier, immutable
	PropertyID string            `json:"property_id"`     // Property being sold, immutable
	BuyerID    string            `json:"buyer_id"`        // Buying user, immutable
	SellerID   string            `json:"seller_id"`       // Selling user, immutable
	Amount     decimal.Decimal   `json:"amount"`          // Agreed sale amount, immutable
	Commission decimal.Decimal   `json:"commission"`      // Computed on completion, zero before
	CreatedAt  time.Time         `json:"created_at"`      // Creation timestamp, immutable
	Status     TransactionStatus `json:"status"`          // Current lifecycle state
	Notes      string            `json:"notes,omitempty"` // Failure cause, set on FAILED
}
