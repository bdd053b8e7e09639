package transaction

import (
	"sync" // Per-record mutex
	"time" // Creation timestamp

	"realestate_system/internal/domain" // Domain models

	"github.com/google/uuid"        // Transaction id generation
	"github.com/shopspring/decimal" // Exact monetary arithmetic
)

// record is the mutable store entry behind a Transaction. Identity fields
// never change after creation; status, notes and commission only change
// under mu, so a snapshot is never torn.
type record struct {
	mu sync.Mutex
	tx domain.Transaction
}

// newRecord creates a PENDING transaction with a fresh id.
// Returns InvalidAmount if amount is not positive.
func newRecord(propertyID, buyerID, sellerID string, amount decimal.Decimal) (*record, error) {
	if !amount.IsPositive() {
		return nil, domain.NewError(domain.KindInvalidAmount, "transaction amount must be positive")
	}
	return &record{
		tx: domain.Transaction{
			ID:         uuid.NewString(),
			PropertyID: propertyID,
			BuyerID:    buyerID,
			SellerID:   sellerID,
			Amount:     amount,
			CreatedAt:  time.Now(),
			Status:     domain.StatusPending,
		},
	}, nil
}

// snapshot returns a consistent copy of the transaction
func (r *record) snapshot() domain.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx
}

// status returns the current status
func (r *record) status() domain.TransactionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.Status
}

// claim atomically moves PENDING to PROCESSING. Exactly one caller wins;
// a false return means a cancellation or another claim got there first.
func (r *record) claim() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tx.Status != domain.StatusPending {
		return false
	}
	r.tx.Status = domain.StatusProcessing
	return true
}

// cancel atomically moves PENDING to CANCELLED.
// Returns InvalidState if the transaction is no longer pending.
func (r *record) cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tx.Status != domain.StatusPending {
		return domain.NewError(domain.KindInvalidState,
			"cannot cancel transaction in status "+string(r.tx.Status))
	}
	r.tx.Status = domain.StatusCancelled
	return nil
}

// complete marks a PROCESSING transaction COMPLETED and records the commission
func (r *record) complete(commission decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tx.Status = domain.StatusCompleted
	r.tx.Commission = commission
}

// fail marks a PROCESSING transaction FAILED with a diagnostic note.
// Status and notes change together under the lock.
func (r *record) fail(notes string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tx.Status = domain.StatusFailed
	r.tx.Notes = notes
}
