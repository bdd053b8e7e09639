package transaction

import (
	"sync" // Single synchronization boundary for all three maps

	"realestate_system/internal/domain" // Domain models
)

// index owns the primary store and its two derived views. All three maps
// mutate only under mu, so a reader never observes a transaction present
// in one map and absent from another. Entries are append-only;
// cancellation and failure are status changes, never removals.
type index struct {
	mu         sync.RWMutex
	byID       map[string]*record
	byUser     map[string]map[string]struct{} // Buyer and seller both point at the id
	byProperty map[string]map[string]struct{}
}

// newIndex creates an empty index
func newIndex() *index {
	return &index{
		byID:       make(map[string]*record),
		byUser:     make(map[string]map[string]struct{}),
		byProperty: make(map[string]map[string]struct{}),
	}
}

// insert adds the record to all three mappings in one critical section
func (ix *index) insert(r *record) {
	// Identity fields are immutable, safe to read without the record lock
	tx := r.tx
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.addUser(tx.BuyerID, tx.ID)
	ix.addUser(tx.SellerID, tx.ID)
	if ix.byProperty[tx.PropertyID] == nil {
		ix.byProperty[tx.PropertyID] = make(map[string]struct{})
	}
	ix.byProperty[tx.PropertyID][tx.ID] = struct{}{}
	// The authoritative map updates last
	ix.byID[tx.ID] = r
}

// addUser records the transaction id under a user. Caller holds mu.
func (ix *index) addUser(userID, txID string) {
	if ix.byUser[userID] == nil {
		ix.byUser[userID] = make(map[string]struct{})
	}
	ix.byUser[userID][txID] = struct{}{}
}

// get returns the record for an id
func (ix *index) get(id string) (*record, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	r, ok := ix.byID[id]
	return r, ok
}

// byUserIDs resolves a user's transactions to current snapshots
func (ix *index) byUserIDs(userID string) []domain.Transaction {
	ix.mu.RLock()
	records := make([]*record, 0, len(ix.byUser[userID]))
	for id := range ix.byUser[userID] {
		records = append(records, ix.byID[id])
	}
	ix.mu.RUnlock()
	return snapshots(records)
}

// byPropertyIDs resolves a property's transactions to current snapshots
func (ix *index) byPropertyIDs(propertyID string) []domain.Transaction {
	ix.mu.RLock()
	records := make([]*record, 0, len(ix.byProperty[propertyID]))
	for id := range ix.byProperty[propertyID] {
		records = append(records, ix.byID[id])
	}
	ix.mu.RUnlock()
	return snapshots(records)
}

// all returns snapshots of every transaction in the store
func (ix *index) all() []domain.Transaction {
	ix.mu.RLock()
	records := make([]*record, 0, len(ix.byID))
	for _, r := range ix.byID {
		records = append(records, r)
	}
	ix.mu.RUnlock()
	return snapshots(records)
}

// snapshots copies records outside the index lock; each record locks itself
func snapshots(records []*record) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		out = append(out, r.snapshot())
	}
	return out
}
