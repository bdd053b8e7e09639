package transaction

import (
	"realestate_system/internal/domain" // Domain models

	"github.com/shopspring/decimal" // Exact monetary arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
)

// PropertyDirectory is the narrow view of the property service the
// pipeline depends on. It owns property records and availability flags.
type PropertyDirectory interface {
	GetProperty(id string) (domain.Property, error)
	SetAvailable(id string, available bool) error
}

// UserDirectory is the narrow view of the user service. It owns identity
// and session validation.
type UserDirectory interface {
	ValidateSessionToken(token string) bool
	GetUser(id string) (domain.User, error)
}

// Notifier receives fire-and-forget transaction lifecycle events
type Notifier interface {
	TransactionUpdated(tx domain.Transaction)
}

// Config tunes the processing pipeline without code changes
type Config struct {
	WorkerCount    int             // Fixed worker pool size
	QueueCapacity  int             // Bounded submission queue size
	CommissionRate decimal.Decimal // Fraction of the amount computed on completion
}

// Defaults matching the reference deployment
var (
	defaultCommissionRate = decimal.NewFromFloat(0.03) // 3%

	defaultWorkerCount   = 5
	defaultQueueCapacity = 100
)

// Service coordinates real-estate sale transactions: it validates and
// admits submissions, processes them asynchronously on a bounded worker
// pool, and answers status/history queries concurrently with processing.
// Construct one per process and inject its dependencies; call Start
// before submitting and Stop to shut the pipeline down.
type Service struct {
	properties PropertyDirectory
	users      UserDirectory
	notifier   Notifier // Optional, may be nil
	rate       decimal.Decimal
	idx        *index
	queue      chan *record // FIFO submission queue, bounded

	lifecycle // Dispatcher and worker pool state, see pipeline.go
}

// NewService creates a transaction service with its collaborators injected.
// Zero config fields fall back to defaults (5 workers, queue of 100, 3% rate).
func NewService(properties PropertyDirectory, users UserDirectory, notifier Notifier, cfg Config) *Service {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = defaultQueueCapacity
	}
	if !cfg.CommissionRate.IsPositive() {
		cfg.CommissionRate = defaultCommissionRate
	}
	return &Service{
		properties: properties,
		users:      users,
		notifier:   notifier,
		rate:       cfg.CommissionRate,
		idx:        newIndex(),
		queue:      make(chan *record, cfg.QueueCapacity),
		lifecycle:  lifecycle{workers: cfg.WorkerCount},
	}
}

// Initiate validates a sale request against current property/user state and
// admits it into the pipeline. On success the returned id is immediately
// visible to queries with status PENDING, before any worker picks it up.
// May block briefly when the submission queue is full; the transaction is
// never silently dropped.
func (s *Service) Initiate(propertyID, buyerID, sellerID string, amount decimal.Decimal, sessionToken string) (string, error) {
	// Validate authorization first
	if !s.users.ValidateSessionToken(sessionToken) {
		return "", domain.NewError(domain.KindUnauthorized, "invalid or expired session token")
	}
	// Validate property and both parties against the external directories;
	// their failures propagate as-is
	if _, err := s.properties.GetProperty(propertyID); err != nil {
		return "", err
	}
	if _, err := s.users.GetUser(buyerID); err != nil {
		return "", err
	}
	if _, err := s.users.GetUser(sellerID); err != nil {
		return "", err
	}
	// Create the record; rejects non-positive amounts before any state mutation
	rec, err := newRecord(propertyID, buyerID, sellerID, amount)
	if err != nil {
		return "", err
	}
	// Index before enqueueing so the id is queryable the moment we return
	s.idx.insert(rec)
	s.queue <- rec
	logrus.WithFields(logrus.Fields{
		"transaction_id": rec.tx.ID,
		"property_id":    propertyID,
		"buyer_id":       buyerID,
		"seller_id":      sellerID,
		"amount":         amount.String(),
	}).Info("Transaction submitted")
	return rec.tx.ID, nil
}

// Cancel transitions a PENDING transaction to CANCELLED. The check-and-set
// races atomically against worker claims: once a worker has advanced the
// status, cancellation fails with InvalidState instead of overriding it.
func (s *Service) Cancel(transactionID, sessionToken string) error {
	if !s.users.ValidateSessionToken(sessionToken) {
		return domain.NewError(domain.KindUnauthorized, "invalid or expired session token")
	}
	rec, ok := s.idx.get(transactionID)
	if !ok {
		return domain.NewError(domain.KindNotFound, "transaction not found: "+transactionID)
	}
	if err := rec.cancel(); err != nil {
		return err
	}
	logrus.WithField("transaction_id", transactionID).Info("Transaction cancelled")
	s.notify(rec)
	return nil
}

// GetStatus returns the current status of a transaction
func (s *Service) GetStatus(transactionID string) (domain.TransactionStatus, error) {
	rec, ok := s.idx.get(transactionID)
	if !ok {
		return "", domain.NewError(domain.KindNotFound, "transaction not found: "+transactionID)
	}
	return rec.status(), nil
}

// GetTransaction returns a snapshot of a transaction
func (s *Service) GetTransaction(transactionID string) (domain.Transaction, error) {
	rec, ok := s.idx.get(transactionID)
	if !ok {
		return domain.Transaction{}, domain.NewError(domain.KindNotFound, "transaction not found: "+transactionID)
	}
	return rec.snapshot(), nil
}

// ListByUser returns every transaction where the user is buyer or seller
func (s *Service) ListByUser(userID string) []domain.Transaction {
	return s.idx.byUserIDs(userID)
}

// ListByProperty returns every transaction referencing the property
func (s *Service) ListByProperty(propertyID string) []domain.Transaction {
	return s.idx.byPropertyIDs(propertyID)
}

// List returns a snapshot of every transaction in the store
func (s *Service) List() []domain.Transaction {
	return s.idx.all()
}

// notify publishes the record's current snapshot, if a notifier is wired
func (s *Service) notify(rec *record) {
	if s.notifier != nil {
		s.notifier.TransactionUpdated(rec.snapshot())
	}
}
