package transaction

import (
	"context" // Cancellable run context
	"sync"    // WaitGroup for deterministic shutdown

	"realestate_system/internal/domain" // Domain models

	"github.com/shopspring/decimal" // Exact monetary arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
)

// lifecycle owns the dispatcher and worker pool state of a Service
type lifecycle struct {
	workers int
	work    chan *record // Hand-off from dispatcher to workers, unbuffered
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// Start launches the dispatcher and the fixed-size worker pool. The pool
// is bounded to bound external-directory load; excess submissions queue
// rather than spawn more workers. Safe to call once per Service.
func (s *Service) Start(ctx context.Context) {
	s.once.Do(func() {
		ctx, s.cancel = context.WithCancel(ctx)
		s.work = make(chan *record)
		s.wg.Add(1)
		go s.dispatch(ctx)
		for i := 0; i < s.workers; i++ {
			s.wg.Add(1)
			go s.worker(ctx, i)
		}
		logrus.WithFields(logrus.Fields{
			"workers":        s.workers,
			"queue_capacity": cap(s.queue),
		}).Info("Transaction pipeline started")
	})
}

// Stop cancels the run context and waits for the dispatcher and all
// workers to exit. Transactions still queued stay PENDING and remain
// cancellable; in-flight workers finish their current transaction.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	logrus.Info("Transaction pipeline stopped")
}

// dispatch drains the submission queue in FIFO order and hands each
// transaction to the worker pool. Single consumer, so dispatch order
// matches submission order; completion order across workers is not.
func (s *Service) dispatch(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-s.queue:
			select {
			case s.work <- rec:
			case <-ctx.Done():
				return
			}
		}
	}
}

// worker claims transactions handed over by the dispatcher and runs the
// processing steps. One transaction's failure never reaches other workers.
func (s *Service) worker(ctx context.Context, id int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-s.work:
			s.process(rec, id)
		}
	}
}

// process executes the multi-step state transition for one transaction.
// Steps short-circuit: a failure records a terminal FAILED status with a
// diagnostic note and skips the remaining steps.
func (s *Service) process(rec *record, workerID int) {
	tx := rec.snapshot()
	log := logrus.WithFields(logrus.Fields{
		"transaction_id": tx.ID,
		"property_id":    tx.PropertyID,
		"worker":         workerID,
	})
	// Claim the transaction. Losing the race means a cancellation won;
	// the worker skips it silently.
	if !rec.claim() {
		log.WithField("status", rec.status()).Debug("Skipping transaction, claim lost")
		return
	}
	// Step 1: re-validate availability. Another transaction may have
	// consumed the property since submission.
	prop, err := s.properties.GetProperty(tx.PropertyID)
	if err != nil {
		s.failStep(rec, log, domain.WrapError(domain.KindPropertyUnavailable,
			"property lookup failed", err))
		return
	}
	if !prop.Available {
		s.failStep(rec, log, domain.NewError(domain.KindPropertyUnavailable,
			"property "+tx.PropertyID+" is no longer available"))
		return
	}
	// Step 2: mark the property unavailable. The single external write;
	// on failure the availability is left as the directory returned it,
	// no compensating rollback.
	if err := s.properties.SetAvailable(tx.PropertyID, false); err != nil {
		s.failStep(rec, log, domain.WrapError(domain.KindPropertyUpdateError,
			"failed to mark property unavailable", err))
		return
	}
	// Step 3: compute the commission. A reporting figure only, no money moves.
	commission, err := s.commission(tx)
	if err != nil {
		s.failStep(rec, log, err)
		return
	}
	rec.complete(commission)
	log.WithField("commission", commission.String()).Info("Transaction completed")
	s.notify(rec)
}

// commission computes rate * amount for a claimed transaction
func (s *Service) commission(tx domain.Transaction) (decimal.Decimal, error) {
	if !s.rate.IsPositive() {
		return decimal.Zero, domain.NewError(domain.KindCommissionError,
			"commission rate is not configured")
	}
	return tx.Amount.Mul(s.rate), nil
}

// failStep records a terminal FAILED status with the step's cause
func (s *Service) failStep(rec *record, log *logrus.Entry, cause error) {
	rec.fail(cause.Error())
	log.WithField("cause", cause.Error()).Warn("Transaction failed")
	s.notify(rec)
}
