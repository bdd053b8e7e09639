package notify

import (
	"context" // Cancellable run context
	"sync"    // Observer registry synchronization
	"time"    // Event timestamps

	"realestate_system/internal/domain" // Domain models

	"github.com/google/uuid"     // Event id generation
	"github.com/sirupsen/logrus" // Structured logging
)

// EventType classifies a notification
type EventType string

// Event types
const (
	EventTransactionUpdate EventType = "TRANSACTION_UPDATE"
	EventPropertySold      EventType = "PROPERTY_SOLD"
)

// Event is a fire-and-forget notification for a single user
type Event struct {
	ID        string    `json:"id"`         // Unique event id
	Type      EventType `json:"type"`       // Classification
	UserID    string    `json:"user_id"`    // Addressee
	Title     string    `json:"title"`      // Short headline
	Message   string    `json:"message"`    // Human-readable body
	CreatedAt time.Time `json:"created_at"` // When the event was published
}

// Observer receives events of the types it subscribed to
type Observer interface {
	Notify(e Event)
}

// Dispatcher fans events out to subscribed observers asynchronously.
// Delivery is fire-and-forget: when the buffer is full the event is
// dropped with a warning rather than blocking the publisher.
type Dispatcher struct {
	mu        sync.RWMutex
	observers map[EventType][]Observer
	queue     chan Event
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	once      sync.Once
}

// NewDispatcher creates a dispatcher with the given event buffer size
func NewDispatcher(buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{
		observers: make(map[EventType][]Observer),
		queue:     make(chan Event, buffer),
	}
}

// Subscribe registers an observer for an event type
func (d *Dispatcher) Subscribe(t EventType, o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers[t] = append(d.observers[t], o)
}

// Publish enqueues an event for delivery, dropping it if the buffer is full
func (d *Dispatcher) Publish(e Event) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	select {
	case d.queue <- e:
	default:
		logrus.WithFields(logrus.Fields{
			"type":    e.Type,
			"user_id": e.UserID,
		}).Warn("Notification dropped, queue full")
	}
}

// Start launches the delivery goroutine
func (d *Dispatcher) Start(ctx context.Context) {
	d.once.Do(func() {
		ctx, d.cancel = context.WithCancel(ctx)
		d.wg.Add(1)
		go d.run(ctx)
	})
}

// Stop cancels delivery and waits for the goroutine to exit
func (d *Dispatcher) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	d.wg.Wait()
}

// run delivers queued events until the context is cancelled
func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-d.queue:
			d.mu.RLock()
			observers := append([]Observer(nil), d.observers[e.Type]...)
			d.mu.RUnlock()
			for _, o := range observers {
				o.Notify(e)
			}
		}
	}
}

// TransactionUpdated publishes lifecycle events for a transaction's buyer
// and seller; completed sales additionally raise a PROPERTY_SOLD event for
// the seller. Implements the transaction service's Notifier.
func (d *Dispatcher) TransactionUpdated(tx domain.Transaction) {
	msg := "Transaction " + tx.ID + " is now " + string(tx.Status)
	if tx.Notes != "" {
		msg += " (" + tx.Notes + ")"
	}
	for _, userID := range []string{tx.BuyerID, tx.SellerID} {
		d.Publish(Event{
			Type:    EventTransactionUpdate,
			UserID:  userID,
			Title:   "Transaction update",
			Message: msg,
		})
	}
	if tx.Status == domain.StatusCompleted {
		d.Publish(Event{
			Type:    EventPropertySold,
			UserID:  tx.SellerID,
			Title:   "Property sold",
			Message: "Property " + tx.PropertyID + " sold for " + tx.Amount.String(),
		})
	}
}

// LogObserver writes received events to the structured log
type LogObserver struct{}

// Notify implements Observer
func (LogObserver) Notify(e Event) {
	logrus.WithFields(logrus.Fields{
		"event_id": e.ID,
		"type":     e.Type,
		"user_id":  e.UserID,
	}).Info(e.Message)
}
