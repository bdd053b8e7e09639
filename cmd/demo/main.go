package main

import (
	"context" // Pipeline run context
	"time"    // Terminal status polling

	"realestate_system/internal/analytics"   // Market statistics
	"realestate_system/internal/config"      // Configuration
	"realestate_system/internal/domain"      // Domain models
	"realestate_system/internal/notify"      // Notification dispatch
	"realestate_system/internal/property"    // Property directory
	"realestate_system/internal/transaction" // Transaction pipeline
	"realestate_system/internal/user"        // User directory

	"github.com/shopspring/decimal" // Exact monetary arithmetic
	"github.com/sirupsen/logrus"    // Logrus for structured logging
)

// Scripted end-to-end run against the in-process services: register users,
// list a property, sell it through the pipeline, then print the market stats.
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Construct the services
	properties := property.NewService()
	users := user.NewService(cfg.JWTSecret)
	dispatcher := notify.NewDispatcher(64)
	dispatcher.Subscribe(notify.EventTransactionUpdate, notify.LogObserver{})
	dispatcher.Subscribe(notify.EventPropertySold, notify.LogObserver{})
	dispatcher.Start(ctx)

	txService := transaction.NewService(properties, users, dispatcher, transaction.Config{
		WorkerCount:    cfg.WorkerCount,
		QueueCapacity:  cfg.QueueCapacity,
		CommissionRate: cfg.CommissionRate,
	})
	txService.Start(ctx)

	// Register a buyer and a seller
	buyerID := mustRegister(users, "Alice", "Nguyen", "alice@example.com")
	sellerID := mustRegister(users, "Bob", "Marsh", "bob@example.com")
	token, err := users.Login("alice@example.com", "password123")
	if err != nil {
		logrus.Fatalf("login failed: %v", err)
	}

	// List a property
	propertyID, err := properties.Add(domain.Property{
		Title: "Sunny three-bedroom",
		Type:  domain.PropertyResidential,
		Price: decimal.NewFromInt(800_000),
		Area:  1_800,
		City:  "Porto",
	})
	if err != nil {
		logrus.Fatalf("listing failed: %v", err)
	}

	// Initiate the sale and wait for a terminal status
	txID, err := txService.Initiate(propertyID, buyerID, sellerID, decimal.NewFromInt(800_000), token)
	if err != nil {
		logrus.Fatalf("initiate failed: %v", err)
	}
	status := waitForTerminal(txService, txID, 5*time.Second)
	tx, _ := txService.GetTransaction(txID)
	logrus.WithFields(logrus.Fields{
		"transaction_id": txID,
		"status":         status,
		"commission":     tx.Commission.String(),
	}).Info("Sale finished")

	// Print the market summary
	summary := analytics.NewReporter(txService, properties).Summary()
	logrus.WithFields(logrus.Fields{
		"completed_volume": summary.CompletedVolume.String(),
		"total_commission": summary.TotalCommission.String(),
		"by_status":        summary.ByStatus,
	}).Info("Market summary")

	txService.Stop()
	dispatcher.Stop()
}

// mustRegister registers a demo user or exits
func mustRegister(users *user.Service, first, last, email string) string {
	id, err := users.Register(domain.User{FirstName: first, LastName: last, Email: email}, "password123")
	if err != nil {
		logrus.Fatalf("register %s failed: %v", email, err)
	}
	return id
}

// waitForTerminal polls until the transaction reaches a terminal status
func waitForTerminal(svc *transaction.Service, id string, timeout time.Duration) domain.TransactionStatus {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		status, err := svc.GetStatus(id)
		if err == nil && status.Terminal() {
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
	status, _ := svc.GetStatus(id)
	return status
}
