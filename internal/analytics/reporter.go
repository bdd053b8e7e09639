package analytics

import (
	"realestate_system/internal/domain" // Domain models

	"github.com/shopspring/decimal" // Exact monetary arithmetic
)

// TransactionSource is the view of the transaction service the reporter reads
type TransactionSource interface {
	List() []domain.Transaction
}

// PropertySource is the view of the property directory the reporter reads
type PropertySource interface {
	All() []domain.Property
}

// MarketSummary is a point-in-time view of transaction and listing activity
type MarketSummary struct {
	TotalTransactions  int                                      `json:"total_transactions"`
	ByStatus           map[domain.TransactionStatus]int         `json:"by_status"`
	CompletedVolume    decimal.Decimal                          `json:"completed_volume"`
	TotalCommission    decimal.Decimal                          `json:"total_commission"`
	AverageSalePrice   decimal.Decimal                          `json:"average_sale_price"`
	TotalListings      int                                      `json:"total_listings"`
	AvailableListings  int                                      `json:"available_listings"`
	ListingsByType     map[domain.PropertyType]int              `json:"listings_by_type"`
	AveragePriceByType map[domain.PropertyType]decimal.Decimal `json:"average_price_by_type"`
}

// Reporter computes market statistics over the injected sources
type Reporter struct {
	transactions TransactionSource
	properties   PropertySource
}

// NewReporter creates a reporter reading from the given sources
func NewReporter(transactions TransactionSource, properties PropertySource) *Reporter {
	return &Reporter{transactions: transactions, properties: properties}
}

// Summary computes a market summary from current snapshots. Commission
// totals are reporting figures only; no ledger is kept.
func (r *Reporter) Summary() MarketSummary {
	summary := MarketSummary{
		ByStatus:           make(map[domain.TransactionStatus]int),
		ListingsByType:     make(map[domain.PropertyType]int),
		AveragePriceByType: make(map[domain.PropertyType]decimal.Decimal),
		CompletedVolume:    decimal.Zero,
		TotalCommission:    decimal.Zero,
		AverageSalePrice:   decimal.Zero,
	}
	completed := 0
	for _, tx := range r.transactions.List() {
		summary.TotalTransactions++
		summary.ByStatus[tx.Status]++
		if tx.Status == domain.StatusCompleted {
			completed++
			summary.CompletedVolume = summary.CompletedVolume.Add(tx.Amount)
			summary.TotalCommission = summary.TotalCommission.Add(tx.Commission)
		}
	}
	if completed > 0 {
		summary.AverageSalePrice = summary.CompletedVolume.DivRound(decimal.NewFromInt(int64(completed)), 2)
	}
	priceTotals := make(map[domain.PropertyType]decimal.Decimal)
	for _, p := range r.properties.All() {
		summary.TotalListings++
		if p.Available {
			summary.AvailableListings++
		}
		summary.ListingsByType[p.Type]++
		priceTotals[p.Type] = priceTotals[p.Type].Add(p.Price)
	}
	for t, total := range priceTotals {
		summary.AveragePriceByType[t] = total.DivRound(decimal.NewFromInt(int64(summary.ListingsByType[t])), 2)
	}
	return summary
}
