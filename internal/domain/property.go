package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact monetary arithmetic
)

// PropertyType classifies a listing
type PropertyType string

// Supported property types
const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
)

// Property Model
type Property struct {
	ID          string          `json:"id"`          // Unique identifier
	Title       string          `json:"title"`       // Listing title
	Description string          `json:"description"` // Free-text description
	Type        PropertyType    `json:"type"`        // residential or commercial
	Price       decimal.Decimal `json:"price"`       // Asking price
	Area        float64         `json:"area"`        // Area in square feet
	Address     string          `json:"address"`     // Street address
	City        string          `json:"city"`        // City, indexed for search
	State       string          `json:"state"`       // State or province
	ZipCode     string          `json:"zip_code"`    // Postal code
	Available   bool            `json:"available"`   // False once sold
	Featured    bool            `json:"featured"`    // Highlighted listing
	ListedAt    time.Time       `json:"listed_at"`   // When the listing was created
}
