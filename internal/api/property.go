package api

import (
	"net/http" // HTTP status codes

	"realestate_system/internal/domain"   // Domain models
	"realestate_system/internal/property" // Property directory

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact monetary arithmetic
)

// AddPropertyRequest represents a new listing
type AddPropertyRequest struct {
	Title       string          `json:"title" binding:"required"` // Listing title
	Description string          `json:"description"`              // Free-text description
	Type        string          `json:"type" binding:"required"`  // residential or commercial
	Price       decimal.Decimal `json:"price" binding:"required"` // Asking price
	Area        float64         `json:"area" binding:"required"`  // Area in square feet
	Address     string          `json:"address"`                  // Street address
	City        string          `json:"city" binding:"required"`  // City
	State       string          `json:"state"`                    // State or province
	ZipCode     string          `json:"zip_code"`                 // Postal code
	Featured    bool            `json:"featured"`                 // Highlighted listing
}

// AddPropertyHandler lists a new property (admin only)
func AddPropertyHandler(props *property.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddPropertyRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Store through the directory; it validates price and area bounds
		id, err := props.Add(domain.Property{
			Title:       req.Title,                    // Listing title
			Description: req.Description,              // Description
			Type:        domain.PropertyType(req.Type), // Listing type
			Price:       req.Price,                    // Asking price
			Area:        req.Area,                     // Area
			Address:     req.Address,                  // Street address
			City:        req.City,                     // City
			State:       req.State,                    // State
			ZipCode:     req.ZipCode,                  // Postal code
			Featured:    req.Featured,                 // Highlighted listing
		})
		if err != nil {
			respondError(c, err) // Validation failure
			return
		}
		// Return the new listing id
		c.JSON(http.StatusCreated, gin.H{"message": "Property listed", "property_id": id})
	}
}

// GetPropertyHandler returns a single listing by id
func GetPropertyHandler(props *property.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := props.GetProperty(c.Param("id")) // Look up by path id
		if err != nil {
			respondError(c, err) // Not found
			return
		}
		c.JSON(http.StatusOK, gin.H{"property": p}) // Return the listing
	}
}

// SearchPropertiesHandler filters listings by query parameters
func SearchPropertiesHandler(props *property.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var criteria property.SearchCriteria // Criteria built from the query string
		// Parse optional price bounds
		if v, err := decimal.NewFromString(c.Query("min_price")); err == nil {
			criteria.MinPrice = v
		}
		if v, err := decimal.NewFromString(c.Query("max_price")); err == nil {
			criteria.MaxPrice = v
		}
		// Optional area bounds bind as plain floats
		var areaBounds struct {
			MinArea float64 `form:"min_area"` // Minimum area
			MaxArea float64 `form:"max_area"` // Maximum area
		}
		_ = c.ShouldBindQuery(&areaBounds)
		criteria.MinArea = areaBounds.MinArea
		criteria.MaxArea = areaBounds.MaxArea
		criteria.City = c.Query("city")                           // Optional city filter
		criteria.Type = domain.PropertyType(c.Query("type"))      // Optional type filter
		results := props.Search(criteria)                         // Run the search
		c.JSON(http.StatusOK, gin.H{"properties": results, "count": len(results)}) // Return matches
	}
}
