package property

import (
	"strings" // Lowercased index keys
	"sync"    // Store synchronization
	"time"    // Listing timestamps

	"realestate_system/internal/domain" // Domain models

	"github.com/google/uuid"        // Property id generation
	"github.com/shopspring/decimal" // Exact monetary arithmetic
)

// Validation bounds for listings
var (
	minPrice = decimal.NewFromInt(1_000)
	maxPrice = decimal.NewFromInt(1_000_000_000)
)

const minArea = 100.0 // Square feet

// Service is the property directory: it owns property records and their
// availability flags, with city and type indexes for search.
type Service struct {
	mu         sync.RWMutex
	properties map[string]domain.Property
	cityIndex  map[string]map[string]struct{}
	typeIndex  map[string]map[string]struct{}
}

// NewService creates an empty property directory
func NewService() *Service {
	return &Service{
		properties: make(map[string]domain.Property),
		cityIndex:  make(map[string]map[string]struct{}),
		typeIndex:  make(map[string]map[string]struct{}),
	}
}

// Add validates and stores a new listing, returning its id
func (s *Service) Add(p domain.Property) (string, error) {
	if err := validate(p); err != nil {
		return "", err
	}
	p.ID = uuid.NewString()
	p.ListedAt = time.Now()
	p.Available = true
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[p.ID] = p
	s.addToIndexes(p)
	return p.ID, nil
}

// Update replaces an existing listing, keeping its id and listing time
func (s *Service) Update(id string, p domain.Property) error {
	if err := validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.properties[id]
	if !ok {
		return domain.NewError(domain.KindNotFound, "property not found: "+id)
	}
	p.ID = old.ID
	p.ListedAt = old.ListedAt
	s.removeFromIndexes(old)
	s.properties[id] = p
	s.addToIndexes(p)
	return nil
}

// Remove deletes a listing, reporting whether it existed
func (s *Service) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[id]
	if !ok {
		return false
	}
	delete(s.properties, id)
	s.removeFromIndexes(p)
	return true
}

// GetProperty returns a listing by id
func (s *Service) GetProperty(id string) (domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[id]
	if !ok {
		return domain.Property{}, domain.NewError(domain.KindNotFound, "property not found: "+id)
	}
	return p, nil
}

// SetAvailable flips a listing's availability flag
func (s *Service) SetAvailable(id string, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[id]
	if !ok {
		return domain.NewError(domain.KindNotFound, "property not found: "+id)
	}
	p.Available = available
	s.properties[id] = p
	return nil
}

// SearchCriteria filters listings; zero fields are ignored
type SearchCriteria struct {
	MinPrice decimal.Decimal     `json:"min_price"`
	MaxPrice decimal.Decimal     `json:"max_price"`
	MinArea  float64             `json:"min_area"`
	MaxArea  float64             `json:"max_area"`
	City     string              `json:"city"`
	Type     domain.PropertyType `json:"type"`
}

// Search returns listings matching every set criterion
func (s *Service) Search(c SearchCriteria) []domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Property
	for _, p := range s.properties {
		if matches(p, c) {
			out = append(out, p)
		}
	}
	return out
}

// ByCity returns listings in a city via the city index
func (s *Service) ByCity(city string) []domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.cityIndex[strings.ToLower(city)])
}

// ByType returns listings of a type via the type index
func (s *Service) ByType(t domain.PropertyType) []domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.typeIndex[strings.ToLower(string(t))])
}

// InPriceRange returns listings priced within [min, max]
func (s *Service) InPriceRange(min, max decimal.Decimal) []domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Property
	for _, p := range s.properties {
		if p.Price.GreaterThanOrEqual(min) && p.Price.LessThanOrEqual(max) {
			out = append(out, p)
		}
	}
	return out
}

// All returns every listing
func (s *Service) All() []domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Property, 0, len(s.properties))
	for _, p := range s.properties {
		out = append(out, p)
	}
	return out
}

// Count returns the number of listings
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.properties)
}

// Private helpers

// validate enforces the listing bounds
func validate(p domain.Property) error {
	if p.Title == "" || p.City == "" {
		return domain.NewError(domain.KindValidation, "property title and city are required")
	}
	if p.Type != domain.PropertyResidential && p.Type != domain.PropertyCommercial {
		return domain.NewError(domain.KindValidation, "unknown property type: "+string(p.Type))
	}
	if p.Price.LessThan(minPrice) || p.Price.GreaterThan(maxPrice) {
		return domain.NewError(domain.KindValidation, "property price out of valid range")
	}
	if p.Area < minArea {
		return domain.NewError(domain.KindValidation, "property area too small")
	}
	return nil
}

// addToIndexes records the listing under its city and type. Caller holds mu.
func (s *Service) addToIndexes(p domain.Property) {
	city := strings.ToLower(p.City)
	if s.cityIndex[city] == nil {
		s.cityIndex[city] = make(map[string]struct{})
	}
	s.cityIndex[city][p.ID] = struct{}{}
	kind := strings.ToLower(string(p.Type))
	if s.typeIndex[kind] == nil {
		s.typeIndex[kind] = make(map[string]struct{})
	}
	s.typeIndex[kind][p.ID] = struct{}{}
}

// removeFromIndexes drops the listing from its city and type. Caller holds mu.
func (s *Service) removeFromIndexes(p domain.Property) {
	if ids := s.cityIndex[strings.ToLower(p.City)]; ids != nil {
		delete(ids, p.ID)
	}
	if ids := s.typeIndex[strings.ToLower(string(p.Type))]; ids != nil {
		delete(ids, p.ID)
	}
}

// resolve maps an id set to listings. Caller holds mu.
func (s *Service) resolve(ids map[string]struct{}) []domain.Property {
	var out []domain.Property
	for id := range ids {
		if p, ok := s.properties[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// matches checks a listing against every set criterion
func matches(p domain.Property, c SearchCriteria) bool {
	if c.MinPrice.IsPositive() && p.Price.LessThan(c.MinPrice) {
		return false
	}
	if c.MaxPrice.IsPositive() && p.Price.GreaterThan(c.MaxPrice) {
		return false
	}
	if c.MinArea > 0 && p.Area < c.MinArea {
		return false
	}
	if c.MaxArea > 0 && p.Area > c.MaxArea {
		return false
	}
	if c.City != "" && !strings.EqualFold(c.City, p.City) {
		return false
	}
	if c.Type != "" && c.Type != p.Type {
		return false
	}
	return true
}
