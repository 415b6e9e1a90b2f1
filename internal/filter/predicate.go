package filter

import (
	"strconv"
	"strings"

	"github.com/umuhuza/umuhuza_api/internal/models"
)

// Match applies the client tier of the filter to a product already returned by
// the server tier. Checks run in order and stop at the first failure.
func (s State) Match(p *models.Product) bool {
	if p == nil {
		return false
	}
	if term := s.SearchTerm; term != "" {
		if !containsFold(p.Title, term) && !containsFold(p.Description, term) {
			return false
		}
	}
	price := p.Price
	if !inRange(&price, s.PriceRange.Min, s.PriceRange.Max) {
		return false
	}
	// Category panels only apply to products of the selected category.
	if s.Category == "" || s.Fields == nil || p.Category != s.Category {
		return true
	}
	return s.Fields.match(p)
}

// Apply returns the products that pass Match, preserving order.
func (s State) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if s.Match(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

// inRange reports whether v lies within the inclusive bounds. Unset or
// non-numeric bounds impose nothing, and neither does a missing value.
func inRange(v *float64, min, max string) bool {
	if v == nil {
		return true
	}
	if lo, ok := parseBound(min); ok && *v < lo {
		return false
	}
	if hi, ok := parseBound(max); ok && *v > hi {
		return false
	}
	return true
}

func parseBound(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
