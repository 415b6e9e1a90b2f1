// Package filter models the browse filter state and evaluates it against
// products. Filtering is split into a server tier, sent to the product store
// as a query, and a client tier applied to the fetched set.
package filter

import (
	"github.com/umuhuza/umuhuza_api/internal/catalog"
	"github.com/umuhuza/umuhuza_api/internal/models"
)

// PriceRange bounds are kept as typed.
type PriceRange = models.PriceRange

// Location is a province/district/sector selection.
type Location struct {
	Province string `json:"province"`
	District string `json:"district"`
	Sector   string `json:"sector"`
}

// SelectProvince changes the province and drops the now meaningless children.
func (l *Location) SelectProvince(p string) {
	if l.Province == p {
		return
	}
	*l = Location{Province: p}
}

// SelectDistrict changes the district and drops the sector.
func (l *Location) SelectDistrict(d string) {
	if l.District == d {
		return
	}
	l.District = d
	l.Sector = ""
}

func (l *Location) SelectSector(s string) {
	l.Sector = s
}

// State is one browsing session's filter.
type State struct {
	SearchTerm string         `json:"searchTerm"`
	Category   string         `json:"category"`
	ActionType string         `json:"actionType"`
	Location   Location       `json:"location"`
	Sort       string         `json:"sort"`
	PriceRange PriceRange     `json:"priceRange"`
	Fields     CategoryFields `json:"-"`
}

// NewState returns the canonical empty state.
func NewState() State {
	return State{Sort: DefaultSort}
}

// SetCategory switches category and resets the category fields to the empty
// panel of the new category.
func (s *State) SetCategory(category string) {
	s.Category = category
	s.Fields = NewFields(category)
}

func (s *State) SetActionType(a string) { s.ActionType = a }

func (s *State) SetSearchTerm(term string) { s.SearchTerm = term }

// SetSort selects a sort key, falling back to the default for unknown keys.
func (s *State) SetSort(key string) { s.Sort = NormalizeSort(key) }

func (s *State) SetPriceRange(min, max string) {
	s.PriceRange = PriceRange{Min: min, Max: max}
}

// SetField edits one category field. The state is unchanged on error.
func (s *State) SetField(field, value string) error {
	if s.Fields == nil {
		return unknown(catalog.FamilyOf(s.Category), field)
	}
	next, err := s.Fields.Set(field, value)
	if err != nil {
		return err
	}
	s.Fields = next
	return nil
}

// FieldValues returns the category fields as a map; empty when no panel is active.
func (s State) FieldValues() map[string]string {
	if s.Fields == nil {
		return map[string]string{}
	}
	return s.Fields.Values()
}

// Clear resets the whole state at once.
func (s *State) Clear() {
	*s = NewState()
}

// ActiveCount is the number of set filters shown on the filter badge:
// category, action, province, the two price bounds and every set category field.
func (s State) ActiveCount() int {
	n := 0
	for _, v := range []string{s.Category, s.ActionType, s.Location.Province, s.PriceRange.Min, s.PriceRange.Max} {
		if v != "" {
			n++
		}
	}
	for _, v := range s.FieldValues() {
		if v != "" {
			n++
		}
	}
	return n
}

// Snapshot extracts the persisted part of the state.
func (s State) Snapshot() (category, actionType string, snap models.FilterSnapshot) {
	advanced := map[string]string{}
	for k, v := range s.FieldValues() {
		if v != "" {
			advanced[k] = v
		}
	}
	return s.Category, s.ActionType, models.FilterSnapshot{
		Province:        s.Location.Province,
		District:        s.Location.District,
		Sector:          s.Location.Sector,
		PriceRange:      s.PriceRange,
		AdvancedFilters: advanced,
	}
}

// FromSnapshot builds a fresh state from a saved snapshot. Anything the
// snapshot lacks is left unset; search and sort take their defaults.
func FromSnapshot(category, actionType string, snap models.FilterSnapshot) State {
	s := NewState()
	s.SetCategory(category)
	s.ActionType = actionType
	s.Location = Location{Province: snap.Province, District: snap.District, Sector: snap.Sector}
	s.PriceRange = snap.PriceRange
	if s.Fields != nil {
		s.Fields = FieldsFromValues(category, snap.AdvancedFilters)
	}
	return s
}
