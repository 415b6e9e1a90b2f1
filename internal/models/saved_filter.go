package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PriceRange keeps the bounds as typed by the user.
type PriceRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// FilterSnapshot is the persisted part of a browse filter state.
type FilterSnapshot struct {
	Province        string            `json:"province,omitempty"`
	District        string            `json:"district,omitempty"`
	Sector          string            `json:"sector,omitempty"`
	PriceRange      PriceRange        `json:"priceRange"`
	AdvancedFilters map[string]string `json:"advancedFilters,omitempty"`
}

// Value implements driver.Valuer for the jsonb column.
func (s FilterSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for the jsonb column.
func (s *FilterSnapshot) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = FilterSnapshot{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("filter snapshot: unsupported source type")
	}
	*s = FilterSnapshot{}
	return json.Unmarshal(raw, s)
}

// SavedFilter is a named browse filter owned by a user.
type SavedFilter struct {
	ID         string         `db:"id" json:"id"`
	UserID     string         `db:"user_id" json:"userId"`
	Name       string         `db:"name" json:"name"`
	Category   string         `db:"category" json:"category"`
	ActionType string         `db:"action_type" json:"actionType"`
	Filters    FilterSnapshot `db:"filters" json:"filters"`
	CreatedAt  time.Time      `db:"created_at" json:"createdDate"`
}
