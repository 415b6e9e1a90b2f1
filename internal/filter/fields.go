package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/umuhuza/umuhuza_api/internal/catalog"
	"github.com/umuhuza/umuhuza_api/internal/models"
)

// ErrUnknownField is returned when a panel is asked to set a key outside its vocabulary.
var ErrUnknownField = errors.New("unknown category field")

// CategoryFields is the category specific part of a filter state. There is one
// implementation per panel family, so fields of one category can never be
// evaluated against another.
type CategoryFields interface {
	Family() catalog.Family
	// Set returns a copy with exactly field replaced.
	Set(field, value string) (CategoryFields, error)
	// Values exposes the panel vocabulary keyed by wire name.
	Values() map[string]string
	match(p *models.Product) bool
}

// NewFields returns the empty panel for category, or nil when the category has none.
func NewFields(category string) CategoryFields {
	switch catalog.FamilyOf(category) {
	case catalog.FamilyRealEstate:
		return RealEstateFields{}
	case catalog.FamilyVehicle:
		return VehicleFields{}
	case catalog.FamilyCapacity:
		return CapacityFields{}
	case catalog.FamilyTech:
		return TechFields{}
	default:
		return nil
	}
}

// FieldsFromValues builds the panel for category from a key/value map. Keys
// outside the panel vocabulary are dropped.
func FieldsFromValues(category string, values map[string]string) CategoryFields {
	fields := NewFields(category)
	if fields == nil {
		return nil
	}
	for k, v := range values {
		if next, err := fields.Set(k, v); err == nil {
			fields = next
		}
	}
	return fields
}

func unknown(f catalog.Family, field string) error {
	return fmt.Errorf("%w: %q is not a %s filter", ErrUnknownField, field, f)
}

// RealEstateFields filters houses and land by room counts.
type RealEstateFields struct {
	MinBedrooms  string `json:"minBedrooms,omitempty"`
	MaxBedrooms  string `json:"maxBedrooms,omitempty"`
	MinBathrooms string `json:"minBathrooms,omitempty"`
	MaxBathrooms string `json:"maxBathrooms,omitempty"`
}

func (RealEstateFields) Family() catalog.Family { return catalog.FamilyRealEstate }

func (f RealEstateFields) Set(field, value string) (CategoryFields, error) {
	switch field {
	case "minBedrooms":
		f.MinBedrooms = value
	case "maxBedrooms":
		f.MaxBedrooms = value
	case "minBathrooms":
		f.MinBathrooms = value
	case "maxBathrooms":
		f.MaxBathrooms = value
	default:
		return f, unknown(f.Family(), field)
	}
	return f, nil
}

func (f RealEstateFields) Values() map[string]string {
	return map[string]string{
		"minBedrooms":  f.MinBedrooms,
		"maxBedrooms":  f.MaxBedrooms,
		"minBathrooms": f.MinBathrooms,
		"maxBathrooms": f.MaxBathrooms,
	}
}

func (f RealEstateFields) match(p *models.Product) bool {
	return inRange(intValue(p.Bedrooms), f.MinBedrooms, f.MaxBedrooms) &&
		inRange(intValue(p.Bathrooms), f.MinBathrooms, f.MaxBathrooms)
}

// VehicleFields filters cars and motorbikes.
type VehicleFields struct {
	Make       string `json:"make,omitempty"`
	Model      string `json:"model,omitempty"`
	MinYear    string `json:"minYear,omitempty"`
	MaxYear    string `json:"maxYear,omitempty"`
	MinMileage string `json:"minMileage,omitempty"`
	MaxMileage string `json:"maxMileage,omitempty"`
}

func (VehicleFields) Family() catalog.Family { return catalog.FamilyVehicle }

func (f VehicleFields) Set(field, value string) (CategoryFields, error) {
	switch field {
	case "make":
		f.Make = value
	case "model":
		f.Model = value
	case "minYear":
		f.MinYear = value
	case "maxYear":
		f.MaxYear = value
	case "minMileage":
		f.MinMileage = value
	case "maxMileage":
		f.MaxMileage = value
	default:
		return f, unknown(f.Family(), field)
	}
	return f, nil
}

func (f VehicleFields) Values() map[string]string {
	return map[string]string{
		"make":       f.Make,
		"model":      f.Model,
		"minYear":    f.MinYear,
		"maxYear":    f.MaxYear,
		"minMileage": f.MinMileage,
		"maxMileage": f.MaxMileage,
	}
}

func (f VehicleFields) match(p *models.Product) bool {
	if f.Make != "" && strValue(p.VehicleMake) != f.Make {
		return false
	}
	if f.Model != "" && !containsFold(strValue(p.VehicleModel), f.Model) {
		return false
	}
	return inRange(intValue(p.VehicleYear), f.MinYear, f.MaxYear) &&
		inRange(intValue(p.VehicleMileage), f.MinMileage, f.MaxMileage)
}

// CapacityFields filters construction machinery and party equipment.
type CapacityFields struct {
	MinCapacity  string `json:"minCapacity,omitempty"`
	MaxCapacity  string `json:"maxCapacity,omitempty"`
	CapacityUnit string `json:"capacityUnit,omitempty"`
}

func (CapacityFields) Family() catalog.Family { return catalog.FamilyCapacity }

func (f CapacityFields) Set(field, value string) (CategoryFields, error) {
	switch field {
	case "minCapacity":
		f.MinCapacity = value
	case "maxCapacity":
		f.MaxCapacity = value
	case "capacityUnit":
		f.CapacityUnit = value
	default:
		return f, unknown(f.Family(), field)
	}
	return f, nil
}

func (f CapacityFields) Values() map[string]string {
	return map[string]string{
		"minCapacity":  f.MinCapacity,
		"maxCapacity":  f.MaxCapacity,
		"capacityUnit": f.CapacityUnit,
	}
}

func (f CapacityFields) match(p *models.Product) bool {
	if !inRange(p.Capacity, f.MinCapacity, f.MaxCapacity) {
		return false
	}
	return f.CapacityUnit == "" || strValue(p.CapacityUnit) == f.CapacityUnit
}

// TechFields filters computers and phones.
type TechFields struct {
	MinRAM     string `json:"minRam,omitempty"`
	MaxRAM     string `json:"maxRam,omitempty"`
	MinStorage string `json:"minStorage,omitempty"`
	MaxStorage string `json:"maxStorage,omitempty"`
	Processor  string `json:"processor,omitempty"`
}

func (TechFields) Family() catalog.Family { return catalog.FamilyTech }

func (f TechFields) Set(field, value string) (CategoryFields, error) {
	switch field {
	case "minRam":
		f.MinRAM = value
	case "maxRam":
		f.MaxRAM = value
	case "minStorage":
		f.MinStorage = value
	case "maxStorage":
		f.MaxStorage = value
	case "processor":
		f.Processor = value
	default:
		return f, unknown(f.Family(), field)
	}
	return f, nil
}

func (f TechFields) Values() map[string]string {
	return map[string]string{
		"minRam":     f.MinRAM,
		"maxRam":     f.MaxRAM,
		"minStorage": f.MinStorage,
		"maxStorage": f.MaxStorage,
		"processor":  f.Processor,
	}
}

func (f TechFields) match(p *models.Product) bool {
	if !inRange(intValue(p.TechRAM), f.MinRAM, f.MaxRAM) ||
		!inRange(intValue(p.TechStorage), f.MinStorage, f.MaxStorage) {
		return false
	}
	return f.Processor == "" || strValue(p.TechProcessor) == f.Processor
}

func intValue(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func strValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
