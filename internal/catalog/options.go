package catalog

import (
	"fmt"
	"time"
)

// VehicleMakes lists the makes offered by the vehicle filter and publish form.
var VehicleMakes = []string{
	"Toyota", "Honda", "Nissan", "Mercedes-Benz", "BMW", "Volkswagen", "Hyundai", "Kia",
	"Mazda", "Mitsubishi", "Suzuki", "Ford", "Chevrolet", "Jeep", "Land Rover", "Isuzu",
}

// RAMOptions are in GB.
var RAMOptions = []int{4, 8, 16, 32, 64, 128}

// StorageOptions are in GB.
var StorageOptions = []int{64, 128, 256, 512, 1000, 2000}

// Processors lists the CPU families offered by the tech filter.
var Processors = []string{
	"Intel Core i3", "Intel Core i5", "Intel Core i7", "Intel Core i9",
	"AMD Ryzen 3", "AMD Ryzen 5", "AMD Ryzen 7", "AMD Ryzen 9",
	"Apple M1", "Apple M2", "Apple M3", "Snapdragon",
}

var capacityUnits = map[string][]string{
	Construction: {"tons", "cubic meters", "horsepower", "kW"},
	Party:        {"abantu", "intebe", "ameza"},
}

const vehicleYearSpan = 30

// CapacityUnits returns the units valid for a capacity-based category.
func CapacityUnits(category string) []string {
	units := capacityUnits[category]
	out := make([]string, len(units))
	copy(out, units)
	return out
}

// VehicleYears returns the 30 most recent calendar years, newest first.
func VehicleYears(now time.Time) []int {
	current := now.Year()
	years := make([]int, vehicleYearSpan)
	for i := range years {
		years[i] = current - i
	}
	return years
}

// StorageLabel renders a storage option, switching to TB from 1000 GB.
func StorageLabel(gb int) string {
	if gb >= 1000 {
		if gb%1000 == 0 {
			return fmt.Sprintf("%d TB", gb/1000)
		}
		return fmt.Sprintf("%.1f TB", float64(gb)/1000)
	}
	return fmt.Sprintf("%d GB", gb)
}

// Option is a value/label pair for select inputs.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PanelOptions describes the pickers a category filter panel renders.
type PanelOptions struct {
	Category      string   `json:"category"`
	Family        Family   `json:"family"`
	Fields        []string `json:"fields"`
	VehicleMakes  []string `json:"vehicleMakes,omitempty"`
	VehicleYears  []int    `json:"vehicleYears,omitempty"`
	RAM           []Option `json:"ram,omitempty"`
	Storage       []Option `json:"storage,omitempty"`
	Processors    []string `json:"processors,omitempty"`
	CapacityUnits []string `json:"capacityUnits,omitempty"`
	CapacityLabel string   `json:"capacityLabel,omitempty"`
}

// PanelFields lists the field keys each family accepts.
var PanelFields = map[Family][]string{
	FamilyRealEstate: {"minBedrooms", "maxBedrooms", "minBathrooms", "maxBathrooms"},
	FamilyVehicle:    {"make", "model", "minYear", "maxYear", "minMileage", "maxMileage"},
	FamilyCapacity:   {"minCapacity", "maxCapacity", "capacityUnit"},
	FamilyTech:       {"minRam", "maxRam", "minStorage", "maxStorage", "processor"},
}

// OptionsFor builds the panel description for a category at time now.
func OptionsFor(category string, now time.Time) (PanelOptions, bool) {
	if !IsCategory(category) {
		return PanelOptions{}, false
	}
	family := FamilyOf(category)
	opts := PanelOptions{
		Category: category,
		Family:   family,
		Fields:   append([]string(nil), PanelFields[family]...),
	}
	switch family {
	case FamilyVehicle:
		opts.VehicleMakes = append([]string(nil), VehicleMakes...)
		opts.VehicleYears = VehicleYears(now)
	case FamilyCapacity:
		opts.CapacityUnits = CapacityUnits(category)
		if category == Construction {
			opts.CapacityLabel = "Ubushobozi (Capacity)"
		} else {
			opts.CapacityLabel = "Ubushobozi (Abantu/Intebe)"
		}
	case FamilyTech:
		for _, gb := range RAMOptions {
			opts.RAM = append(opts.RAM, Option{Value: fmt.Sprint(gb), Label: fmt.Sprintf("%d GB", gb)})
		}
		for _, gb := range StorageOptions {
			opts.Storage = append(opts.Storage, Option{Value: fmt.Sprint(gb), Label: StorageLabel(gb)})
		}
		opts.Processors = append([]string(nil), Processors...)
	}
	return opts, true
}
