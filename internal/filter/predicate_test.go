package filter

import (
	"testing"

	"github.com/umuhuza/umuhuza_api/internal/catalog"
	"github.com/umuhuza/umuhuza_api/internal/models"
)

func intp(v int) *int           { return &v }
func strp(v string) *string     { return &v }
func floatp(v float64) *float64 { return &v }

func stateWith(category string, fields map[string]string) State {
	s := NewState()
	s.SetCategory(category)
	for k, v := range fields {
		if err := s.SetField(k, v); err != nil {
			panic(err)
		}
	}
	return s
}

func TestMatch(t *testing.T) {
	toyota := models.Product{
		Title:        "Toyota RAV4",
		Description:  "Clean, one owner",
		Category:     catalog.Vehicles,
		Price:        8000000,
		VehicleMake:  strp("Toyota"),
		VehicleModel: strp("RAV4 Hybrid"),
		VehicleYear:  intp(2019),
	}
	house := models.Product{
		Title:     "Inzu i Kacyiru",
		Category:  catalog.RealEstate,
		Price:     60000000,
		Bedrooms:  intp(3),
		Bathrooms: intp(2),
	}
	laptop := models.Product{
		Title:         "MacBook Pro",
		Category:      catalog.Tech,
		Price:         2500000,
		TechRAM:       intp(16),
		TechStorage:   intp(512),
		TechProcessor: strp("Apple M2"),
	}
	tent := models.Product{
		Title:        "Ihema ry'ubukwe",
		Category:     catalog.Party,
		Price:        150000,
		Capacity:     floatp(200),
		CapacityUnit: strp("abantu"),
	}

	tests := []struct {
		name    string
		state   State
		product models.Product
		want    bool
	}{
		{"empty state passes", NewState(), toyota, true},
		{"make and min year pass", stateWith(catalog.Vehicles, map[string]string{"make": "Toyota", "minYear": "2018"}), toyota, true},
		{"min year above product", stateWith(catalog.Vehicles, map[string]string{"make": "Toyota", "minYear": "2020"}), toyota, false},
		{"year bound is inclusive", stateWith(catalog.Vehicles, map[string]string{"minYear": "2019", "maxYear": "2019"}), toyota, true},
		{"model substring ignores case", stateWith(catalog.Vehicles, map[string]string{"model": "rav4"}), toyota, true},
		{"make is exact", stateWith(catalog.Vehicles, map[string]string{"make": "toyota"}), toyota, false},
		{"non numeric bound is unset", stateWith(catalog.Vehicles, map[string]string{"minYear": "abc"}), toyota, true},
		{"bedrooms in range", stateWith(catalog.RealEstate, map[string]string{"minBedrooms": "2", "maxBedrooms": "3"}), house, true},
		{"bathrooms below min", stateWith(catalog.RealEstate, map[string]string{"minBathrooms": "3"}), house, false},
		{"ram and processor", stateWith(catalog.Tech, map[string]string{"minRam": "8", "processor": "Apple M2"}), laptop, true},
		{"storage above max", stateWith(catalog.Tech, map[string]string{"maxStorage": "256"}), laptop, false},
		{"capacity with unit", stateWith(catalog.Party, map[string]string{"minCapacity": "100", "capacityUnit": "abantu"}), tent, true},
		{"capacity unit mismatch", stateWith(catalog.Party, map[string]string{"capacityUnit": "intebe"}), tent, false},
		{"panel skipped for other category", stateWith(catalog.Vehicles, map[string]string{"make": "Honda"}), house, true},
		{"missing numeric attribute passes bound", stateWith(catalog.Vehicles, map[string]string{"minMileage": "1000"}), toyota, true},
		{"missing make fails exact match", stateWith(catalog.Vehicles, map[string]string{"make": "Toyota"}), models.Product{Category: catalog.Vehicles}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Match(&tt.product); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchPriceRange(t *testing.T) {
	s := NewState()
	s.SetPriceRange("5000000", "")

	if s.Match(&models.Product{Price: 4000000}) {
		t.Error("product below min price included")
	}
	if !s.Match(&models.Product{Price: 6000000}) {
		t.Error("product above min price excluded")
	}
	if !s.Match(&models.Product{Price: 5000000}) {
		t.Error("product at min price excluded")
	}
}

func TestMatchSearchTerm(t *testing.T) {
	s := NewState()
	s.SetSearchTerm("KACYIRU")

	if !s.Match(&models.Product{Title: "Inzu i Kacyiru"}) {
		t.Error("title match excluded")
	}
	if !s.Match(&models.Product{Title: "Inzu", Description: "hafi ya kacyiru"}) {
		t.Error("description match excluded")
	}
	if s.Match(&models.Product{Title: "Inzu", Description: "Remera"}) {
		t.Error("non matching product included")
	}
}

func TestMatchSearchTermIsNotTrimmed(t *testing.T) {
	s := NewState()
	s.SetSearchTerm(" rav4 ")

	if s.Match(&models.Product{Title: "Toyota RAV4"}) {
		t.Error("padded term matched text without the surrounding spaces")
	}
	if !s.Match(&models.Product{Title: "Toyota RAV4 2019"}) {
		t.Error("padded term did not match text containing it")
	}

	s.SetSearchTerm("   ")
	if s.Match(&models.Product{Title: "Toyota RAV4"}) {
		t.Error("blank term matched a title without spaces")
	}
}

func TestNoCategoryIgnoresStrayFields(t *testing.T) {
	// A state built by hand with fields but no category must not evaluate them.
	s := NewState()
	s.Fields = VehicleFields{Make: "Honda"}

	p := models.Product{Category: catalog.Vehicles, VehicleMake: strp("Toyota")}
	if !s.Match(&p) {
		t.Error("fields evaluated without a selected category")
	}
}

func TestRangeFilterNeverGrows(t *testing.T) {
	s := stateWith(catalog.RealEstate, map[string]string{"minBedrooms": "2", "maxBedrooms": "4"})
	products := []models.Product{
		{Category: catalog.RealEstate, Bedrooms: intp(3)},
		{Category: catalog.RealEstate, Bedrooms: intp(4)},
	}
	base := len(s.Apply(products))

	for _, n := range []int{0, 1, 5, 9} {
		products = append(products, models.Product{Category: catalog.RealEstate, Bedrooms: intp(n)})
		got := s.Apply(products)
		if len(got) != base {
			t.Fatalf("adding out of range product changed count to %d, want %d", len(got), base)
		}
		for _, p := range got {
			if *p.Bedrooms < 2 || *p.Bedrooms > 4 {
				t.Fatalf("out of range product %d included", *p.Bedrooms)
			}
		}
	}
}
