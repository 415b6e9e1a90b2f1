package filter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/umuhuza/umuhuza_api/internal/catalog"
	"github.com/umuhuza/umuhuza_api/internal/models"
)

func TestSetCategoryResetsFields(t *testing.T) {
	s := stateWith(catalog.Vehicles, map[string]string{"make": "Toyota", "minYear": "2018"})

	s.SetCategory(catalog.Tech)
	if diff := cmp.Diff(TechFields{}, s.Fields); diff != "" {
		t.Errorf("fields after category change (-want +got):\n%s", diff)
	}

	// Switching back does not resurrect the old vehicle fields.
	s.SetCategory(catalog.Vehicles)
	if diff := cmp.Diff(VehicleFields{}, s.Fields); diff != "" {
		t.Errorf("fields after switching back (-want +got):\n%s", diff)
	}

	s.SetCategory(catalog.Tools)
	if s.Fields != nil {
		t.Errorf("tools should have no fields, got %#v", s.Fields)
	}
}

func TestCategoryChangeAffectsNextMatch(t *testing.T) {
	s := stateWith(catalog.Vehicles, map[string]string{"make": "Honda"})
	p := models.Product{Category: catalog.Construction, Capacity: floatp(10)}

	s.SetCategory(catalog.Construction)
	if !s.Match(&p) {
		t.Error("vehicle field leaked into construction predicate")
	}
}

func TestSetFieldKeepsSiblings(t *testing.T) {
	s := stateWith(catalog.RealEstate, map[string]string{"minBedrooms": "2"})
	if err := s.SetField("maxBedrooms", "5"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	want := RealEstateFields{MinBedrooms: "2", MaxBedrooms: "5"}
	if diff := cmp.Diff(want, s.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFieldUnknownKey(t *testing.T) {
	s := stateWith(catalog.RealEstate, map[string]string{"minBedrooms": "2"})
	before := s

	err := s.SetField("make", "Toyota")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("state changed on rejected field (-want +got):\n%s", diff)
	}

	empty := NewState()
	if err := empty.SetField("minBedrooms", "1"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("err without category = %v, want ErrUnknownField", err)
	}
}

func TestLocationSelectionClearsChildren(t *testing.T) {
	l := Location{Province: "Kigali City", District: "Gasabo", Sector: "Remera"}

	l.SelectDistrict("Kicukiro")
	if diff := cmp.Diff(Location{Province: "Kigali City", District: "Kicukiro"}, l); diff != "" {
		t.Errorf("after district change (-want +got):\n%s", diff)
	}

	l.SelectSector("Gikondo")
	l.SelectProvince("Northern Province")
	if diff := cmp.Diff(Location{Province: "Northern Province"}, l); diff != "" {
		t.Errorf("after province change (-want +got):\n%s", diff)
	}
}

func TestActiveCount(t *testing.T) {
	tests := []struct {
		name  string
		state func() State
		want  int
	}{
		{"empty", NewState, 0},
		{"category and one tech field", func() State {
			return stateWith(catalog.Tech, map[string]string{"minRam": "8", "processor": ""})
		}, 2},
		{"top level fields", func() State {
			s := NewState()
			s.SetActionType("rent")
			s.Location = Location{Province: "Kigali City", District: "Gasabo", Sector: "Remera"}
			s.SetPriceRange("1", "2")
			return s
		}, 4},
		{"search and sort do not count", func() State {
			s := NewState()
			s.SetSearchTerm("inzu")
			s.SetSort(SortPriceAsc)
			return s
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state().ActiveCount(); got != tt.want {
				t.Errorf("ActiveCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClear(t *testing.T) {
	s := stateWith(catalog.Vehicles, map[string]string{"make": "Toyota"})
	s.SetSearchTerm("rav4")
	s.SetActionType("sell")
	s.Location = Location{Province: "Kigali City", District: "Gasabo", Sector: "Remera"}
	s.SetPriceRange("1", "9")
	s.SetSort(SortPriceDesc)

	s.Clear()

	want := State{Sort: DefaultSort}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("cleared state mismatch (-want +got):\n%s", diff)
	}
	if len(s.FieldValues()) != 0 {
		t.Errorf("cleared fields = %v, want empty", s.FieldValues())
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := stateWith(catalog.Tech, map[string]string{"minRam": "8", "processor": "Apple M1"})
	s.SetActionType("sell")
	s.Location = Location{Province: "Kigali City", District: "Nyarugenge", Sector: "Nyamirambo"}
	s.SetPriceRange("", "900000")
	s.SetSearchTerm("laptop")
	s.SetSort(SortTopRated)

	category, action, snap := s.Snapshot()
	got := FromSnapshot(category, action, snap)

	want := s
	want.SearchTerm = ""
	want.Sort = DefaultSort
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSnapshotPartial(t *testing.T) {
	got := FromSnapshot(catalog.RealEstate, "", models.FilterSnapshot{Province: "Eastern Province"})
	want := State{
		Category: catalog.RealEstate,
		Location: Location{Province: "Eastern Province"},
		Sort:     DefaultSort,
		Fields:   RealEstateFields{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partial snapshot mismatch (-want +got):\n%s", diff)
	}
}
