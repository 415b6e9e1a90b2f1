// Package catalog holds the static marketplace data: categories, the Rwandan
// administrative hierarchy and the option lists the filter panels offer.
package catalog

// Category is a fixed marketplace vertical.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameEn      string `json:"nameEn"`
	Icon        string `json:"icon"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Category ids.
const (
	RealEstate   = "real_estate"
	Vehicles     = "vehicles"
	Construction = "construction"
	Tools        = "tools"
	Party        = "party"
	Tech         = "tech"
)

// Family groups categories that share a filter panel.
type Family string

const (
	FamilyNone       Family = ""
	FamilyRealEstate Family = "real_estate"
	FamilyVehicle    Family = "vehicle"
	FamilyCapacity   Family = "capacity"
	FamilyTech       Family = "tech"
)

var categories = []Category{
	{
		ID:          RealEstate,
		Name:        "Imitungo itimukanwa",
		NameEn:      "Real Estate / Property",
		Icon:        "🏠",
		Image:       "https://images.unsplash.com/photo-1560518883-ce09059eeffa?w=800&q=80",
		Description: "Inzu, ubutaka, n'imitungo",
	},
	{
		ID:          Vehicles,
		Name:        "Imodoka n'ibinyabiziga",
		NameEn:      "Cars and Vehicles",
		Icon:        "🚗",
		Image:       "https://images.unsplash.com/photo-1494976388531-d1058494cdd8?w=800&q=80",
		Description: "Imodoka, moto, n'ibinyabiziga",
	},
	{
		ID:          Construction,
		Name:        "Imashini z'ubwubatsi",
		NameEn:      "Construction Machinery",
		Icon:        "🏗️",
		Image:       "https://images.unsplash.com/photo-1504307651254-35680f356dfd?w=800&q=80",
		Description: "Imashini ziremereye z'ubwubatsi",
	},
	{
		ID:          Tools,
		Name:        "Ibikoresho by'akazi",
		NameEn:      "Work Tools",
		Icon:        "⚙️",
		Image:       "https://images.unsplash.com/photo-1581092160562-40aa08e78837?w=800&q=80",
		Description: "Ibikoresho n'imashini z'akazi",
	},
	{
		ID:          Party,
		Name:        "Ibikoresho by'ibirori",
		NameEn:      "Party Equipment",
		Icon:        "🎉",
		Image:       "https://images.unsplash.com/photo-1533174072545-7a4b6ad7a6c3?w=800&q=80",
		Description: "Ibikoresho by'ibirori n'iminsi mikuru",
	},
	{
		ID:          Tech,
		Name:        "Ibikoresho by'ikoranabuhanga",
		NameEn:      "Tech Equipment",
		Icon:        "💻",
		Image:       "https://images.unsplash.com/photo-1518770660439-4636190af475?w=800&q=80",
		Description: "Mudasobwa, telefone, n'ibikoresho bya elegitoronike",
	},
}

// Categories returns a copy of the registry in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID looks a category up by id.
func CategoryByID(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// IsCategory reports whether id names a registered category.
func IsCategory(id string) bool {
	_, ok := CategoryByID(id)
	return ok
}

// FamilyOf returns the filter panel family for a category id.
// Tools and unknown ids have no category-specific panel.
func FamilyOf(id string) Family {
	switch id {
	case RealEstate:
		return FamilyRealEstate
	case Vehicles:
		return FamilyVehicle
	case Construction, Party:
		return FamilyCapacity
	case Tech:
		return FamilyTech
	default:
		return FamilyNone
	}
}
