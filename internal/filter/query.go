package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/umuhuza/umuhuza_api/internal/catalog"
	"github.com/umuhuza/umuhuza_api/internal/models"
)

// Sort keys accepted by the product store.
const (
	SortNewest     = "-created_date"
	SortPriceAsc   = "price"
	SortPriceDesc  = "-price"
	SortMostViewed = "-views"
	SortTopRated   = "-average_rating"

	DefaultSort = SortNewest
)

var sortKeys = map[string]bool{
	SortNewest:     true,
	SortPriceAsc:   true,
	SortPriceDesc:  true,
	SortMostViewed: true,
	SortTopRated:   true,
}

// NormalizeSort maps unknown or empty keys to DefaultSort.
func NormalizeSort(key string) string {
	if sortKeys[key] {
		return key
	}
	return DefaultSort
}

// ServerQuery is the coarse server tier: approved products, narrowed by each
// of category, action and location that is set.
func (s State) ServerQuery(limit int) models.ProductQuery {
	return models.ProductQuery{
		Status:     models.ProductApproved,
		Category:   s.Category,
		ActionType: s.ActionType,
		Province:   s.Location.Province,
		District:   s.Location.District,
		Sector:     s.Location.Sector,
		Sort:       NormalizeSort(s.Sort),
		Limit:      limit,
	}
}

// QueryKey identifies a server query. Two states with the same key fetch the same rows.
func QueryKey(q models.ProductQuery) string {
	var b strings.Builder
	b.WriteString("products")
	for _, kv := range [][2]string{
		{"status", string(q.Status)},
		{"category", q.Category},
		{"action", q.ActionType},
		{"province", q.Province},
		{"district", q.District},
		{"sector", q.Sector},
		{"sort", q.Sort},
		{"limit", strconv.Itoa(q.Limit)},
	} {
		b.WriteString("|")
		b.WriteString(kv[0])
		b.WriteString("=")
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}

// Query string parameter names.
const (
	ParamSearch   = "q"
	ParamCategory = "category"
	ParamAction   = "action"
	ParamProvince = "province"
	ParamDistrict = "district"
	ParamSector   = "sector"
	ParamSort     = "sort"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
)

// FromQuery seeds a state from URL parameters. Unknown categories and actions
// are ignored, and a location level that does not belong to its parent is
// dropped together with its children.
func FromQuery(q url.Values) State {
	s := NewState()
	s.SearchTerm = q.Get(ParamSearch)
	if c := q.Get(ParamCategory); catalog.IsCategory(c) {
		s.SetCategory(c)
	}
	if a := models.ActionType(q.Get(ParamAction)); a.Valid() {
		s.ActionType = string(a)
	}
	s.Location = sanitizeLocation(q.Get(ParamProvince), q.Get(ParamDistrict), q.Get(ParamSector))
	s.SetSort(q.Get(ParamSort))
	s.SetPriceRange(q.Get(ParamMinPrice), q.Get(ParamMaxPrice))
	if s.Fields != nil {
		values := map[string]string{}
		for k := range s.Fields.Values() {
			if v := q.Get(k); v != "" {
				values[k] = v
			}
		}
		s.Fields = FieldsFromValues(s.Category, values)
	}
	return s
}

// ToQuery encodes the state so FromQuery can rebuild it. Unset values are omitted.
func (s State) ToQuery() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set(ParamSearch, s.SearchTerm)
	set(ParamCategory, s.Category)
	set(ParamAction, s.ActionType)
	set(ParamProvince, s.Location.Province)
	set(ParamDistrict, s.Location.District)
	set(ParamSector, s.Location.Sector)
	if s.Sort != DefaultSort {
		set(ParamSort, s.Sort)
	}
	set(ParamMinPrice, s.PriceRange.Min)
	set(ParamMaxPrice, s.PriceRange.Max)

	values := s.FieldValues()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		set(k, values[k])
	}
	return q
}

func sanitizeLocation(province, district, sector string) Location {
	var l Location
	if province == "" || !catalog.ValidLocation(province, "", "") {
		return l
	}
	l.SelectProvince(province)
	if district == "" || !catalog.ValidLocation(province, district, "") {
		return l
	}
	l.SelectDistrict(district)
	if sector != "" && catalog.ValidLocation(province, district, sector) {
		l.SelectSector(sector)
	}
	return l
}
