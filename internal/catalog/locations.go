package catalog

import "sort"

// locations maps Province -> District -> Sectors.
var locations = map[string]map[string][]string{
	"Kigali City": {
		"Gasabo":     {"Bumbogo", "Gatsata", "Jali", "Kimihurura", "Kacyiru", "Kinyinya", "Nyarutarama", "Remera", "Rusororo", "Gisozi"},
		"Kicukiro":   {"Gatenga", "Gikondo", "Niboye", "Kicukiro", "Masaka", "Kanombe", "Nyarugunga"},
		"Nyarugenge": {"Gitega", "Kanyinya", "Kigali", "Mageragere", "Muhima", "Nyakabanda", "Nyamirambo", "Nyarugenge", "Rwezamenyo", "Kimisagara"},
	},
	"Northern Province": {
		"Musanze": {"Busogo", "Cyuve", "Gataraga", "Kimonyi", "Muhoza", "Musanze", "Nkotsi", "Remera"},
		"Burera":  {"Bungwe", "Gahunga", "Kinyababa", "Musasa", "Cyeru", "Rugarama", "Burera", "Ruhunde", "Rwerere", "Cyanika"},
		"Gicumbi": {"Bukure", "Byumba", "Cyumba", "Gicumbi", "Kaniga", "Manyagiro", "Mukarange", "Mutete", "Rubaya", "Rushaki"},
		"Rulindo": {"Base", "Burega", "Bushoki", "Cyinzuzi", "Kinihira", "Mataba", "Mbogo", "Mugote", "Nyamiyaga", "Rulindo", "Shyorongi"},
	},
	"Southern Province": {
		"Huye":      {"Gishamvu", "Karama", "Kigoma", "Kinazi", "Maraba", "Ngoma", "Tumba", "Huye"},
		"Nyamagabe": {"Buruhukiro", "Cyanika", "Kaduha", "Kamegeli", "Kibirizi", "Muganza", "Mugombwa", "Nyabimata", "Nyamagabe", "Tare"},
		"Nyanza":    {"Busasamana", "Busoro", "Cyabakamyi", "Kibilizi", "Maraba", "Ngeruka", "Ntyazo", "Nyanza", "Rugarama"},
		"Gisagara":  {"Gikonko", "Gishubi", "Kansi", "Mugombwa", "Musha", "Ndora", "Nyanza", "Save"},
		"Ruhango":   {"Bweramana", "Kinazi", "Ruhango", "Byimana", "Huye", "Ntongwe"},
	},
	"Eastern Province": {
		"Kayonza":   {"Gahini", "Kabare", "Murama", "Mwiri", "Ruramira", "Kayonza"},
		"Kirehe":    {"Gahara", "Kigarama", "Kirehe", "Mpanga", "Nyamugari", "Rubona"},
		"Ngoma":     {"Gashanda", "Jarama", "Kibungo", "Mirama", "Nkombo", "Shyara", "Sake", "Ngoma"},
		"Bugesera":  {"Gashora", "Juru", "Ntarama", "Nyamata", "Rilima", "Ruhuha", "Mayange"},
		"Rwamagana": {"Fumbwe", "Muhazi", "Nzige", "Rubona", "Rwamagana", "Mwurire"},
	},
	"Western Province": {
		"Rubavu":     {"Busasamana", "Cyanzarwe", "Gisenyi", "Kanama", "Nyundo", "Rubavu", "Rwaza", "Rugerero"},
		"Nyabihu":    {"Cyabingo", "Kabatwa", "Jomba", "Nyabihu", "Shyira", "Rugerero"},
		"Rusizi":     {"Bugarama", "Gikundamvura", "Kamembe", "Muganza", "Nkungu", "Nyakarenzo", "Rusizi", "Rwimbogo"},
		"Karongi":    {"Bwishyura", "Gitesi", "Mutuntu", "Rubengera", "Rwankuba", "Murambi", "Rugabano", "Karongi"},
		"Nyamasheke": {"Bushekeri", "Gihundwe", "Jenda", "Kanjongo", "Karambi", "Nyamasheke", "Shangi"},
		"Ngororero":  {"Bwira", "Gatenga", "Ndaro", "Shyorongi", "Rugabano", "Mugote"},
	},
}

var provinceOrder = []string{
	"Kigali City",
	"Northern Province",
	"Southern Province",
	"Eastern Province",
	"Western Province",
}

// Provinces returns the provinces in display order.
func Provinces() []string {
	out := make([]string, len(provinceOrder))
	copy(out, provinceOrder)
	return out
}

// Districts returns the districts of a province sorted by name, or nil for an
// unknown province.
func Districts(province string) []string {
	districts, ok := locations[province]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(districts))
	for d := range districts {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Sectors returns the sectors of a district. A sector is only meaningful
// paired with its district and province, so both are required.
func Sectors(province, district string) []string {
	sectors, ok := locations[province][district]
	if !ok {
		return nil
	}
	out := make([]string, len(sectors))
	copy(out, sectors)
	return out
}

// ValidLocation reports whether every non-empty level exists under its parent.
// Empty trailing levels are allowed; a level set below an empty parent is not.
func ValidLocation(province, district, sector string) bool {
	if province == "" {
		return district == "" && sector == ""
	}
	districts, ok := locations[province]
	if !ok {
		return false
	}
	if district == "" {
		return sector == ""
	}
	sectors, ok := districts[district]
	if !ok {
		return false
	}
	if sector == "" {
		return true
	}
	for _, s := range sectors {
		if s == sector {
			return true
		}
	}
	return false
}

// CompleteLocation reports whether all three levels are set and consistent.
func CompleteLocation(province, district, sector string) bool {
	return province != "" && district != "" && sector != "" && ValidLocation(province, district, sector)
}
