package models

// Countries offered by address forms, in display order.
var Countries = []string{"United States", "United Kingdom", "Canada"}

// DefaultCountry is preselected on address forms.
const DefaultCountry = "United States"

// Zones lists the regions selectable for each country.
var Zones = map[string][]string{
	"United States":  {"California", "Florida", "New York", "Texas", "Washington"},
	"United Kingdom": {"Greater London", "Merseyside", "West Yorkshire"},
	"Canada":         {"British Columbia", "Ontario", "Quebec"},
}

func ValidCountry(country string) bool {
	_, ok := Zones[country]
	return ok
}

func ValidZone(country, zone string) bool {
	for _, z := range Zones[country] {
		if z == zone {
			return true
		}
	}
	return false
}
