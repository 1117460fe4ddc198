package airapi

import "sort"

// Location is where a sensor controller is installed, as resolved by the backend
// from the controller's IP address.
type Location struct {
	Country    string  `json:"country"`
	City       string  `json:"city"`
	RegionName string  `json:"regionName"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// isoCodes maps country names to ISO 3166-1 alpha-3 codes, which is what the map
// layer keys countries by.
var isoCodes = map[string]string{
	"Pakistan":             "PAK",
	"India":                "IND",
	"Afghanistan":          "AFG",
	"Iran":                 "IRN",
	"China":                "CHN",
	"United Arab Emirates": "ARE",
	"Saudi Arabia":         "SAU",
	"United Kingdom":       "GBR",
	"United States":        "USA",
	"Germany":              "DEU",
}

// ISOCode returns the alpha-3 code of the location's country, or "" if it isn't known.
func (l Location) ISOCode() string {
	return isoCodes[l.Country]
}

type CountryCount struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

// CountByCountry counts controllers per country. Locations in unknown countries are
// skipped. The result is sorted by count, largest first, then by code.
func CountByCountry(locs []Location) []CountryCount {
	counts := make(map[string]int)
	for _, l := range locs {
		if code := l.ISOCode(); code != "" {
			counts[code]++
		}
	}

	out := make([]CountryCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, CountryCount{ID: id, Value: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].ID < out[j].ID
	})
	return out
}
