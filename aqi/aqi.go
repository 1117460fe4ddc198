// Package aqi computes the US EPA Air Quality Index of dust readings.
package aqi

import "math"

type bucket struct {
	lowerLimit float64
	upperLimit float64
	lowerIndex float64
	upperIndex float64
}

// PM2.5 breakpoints in µg/m³.
var dustBuckets = []bucket{
	{0, 12.0, 0, 50},
	{12.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 150.4, 151, 200},
	{150.5, 250.4, 201, 300},
	{250.5, 350.4, 301, 400},
	{350.5, 500.4, 401, 500},
}

type category struct {
	upper int
	name  string
	abbrv string
}

// Upper bounds are inclusive. The last category catches everything above 300.
var categories = []category{
	{50, "Good", "G"},
	{100, "Moderate", "M"},
	{150, "Unhealthy for Sensitive Groups", "USG"},
	{200, "Unhealthy", "U"},
	{300, "Very Unhealthy", "VU"},
	{math.MaxInt, "Hazardous", "H"},
}

func scale(pm float64, b bucket) float64 {
	return ((b.upperIndex-b.lowerIndex)/(b.upperLimit-b.lowerLimit))*(pm-b.lowerLimit) + b.lowerIndex
}

// Dust is the AQI of a dust reading. The dashboard's dust sensors report fine
// particles in µg/m³, so this is the PM2.5 index. Concentrations past the table
// are capped at 500.
func Dust(pm float64) int {
	if pm < dustBuckets[0].lowerLimit {
		return 0
	}

	for _, b := range dustBuckets {
		if pm <= b.upperLimit {
			return int(math.Round(scale(pm, b)))
		}
	}

	return 500
}

func categoryOf(aqi int) category {
	for _, c := range categories {
		if aqi <= c.upper {
			return c
		}
	}
	return categories[len(categories)-1]
}

// Level is an index together with its category, ready for display.
type Level struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Abbrv string `json:"abbrv"`
}

// DustLevel returns the Level for a dust reading.
func DustLevel(pm float64) Level {
	i := Dust(pm)
	c := categoryOf(i)
	return Level{Index: i, Name: c.name, Abbrv: c.abbrv}
}
