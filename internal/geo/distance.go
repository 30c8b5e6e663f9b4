// Package geo provides great-circle distance helpers used by the matching
// engine and presentation layer.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusMiles is the spherical-earth approximation radius.
const earthRadiusMiles = 3959

// Miles returns the haversine great-circle distance in miles between two
// latitude/longitude pairs. It is symmetric and returns 0 for coincident
// points. Inputs are not validated; NaN propagates to the result.
func Miles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// FormatMiles renders a distance for display: feet below one mile, one
// decimal below ten miles, whole miles otherwise.
func FormatMiles(miles float64) string {
	if miles < 1 {
		return fmt.Sprintf("%.0f ft away", miles*5280)
	}
	if miles < 10 {
		return fmt.Sprintf("%.1f mi away", miles)
	}
	return fmt.Sprintf("%d mi away", int(math.Round(miles)))
}
