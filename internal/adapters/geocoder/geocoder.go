// Package geocoder resolves free-text locations to coordinates. The static
// implementation covers common US cities; a real deployment would swap in a
// provider-backed implementation behind the same interface.
package geocoder

import (
	"context"
	"strings"

	"voluntapp/internal/domain"
)

// cityCoordinates maps normalized "city, st" and bare city names to
// coordinates.
var cityCoordinates = map[string]domain.Coordinates{
	"san francisco, ca": {Latitude: 37.7749, Longitude: -122.4194},
	"san francisco":     {Latitude: 37.7749, Longitude: -122.4194},
	"new york, ny":      {Latitude: 40.7128, Longitude: -74.0060},
	"new york":          {Latitude: 40.7128, Longitude: -74.0060},
	"los angeles, ca":   {Latitude: 34.0522, Longitude: -118.2437},
	"los angeles":       {Latitude: 34.0522, Longitude: -118.2437},
	"chicago, il":       {Latitude: 41.8781, Longitude: -87.6298},
	"chicago":           {Latitude: 41.8781, Longitude: -87.6298},
	"houston, tx":       {Latitude: 29.7604, Longitude: -95.3698},
	"houston":           {Latitude: 29.7604, Longitude: -95.3698},
	"austin, tx":        {Latitude: 30.2672, Longitude: -97.7431},
	"austin":            {Latitude: 30.2672, Longitude: -97.7431},
	"seattle, wa":       {Latitude: 47.6062, Longitude: -122.3321},
	"seattle":           {Latitude: 47.6062, Longitude: -122.3321},
	"boston, ma":        {Latitude: 42.3601, Longitude: -71.0589},
	"boston":            {Latitude: 42.3601, Longitude: -71.0589},
	"denver, co":        {Latitude: 39.7392, Longitude: -104.9903},
	"denver":            {Latitude: 39.7392, Longitude: -104.9903},
	"portland, or":      {Latitude: 45.5152, Longitude: -122.6784},
	"portland":          {Latitude: 45.5152, Longitude: -122.6784},
}

type staticGeocoder struct{}

// NewStatic returns a Geocoder backed by the built-in city table. Unknown
// locations resolve to (nil, nil).
func NewStatic() domain.Geocoder {
	return &staticGeocoder{}
}

func (g *staticGeocoder) Geocode(_ context.Context, location string) (*domain.Coordinates, error) {
	normalized := strings.ToLower(strings.TrimSpace(location))
	if coords, ok := cityCoordinates[normalized]; ok {
		c := coords
		return &c, nil
	}
	return nil, nil
}
