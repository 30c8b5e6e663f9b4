package domain

import "context"

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves a free-text location to coordinates. A nil result with a
// nil error means the location was not recognized; callers treat that as a
// soft failure and proceed without coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*Coordinates, error)
}
