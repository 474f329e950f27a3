// Package geo defines the geolocation collaborator: turning a map
// coordinate into structured address components.
package geo

import "context"

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Components is the structured result of a reverse geocode. Any field may
// be empty; the address resolver decides how to render them.
type Components struct {
	Name        string `json:"name,omitempty"`
	HouseNumber string `json:"houseNumber,omitempty"`
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}

// Geocoder resolves a coordinate to address components. ok is false when
// the provider has no result for the coordinate; that is not an error.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c Coordinate) (comp Components, ok bool, err error)
}
