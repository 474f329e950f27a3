package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/ironwala/ironwala-api/internal/geo"
)

// ManualInput is the raw manual-entry form. Name is the optional label
// ("Home", "Office"); the rest are required.
type ManualInput struct {
	Name   string
	Street string
	City   string
	State  string
	Zip    string
}

// Resolver produces canonical addresses from either entry path. Both paths
// run the service-area check before the result is handed back, so a
// rejected address never reaches a draft or the store.
type Resolver struct {
	geocoder geo.Geocoder
}

func NewResolver(geocoder geo.Geocoder) *Resolver {
	return &Resolver{geocoder: geocoder}
}

// ResolveManual validates and canonicalises a manually entered address.
func (r *Resolver) ResolveManual(in ManualInput) (Address, error) {
	street := strings.TrimSpace(in.Street)
	city := strings.TrimSpace(in.City)
	state := strings.TrimSpace(in.State)
	zip := strings.TrimSpace(in.Zip)

	if street == "" || city == "" || state == "" || zip == "" {
		return Address{}, ErrIncompleteForm
	}
	if err := CheckServiceArea(city, state); err != nil {
		return Address{}, err
	}

	return Address{
		Name:   strings.TrimSpace(in.Name),
		Street: street,
		City:   city,
		State:  state,
		Zip:    zip,
	}, nil
}

// ResolveCoordinate reverse-geocodes a map pin into an address. An empty
// geocoder result is ErrNoResolution; a result outside the allow-list is
// ErrOutsideServiceArea. In both cases the caller's prior address state is
// untouched; nothing is returned to stage.
func (r *Resolver) ResolveCoordinate(ctx context.Context, coord geo.Coordinate) (Address, error) {
	comp, ok, err := r.geocoder.ReverseGeocode(ctx, coord)
	if err != nil {
		return Address{}, fmt.Errorf("address: reverse geocode: %w", err)
	}
	if !ok {
		return Address{}, ErrNoResolution
	}

	if err := CheckServiceArea(comp.City, comp.State); err != nil {
		return Address{}, err
	}

	return Address{
		Name:   placeName(comp),
		Street: streetLine(comp),
		City:   strings.TrimSpace(comp.City),
		State:  strings.TrimSpace(comp.State),
		Zip:    strings.TrimSpace(comp.Postcode),
	}, nil
}

// placeName keeps the geocoder's feature name only when it is a real name,
// not a bare house number echoed back.
func placeName(comp geo.Components) string {
	name := strings.TrimSpace(comp.Name)
	if name == "" || isNumeric(name) {
		return ""
	}
	return name
}

func streetLine(comp geo.Components) string {
	return strings.TrimSpace(strings.TrimSpace(comp.HouseNumber) + " " + strings.TrimSpace(comp.Street))
}
