// Package address turns manual form input or a map coordinate into a
// canonical postal address, enforcing the service-area allow-list before
// anything is staged or persisted.
package address

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrIncompleteForm is returned when a manual entry is missing a
	// required field.
	ErrIncompleteForm = errors.New("address: street, city, state and zip are required")

	// ErrNoResolution is returned when reverse geocoding yields nothing for
	// the coordinate.
	ErrNoResolution = errors.New("address: could not determine address from this location")

	// ErrOutsideServiceArea is returned when the resolved city/state pair is
	// not on the allow-list.
	ErrOutsideServiceArea = errors.New("address: outside the supported service area")
)

// The service currently operates in exactly one city. Literal business
// rule, not a placeholder: do not widen without a product decision.
var allowedAreas = []struct{ city, state string }{
	{"Springfield", "IL"},
}

// Address is a labeled postal address owned by a user. ID is empty until
// the address has been saved.
type Address struct {
	ID        string
	Name      string
	Street    string
	City      string
	State     string
	Zip       string
	CreatedAt time.Time
}

// OneLine renders the canonical single-line form used on order records,
// e.g. "123 Elm Street, Springfield, IL 62704".
func (a Address) OneLine() string {
	parts := make([]string, 0, 3)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	tail := strings.TrimSpace(a.State + " " + a.Zip)
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// CheckServiceArea verifies the city/state pair against the allow-list.
// Comparison is case-insensitive; surrounding whitespace is ignored.
func CheckServiceArea(city, state string) error {
	for _, a := range allowedAreas {
		if strings.EqualFold(strings.TrimSpace(city), a.city) &&
			strings.EqualFold(strings.TrimSpace(state), a.state) {
			return nil
		}
	}
	return ErrOutsideServiceArea
}

// isNumeric reports whether s parses as an integer, used to tell a venue
// name apart from a bare house number in geocoder output.
func isNumeric(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

// Repository is the port for the user-scoped saved-address collection
// (users/{uid}/addresses in the document store).
type Repository interface {
	// Save creates the address when a.ID is empty and updates it otherwise.
	Save(ctx context.Context, userID string, a Address) (Address, error)
	Delete(ctx context.Context, userID, id string) error
	// List returns the user's addresses ordered by creation time descending.
	List(ctx context.Context, userID string) ([]Address, error)
	// Watch streams the same ordered list on every change. Callers must
	// Stop the subscription when done.
	Watch(ctx context.Context, userID string) (*Subscription, error)
}

// Subscription is a live view over a user's saved addresses. Updates is
// closed after Stop returns.
type Subscription struct {
	updates <-chan []Address
	stop    func()
}

func NewSubscription(updates <-chan []Address, stop func()) *Subscription {
	return &Subscription{updates: updates, stop: stop}
}

func (s *Subscription) Updates() <-chan []Address { return s.updates }

func (s *Subscription) Stop() { s.stop() }
