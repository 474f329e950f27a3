// Package order composes cart, addresses and schedule into a persisted
// order record, and maintains the live active/history view of a user's
// orders.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ironwala/ironwala-api/internal/catalog"
	"github.com/ironwala/ironwala-api/internal/pricing"
)

var (
	// ErrNoUser: submission attempted without an authenticated user.
	ErrNoUser = errors.New("order: you must be logged in to place an order")

	// ErrEmptyOrder: the draft has no line items.
	ErrEmptyOrder = errors.New("order: cannot place an order with no items")

	// ErrIncompleteSchedule: pickup or delivery time not yet chosen.
	ErrIncompleteSchedule = errors.New("order: both pickup and delivery times are required")

	// ErrSubmissionFailed wraps a backend write failure. The create is
	// atomic, so the caller can simply retry.
	ErrSubmissionFailed = errors.New("order: submission failed")

	// ErrDuplicateSubmission: another submission with the same idempotency
	// key is in flight or recently completed.
	ErrDuplicateSubmission = errors.New("order: a submission with this key is already in progress")
)

// Status is the fulfillment state of a persisted order. Only Placed is
// written by this service; the rest are advanced by the fulfillment side.
type Status string

const (
	StatusPlaced     Status = "Placed"
	StatusInProgress Status = "In Progress"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Active reports whether an order still needs fulfillment attention.
func (s Status) Active() bool {
	return s == StatusPlaced || s == StatusInProgress
}

// Draft is the ephemeral order-in-progress: priced cart lines only. It
// never outlives submission.
type Draft struct {
	Items    []catalog.Line
	Subtotal decimal.Decimal
	Fee      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// DraftFromQuote freezes a pricing quote into a draft.
func DraftFromQuote(q pricing.Quote) Draft {
	return Draft{
		Items:    q.Lines,
		Subtotal: q.Subtotal,
		Fee:      q.Fee,
		Discount: q.Discount,
		Total:    q.Total,
	}
}

// Summary renders the human order line, e.g. "2 shirts, 1 pants".
func (d Draft) Summary() string {
	parts := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		parts = append(parts, fmt.Sprintf("%d %s", it.Quantity, strings.ToLower(it.Name)))
	}
	return strings.Join(parts, ", ")
}

// Item is a persisted order line.
type Item struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is the persisted record. CreatedAt is server-assigned on create
// and zero until the write round-trips.
type Order struct {
	ID              string
	UserID          string
	Status          Status
	Items           []Item
	TotalAmount     decimal.Decimal
	PickupAddress   string
	DeliveryAddress string
	PickupAt        time.Time
	DeliveryAt      time.Time
	CreatedAt       time.Time
}

// View partitions a user's orders for display: active first, then history,
// both newest-first.
type View struct {
	Active  []Order
	History []Order
}

// Partition splits orders (assumed newest-first) by status bucket.
func Partition(orders []Order) View {
	v := View{Active: []Order{}, History: []Order{}}
	for _, o := range orders {
		if o.Status.Active() {
			v.Active = append(v.Active, o)
		} else {
			v.History = append(v.History, o)
		}
	}
	return v
}

// Repository is the port to the orders collection.
type Repository interface {
	// Create atomically writes a new order document and returns its id.
	Create(ctx context.Context, o Order) (string, error)
	// ListByUser returns the user's orders ordered by creation descending.
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

// Watcher opens a live subscription over a user's orders. Each update is
// the full ordered list after a change.
type Watcher interface {
	Watch(ctx context.Context, userID string) (updates <-chan []Order, stop func(), err error)
}
