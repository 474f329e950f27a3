// Package firestore implements the order repository and watcher on the
// orders collection of the hosted document store.
package firestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ironwala/ironwala-api/internal/order"
)

const ordersCollection = "orders"

// orderDoc is the wire shape of an order document. Amounts are stored as
// plain numbers; decimals exist only on our side of the boundary.
type orderDoc struct {
	UserID          string    `firestore:"userId"`
	Status          string    `firestore:"status"`
	OrderItems      []itemDoc `firestore:"orderItems"`
	TotalAmount     float64   `firestore:"totalAmount"`
	PickupAddress   string    `firestore:"pickupAddress"`
	DeliveryAddress string    `firestore:"deliveryAddress"`
	PickupAt        time.Time `firestore:"pickupDate"`
	DeliveryAt      time.Time `firestore:"deliveryDate"`
	CreatedAt       time.Time `firestore:"createdAt,serverTimestamp"`
}

type itemDoc struct {
	Name      string  `firestore:"name"`
	Quantity  int     `firestore:"quantity"`
	UnitPrice float64 `firestore:"price"`
}

type Repository struct {
	client *firestore.Client
}

func NewRepository(client *firestore.Client) *Repository {
	return &Repository{client: client}
}

var (
	_ order.Repository = (*Repository)(nil)
	_ order.Watcher    = (*Repository)(nil)
)

// Create writes the order as a single document. Create (not Set) is used
// so a retried id can never silently overwrite an existing order.
func (r *Repository) Create(ctx context.Context, o order.Order) (string, error) {
	id := uuid.NewString()

	items := make([]itemDoc, len(o.Items))
	for i, it := range o.Items {
		items[i] = itemDoc{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.InexactFloat64(),
		}
	}

	doc := orderDoc{
		UserID:          o.UserID,
		Status:          string(o.Status),
		OrderItems:      items,
		TotalAmount:     o.TotalAmount.InexactFloat64(),
		PickupAddress:   o.PickupAddress,
		DeliveryAddress: o.DeliveryAddress,
		PickupAt:        o.PickupAt,
		DeliveryAt:      o.DeliveryAt,
	}

	if _, err := r.client.Collection(ordersCollection).Doc(id).Create(ctx, doc); err != nil {
		return "", fmt.Errorf("firestore: create order: %w", err)
	}
	return id, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	iter := r.query(userID).Documents(ctx)
	defer iter.Stop()
	return collect(iter)
}

// Watch opens a snapshot listener filtered to the user and streams the
// full ordered result set on every change. stop cancels the listener; the
// updates channel is closed once the listener goroutine exits.
func (r *Repository) Watch(ctx context.Context, userID string) (<-chan []order.Order, func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)
	snaps := r.query(userID).Snapshots(watchCtx)

	updates := make(chan []order.Order, 1)
	go func() {
		defer close(updates)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					slog.ErrorContext(watchCtx, "order snapshot listener stopped", "error", err)
				}
				return
			}
			orders, err := collect(snap.Documents)
			if err != nil {
				slog.ErrorContext(watchCtx, "decode order snapshot", "error", err)
				continue
			}
			select {
			case updates <- orders:
			case <-watchCtx.Done():
				return
			}
		}
	}()

	return updates, cancel, nil
}

func (r *Repository) query(userID string) firestore.Query {
	return r.client.Collection(ordersCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
}

func collect(iter *firestore.DocumentIterator) ([]order.Order, error) {
	out := []order.Order{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("firestore: iterate orders: %w", err)
		}
		var doc orderDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("firestore: decode order %s: %w", snap.Ref.ID, err)
		}
		out = append(out, fromDoc(snap.Ref.ID, doc))
	}
}

func fromDoc(id string, doc orderDoc) order.Order {
	items := make([]order.Item, len(doc.OrderItems))
	for i, it := range doc.OrderItems {
		items[i] = order.Item{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: decimal.NewFromFloat(it.UnitPrice),
		}
	}
	return order.Order{
		ID:              id,
		UserID:          doc.UserID,
		Status:          order.Status(doc.Status),
		Items:           items,
		TotalAmount:     decimal.NewFromFloat(doc.TotalAmount),
		PickupAddress:   doc.PickupAddress,
		DeliveryAddress: doc.DeliveryAddress,
		PickupAt:        doc.PickupAt,
		DeliveryAt:      doc.DeliveryAt,
		CreatedAt:       doc.CreatedAt,
	}
}
