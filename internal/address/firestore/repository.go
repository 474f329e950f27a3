// Package firestore implements address.Repository on the user-scoped
// users/{uid}/addresses sub-collection.
package firestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ironwala/ironwala-api/internal/address"
)

const (
	usersCollection     = "users"
	addressesCollection = "addresses"
)

// addressDoc is the wire shape of a saved-address document.
type addressDoc struct {
	Name      string    `firestore:"name"`
	Street    string    `firestore:"street"`
	City      string    `firestore:"city"`
	State     string    `firestore:"state"`
	Zip       string    `firestore:"zip"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

type Repository struct {
	client *firestore.Client
}

func NewRepository(client *firestore.Client) *Repository {
	return &Repository{client: client}
}

var _ address.Repository = (*Repository)(nil)

func (r *Repository) collection(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(addressesCollection)
}

// Save creates the address under a fresh id when a.ID is empty, and
// merge-updates the existing document otherwise. Last write wins; there is
// no versioning on address documents.
func (r *Repository) Save(ctx context.Context, userID string, a address.Address) (address.Address, error) {
	doc := addressDoc{
		Name:   a.Name,
		Street: a.Street,
		City:   a.City,
		State:  a.State,
		Zip:    a.Zip,
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
		if _, err := r.collection(userID).Doc(a.ID).Create(ctx, doc); err != nil {
			return address.Address{}, fmt.Errorf("firestore: create address: %w", err)
		}
		return a, nil
	}

	update := map[string]interface{}{
		"name":   a.Name,
		"street": a.Street,
		"city":   a.City,
		"state":  a.State,
		"zip":    a.Zip,
	}
	if _, err := r.collection(userID).Doc(a.ID).Set(ctx, update, firestore.MergeAll); err != nil {
		return address.Address{}, fmt.Errorf("firestore: update address %s: %w", a.ID, err)
	}
	return a, nil
}

func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.collection(userID).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore: delete address %s: %w", id, err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, userID string) ([]address.Address, error) {
	iter := r.query(userID).Documents(ctx)
	defer iter.Stop()
	return collect(iter)
}

// Watch opens a snapshot listener on the user's address collection and
// streams the full ordered list on every change. The returned subscription
// owns a goroutine; Stop tears down the listener and closes the channel.
func (r *Repository) Watch(ctx context.Context, userID string) (*address.Subscription, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	snaps := r.query(userID).Snapshots(watchCtx)

	updates := make(chan []address.Address, 1)
	go func() {
		defer close(updates)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					slog.ErrorContext(watchCtx, "address snapshot listener stopped", "error", err)
				}
				return
			}
			addrs, err := collect(snap.Documents)
			if err != nil {
				slog.ErrorContext(watchCtx, "decode address snapshot", "error", err)
				continue
			}
			select {
			case updates <- addrs:
			case <-watchCtx.Done():
				return
			}
		}
	}()

	return address.NewSubscription(updates, cancel), nil
}

func (r *Repository) query(userID string) firestore.Query {
	return r.collection(userID).OrderBy("createdAt", firestore.Desc)
}

func collect(iter *firestore.DocumentIterator) ([]address.Address, error) {
	out := []address.Address{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("firestore: iterate addresses: %w", err)
		}
		var doc addressDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("firestore: decode address %s: %w", snap.Ref.ID, err)
		}
		out = append(out, address.Address{
			ID:        snap.Ref.ID,
			Name:      doc.Name,
			Street:    doc.Street,
			City:      doc.City,
			State:     doc.State,
			Zip:       doc.Zip,
			CreatedAt: doc.CreatedAt,
		})
	}
}
