package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ironwala/ironwala-api/internal/catalog"
	"github.com/ironwala/ironwala-api/internal/schedule"
)

type fakeRepo struct {
	creates []Order
	orders  []Order
	err     error
}

func (f *fakeRepo) Create(ctx context.Context, o Order) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.creates = append(f.creates, o)
	return "order-1", nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return f.orders, nil
}

type fakeWatcher struct {
	updates chan []Order
	stopped bool
}

func (f *fakeWatcher) Watch(ctx context.Context, userID string) (<-chan []Order, func(), error) {
	return f.updates, func() { f.stopped = true }, nil
}

// fakeCache is an in-memory stand-in for the Redis cache.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = "1"
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *fakeCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	f.data[key] = "1"
	return true, nil
}

func (f *fakeCache) Del(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

var basePickup = time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC)

func validDraft() Draft {
	return Draft{
		Items: []catalog.Line{
			{Name: "Shirts", Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
		},
		Subtotal: decimal.NewFromInt(40),
		Fee:      decimal.NewFromInt(15),
		Discount: decimal.NewFromInt(10),
		Total:    decimal.NewFromInt(45),
	}
}

func validWindow() schedule.Window {
	return schedule.Window{PickupAt: basePickup, DeliveryAt: basePickup.Add(2 * time.Hour)}
}

func TestSubmitPreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("no user fails first", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, &fakeWatcher{}, newFakeCache())

		// Everything else is invalid too; the auth check must still win.
		_, err := svc.Submit(ctx, "", Draft{}, "", "", schedule.Window{}, "")
		if !errors.Is(err, ErrNoUser) {
			t.Fatalf("expected ErrNoUser, got %v", err)
		}
		if len(repo.creates) != 0 {
			t.Error("create performed despite failed precondition")
		}
	})

	t.Run("empty draft", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, &fakeWatcher{}, newFakeCache())

		_, err := svc.Submit(ctx, "user-1", Draft{}, "a", "b", validWindow(), "")
		if !errors.Is(err, ErrEmptyOrder) {
			t.Fatalf("expected ErrEmptyOrder, got %v", err)
		}
		if len(repo.creates) != 0 {
			t.Error("create performed despite empty draft")
		}
	})

	t.Run("incomplete schedule", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, &fakeWatcher{}, newFakeCache())

		_, err := svc.Submit(ctx, "user-1", validDraft(), "a", "b",
			schedule.Window{PickupAt: basePickup}, "")
		if !errors.Is(err, ErrIncompleteSchedule) {
			t.Fatalf("expected ErrIncompleteSchedule, got %v", err)
		}
		if len(repo.creates) != 0 {
			t.Error("create performed despite incomplete schedule")
		}
	})

	t.Run("delivery before minimum offset", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, &fakeWatcher{}, newFakeCache())

		_, err := svc.Submit(ctx, "user-1", validDraft(), "a", "b",
			schedule.Window{PickupAt: basePickup, DeliveryAt: basePickup.Add(30 * time.Minute)}, "")
		if !errors.Is(err, schedule.ErrBeforeMinimum) {
			t.Fatalf("expected ErrBeforeMinimum, got %v", err)
		}
		if errors.Is(err, ErrIncompleteSchedule) {
			t.Error("offset violation must not report an incomplete schedule")
		}
		if len(repo.creates) != 0 {
			t.Error("create performed despite invalid schedule")
		}
	})
}

func TestSubmitSuccess(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeWatcher{}, newFakeCache())

	id, err := svc.Submit(context.Background(), "user-1", validDraft(),
		"123 Elm Street, Springfield, IL 62704",
		"456 Oak Avenue, Springfield, IL 62704",
		validWindow(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "order-1" {
		t.Errorf("id = %q, want order-1", id)
	}
	if len(repo.creates) != 1 {
		t.Fatalf("got %d creates, want exactly 1", len(repo.creates))
	}

	created := repo.creates[0]
	if created.Status != StatusPlaced {
		t.Errorf("status = %q, want Placed", created.Status)
	}
	if created.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1", created.UserID)
	}
	if !created.TotalAmount.Equal(decimal.NewFromInt(45)) {
		t.Errorf("total = %s, want 45", created.TotalAmount)
	}
}

func TestSubmitBackendFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("backend unavailable")}
	c := newFakeCache()
	svc := NewService(repo, &fakeWatcher{}, c)

	_, err := svc.Submit(context.Background(), "user-1", validDraft(), "a", "b", validWindow(), "key-1")
	if !errors.Is(err, ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed, got %v", err)
	}

	// The failed attempt must release its reservation so a retry goes through.
	repo.err = nil
	if _, err := svc.Submit(context.Background(), "user-1", validDraft(), "a", "b", validWindow(), "key-1"); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestSubmitDuplicateGuard(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeWatcher{}, newFakeCache())

	if _, err := svc.Submit(context.Background(), "user-1", validDraft(), "a", "b", validWindow(), "key-1"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := svc.Submit(context.Background(), "user-1", validDraft(), "a", "b", validWindow(), "key-1")
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}
	if len(repo.creates) != 1 {
		t.Errorf("got %d creates, want 1", len(repo.creates))
	}
}

func TestListPartitionsByStatus(t *testing.T) {
	repo := &fakeRepo{orders: []Order{
		{ID: "o1", Status: StatusPlaced},
		{ID: "o2", Status: StatusDelivered},
		{ID: "o3", Status: StatusInProgress},
		{ID: "o4", Status: StatusCancelled},
	}}
	svc := NewService(repo, &fakeWatcher{}, newFakeCache())

	view, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Active) != 2 || view.Active[0].ID != "o1" || view.Active[1].ID != "o3" {
		t.Errorf("active = %+v, want [o1 o3]", view.Active)
	}
	if len(view.History) != 2 || view.History[0].ID != "o2" || view.History[1].ID != "o4" {
		t.Errorf("history = %+v, want [o2 o4]", view.History)
	}
}

func TestListWithoutUser(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeWatcher{}, newFakeCache())

	view, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("missing user must not be an error, got %v", err)
	}
	if len(view.Active) != 0 || len(view.History) != 0 {
		t.Errorf("view = %+v, want empty buckets", view)
	}
	if view.Active == nil || view.History == nil {
		t.Error("buckets must be empty slices, not nil")
	}
}
