package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ironwala/ironwala-api/internal/pkg/cache"
	"github.com/ironwala/ironwala-api/internal/schedule"
)

// submitGuardTTL bounds how long an idempotency-key reservation outlives a
// successful submission. A failed submission releases the key immediately
// so the user can retry.
const submitGuardTTL = 10 * time.Minute

// Service is the order assembler and tracker.
type Service struct {
	repo    Repository
	watcher Watcher
	cache   cache.Cache
	tracer  trace.Tracer
}

func NewService(repo Repository, watcher Watcher, c cache.Cache) *Service {
	return &Service{
		repo:    repo,
		watcher: watcher,
		cache:   c,
		tracer:  otel.Tracer("order"),
	}
}

// Submit validates the draft and persists a single Placed order.
//
// Preconditions are checked in order, first failure wins: user present,
// at least one line item, both schedule slots set. A complete window with
// an invalid delivery offset surfaces the schedule error unchanged. The
// write is one atomic document create, so a failure leaves no partial
// record behind.
//
// idempotencyKey may be empty; when present it backs the duplicate-submit
// guard for the client's disabled-button window.
func (s *Service) Submit(
	ctx context.Context,
	userID string,
	draft Draft,
	pickupAddress, deliveryAddress string,
	window schedule.Window,
	idempotencyKey string,
) (string, error) {
	ctx, span := s.tracer.Start(ctx, "order.Submit")
	defer span.End()

	if userID == "" {
		return "", ErrNoUser
	}
	if len(draft.Items) == 0 {
		return "", ErrEmptyOrder
	}
	if !window.Complete() {
		return "", ErrIncompleteSchedule
	}
	if err := window.Validate(); err != nil {
		return "", err
	}

	release, err := s.acquireGuard(ctx, idempotencyKey)
	if err != nil {
		return "", err
	}

	items := make([]Item, len(draft.Items))
	for i, l := range draft.Items {
		items[i] = Item{Name: l.Name, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}

	id, err := s.repo.Create(ctx, Order{
		UserID:          userID,
		Status:          StatusPlaced,
		Items:           items,
		TotalAmount:     draft.Total,
		PickupAddress:   pickupAddress,
		DeliveryAddress: deliveryAddress,
		PickupAt:        window.PickupAt,
		DeliveryAt:      window.DeliveryAt,
	})
	if err != nil {
		release()
		slog.ErrorContext(ctx, "order submission failed", "user_id", userID, "error", err)
		return "", fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	slog.InfoContext(ctx, "order placed",
		"order_id", id, "user_id", userID, "total", draft.Total.String())
	return id, nil
}

// acquireGuard reserves the idempotency key. The returned release func is
// called only on submission failure; on success the reservation ages out
// with its TTL, swallowing accidental double-taps.
func (s *Service) acquireGuard(ctx context.Context, idempotencyKey string) (func(), error) {
	if idempotencyKey == "" {
		return func() {}, nil
	}

	key := s.cache.GenerateKey("submit", idempotencyKey)
	acquired, err := s.cache.SetNX(ctx, key, "1", submitGuardTTL)
	if err != nil {
		// The guard is an extra safety net, not a precondition: if Redis is
		// down we still take the order.
		slog.WarnContext(ctx, "submit guard unavailable", "error", err)
		return func() {}, nil
	}
	if !acquired {
		return nil, ErrDuplicateSubmission
	}
	return func() {
		if err := s.cache.Del(ctx, key); err != nil {
			slog.WarnContext(ctx, "submit guard release failed", "error", err)
		}
	}, nil
}

// List returns the point-in-time active/history view. A missing user id
// yields an empty view, not an error.
func (s *Service) List(ctx context.Context, userID string) (View, error) {
	if userID == "" {
		return Partition(nil), nil
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("order: list: %w", err)
	}
	return Partition(orders), nil
}
