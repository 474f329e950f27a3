package httpx

import "context"

type ctxKey string

const (
	ctxKeyUserID         ctxKey = "user_id"
	ctxKeyIdempotencyKey ctxKey = "idempotency_key"
)

// HeaderIdempotencyKey carries the client's duplicate-submit token for
// POST /orders.
const HeaderIdempotencyKey = "X-Idempotency-Key"

// UserIDFromContext returns the authenticated user id, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyUserID).(string)
	return id
}

func idempotencyKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(ctxKeyIdempotencyKey).(string)
	return key
}
