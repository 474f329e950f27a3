package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ironwala/ironwala-api/internal/identity"
)

// RequireAuth verifies the Bearer ID token and stores the user id in the
// request context. Requests without a valid token are rejected before the
// handler runs.
func RequireAuth(ids identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "auth_required", "missing bearer token")
				return
			}

			userID, err := ids.VerifyToken(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "auth_invalid", "invalid or expired session token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AttachIdempotencyKey copies the idempotency header into the context so
// the order handler can hand it to the submit guard.
func AttachIdempotencyKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(HeaderIdempotencyKey)
		ctx := context.WithValue(r.Context(), ctxKeyIdempotencyKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
