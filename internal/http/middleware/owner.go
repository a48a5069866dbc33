package middleware

import (
	"net/http"

	"github.com/davidbz/datachat/internal/observability"
)

// OwnerHeader carries the authenticated user identifier. Authentication
// itself happens upstream; this service only scopes tasks and cache entries
// by the identifier it is handed.
const OwnerHeader = "X-User-ID"

// Owner creates a middleware that extracts the owner identifier into the
// request context. Requests without one are rejected; the health endpoint
// is exempt.
func Owner() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			owner := r.Header.Get(OwnerHeader)
			if owner == "" {
				http.Error(w, "missing "+OwnerHeader+" header", http.StatusUnauthorized)
				return
			}

			ctx := observability.WithUserID(r.Context(), owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
