package middleware

import (
	"net/http"

	"reclaim/pkg/requestcontext"
)

// Identity headers set by the fronting gateway, which terminates
// authentication before requests reach this service.
const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
)

// Identity lifts the gateway-asserted identity into the request context.
// Requests without identity pass through as anonymous; handlers that need an
// actor reject them.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := requestcontext.Actor{
			ID:   r.Header.Get(userIDHeader),
			Role: r.Header.Get(userRoleHeader),
		}
		if actor.IsZero() {
			next.ServeHTTP(w, r)
			return
		}
		ctx := requestcontext.WithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
