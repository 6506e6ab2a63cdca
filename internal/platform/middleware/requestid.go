// Package middleware holds the HTTP middleware chain: request identity,
// request IDs, client info capture, and admin gating. Middleware writes into
// requestcontext; everything downstream reads from there.
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"reclaim/pkg/requestcontext"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request an ID and pins the request time. Inbound IDs
// from a trusted proxy are kept so traces line up across services.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())

		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
