package middleware

import (
	"log/slog"
	"net/http"

	dErrors "reclaim/pkg/domain-errors"
	"reclaim/pkg/platform/httputil"
	"reclaim/pkg/requestcontext"
)

// RequireAdmin gates the staff surface. Anonymous requests get 401,
// authenticated non-admins get 403.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor := requestcontext.ActorFrom(ctx)

			if actor.IsZero() {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !actor.IsAdmin() {
				if logger != nil {
					logger.WarnContext(ctx, "admin endpoint denied",
						"request_id", requestcontext.RequestID(ctx),
						"actor", actor.ID,
						"role", actor.Role,
					)
				}
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
