// Package http assembles the chi router: middleware chain, public surface,
// staff surface, and operational endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	claimhandler "reclaim/internal/claims/handler"
	itemhandler "reclaim/internal/items/handler"
	"reclaim/internal/platform/middleware"
	"reclaim/pkg/platform/httputil"
)

// HealthChecker reports the health of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Claims *claimhandler.Handler
	Items  *itemhandler.Handler
	Logger *slog.Logger

	// Optional dependency health checks surfaced on /healthz.
	Checks map[string]HealthChecker
}

// NewRouter wires all endpoints. The staff surface lives under /admin behind
// the admin-role gate; everything else is claimant- or public-facing.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Identity)
	r.Use(middleware.ClientInfo)

	deps.Items.Register(r)
	deps.Claims.Register(r)

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin(deps.Logger))
		deps.Claims.RegisterAdmin(admin)
		deps.Items.RegisterAdmin(admin)
	})

	r.Get("/healthz", handleHealth(deps.Checks))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
