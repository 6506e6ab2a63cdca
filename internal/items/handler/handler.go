package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"reclaim/internal/items/models"
	"reclaim/internal/items/service"
	"reclaim/pkg/domain"
	dErrors "reclaim/pkg/domain-errors"
	audit "reclaim/pkg/platform/audit"
	"reclaim/pkg/platform/httputil"
	"reclaim/pkg/requestcontext"
)

// Service defines the interface for item operations.
type Service interface {
	ReportFound(ctx context.Context, req service.ReportFoundRequest, reportedBy string) (*models.FoundItem, error)
	ReportLost(ctx context.Context, req service.ReportLostRequest, reportedBy string) (*models.LostItem, error)
	PublishedItems(ctx context.Context) ([]models.FoundItem, error)
	Withdraw(ctx context.Context, id domain.ItemID, adminID string) error
	AuditTrail(ctx context.Context, entityType string, id domain.ItemID) ([]audit.Entry, error)
}

// Handler wires item endpoints to the item service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an item handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public and reporter-facing endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/items/found", h.HandleListPublished)
	r.Post("/items/found", h.HandleReportFound)
	r.Post("/items/lost", h.HandleReportLost)
}

// RegisterAdmin mounts the staff endpoints. The router wraps these in the
// admin-role middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/items/found/{itemID}/withdraw", h.HandleWithdraw)
	r.Get("/items/{kind}/{itemID}/audit", h.HandleAuditTrail)
}

// HandleListPublished handles GET /items/found requests. Public: no
// authentication, and only published items with public fields appear.
func (h *Handler) HandleListPublished(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.service.PublishedItems(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "found item listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromListing(items))
}

// HandleReportFound handles POST /items/found requests.
func (h *Handler) HandleReportFound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	actor := requestcontext.ActorFrom(ctx)
	if actor.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[ReportFoundRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	item, err := h.service.ReportFound(ctx, service.ReportFoundRequest{
		Category:      req.Category,
		ItemType:      req.ItemType,
		Color:         req.Color,
		Brand:         req.Brand,
		FoundLocation: req.FoundLocation,
		FoundAt:       req.ParsedFoundAt(),
		Description:   req.PublicDescription,
	}, actor.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "found item report failed",
			"request_id", requestID,
			"category", req.Category,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "found item reported",
		"request_id", requestID,
		"item_id", item.ID,
		"category", item.Category,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, item)
}

// HandleReportLost handles POST /items/lost requests.
func (h *Handler) HandleReportLost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor := requestcontext.ActorFrom(ctx)
	if actor.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[ReportLostRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	item, err := h.service.ReportLost(ctx, service.ReportLostRequest{
		Category:         req.Category,
		ItemType:         req.ItemType,
		LastSeenLocation: req.LastSeenLocation,
		LastSeenAt:       req.ParsedLastSeenAt(),
		Description:      req.PublicDescription,
		PrivateDetails:   req.PrivateDetails,
	}, actor.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "lost item report failed",
			"request_id", requestID,
			"category", req.Category,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "lost item reported",
		"request_id", requestID,
		"item_id", item.ID,
		"category", item.Category,
	)

	httputil.WriteJSON(w, http.StatusCreated, item)
}

// HandleWithdraw handles POST /admin/items/found/{itemID}/withdraw requests.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor := requestcontext.ActorFrom(ctx)

	itemID, err := domain.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Withdraw(ctx, itemID, actor.ID); err != nil {
		h.logger.ErrorContext(ctx, "found item withdrawal failed",
			"request_id", requestID,
			"item_id", itemID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "found item withdrawn",
		"request_id", requestID,
		"item_id", itemID,
		"performed_by", actor.ID,
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(models.ItemStatusWithdrawn)})
}

// HandleAuditTrail handles GET /admin/items/{kind}/{itemID}/audit requests.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityType, err := parseAuditKind(chi.URLParam(r, "kind"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	itemID, err := domain.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.service.AuditTrail(ctx, entityType, itemID)
	if err != nil {
		h.logger.ErrorContext(ctx, "item audit listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"item_id", itemID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func parseAuditKind(kind string) (string, error) {
	switch kind {
	case "found":
		return audit.EntityTypeFoundItem, nil
	case "lost":
		return audit.EntityTypeLostItem, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "invalid item kind")
	}
}
