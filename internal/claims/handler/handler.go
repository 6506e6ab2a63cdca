package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"reclaim/internal/claims/models"
	"reclaim/internal/claims/service"
	"reclaim/pkg/domain"
	dErrors "reclaim/pkg/domain-errors"
	audit "reclaim/pkg/platform/audit"
	"reclaim/pkg/platform/httputil"
	"reclaim/pkg/requestcontext"
)

// Service defines the interface for claim operations.
type Service interface {
	Submit(ctx context.Context, req service.SubmitRequest, claimedBy string) (*service.SubmitResult, error)
	Adjudicate(ctx context.Context, id domain.ClaimID, decision models.ClaimStatus, adminID string) error
	Update(ctx context.Context, id domain.ClaimID, patch models.Patch, actorID string) error
	Pending(ctx context.Context) ([]service.PendingClaim, error)
	AuditTrail(ctx context.Context, id domain.ClaimID) ([]audit.Entry, error)
}

// Handler wires claim endpoints to the claim service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a claim handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the claimant-facing endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/claims", h.HandleSubmit)
	r.Patch("/claims/{claimID}", h.HandleUpdate)
}

// RegisterAdmin mounts the staff review endpoints. The router wraps these in
// the admin-role middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/claims", h.HandlePending)
	r.Post("/claims/{claimID}/verify", h.HandleVerify)
	r.Get("/claims/{claimID}/audit", h.HandleAuditTrail)
}

// HandleSubmit handles POST /claims requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	actor := requestcontext.ActorFrom(ctx)
	if actor.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitClaimRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Submit(ctx, service.SubmitRequest{
		FoundItemID: req.FoundItem(),
		Fields:      req.Fields(),
	}, actor.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "claim submission failed",
			"request_id", requestID,
			"found_item_id", req.FoundItemID,
			"claimed_by", actor.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "claim submitted",
		"request_id", requestID,
		"claim_id", result.ClaimID,
		"found_item_id", req.FoundItemID,
		"score", result.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromSubmitResult(result))
}

// HandleUpdate handles PATCH /claims/{claimID} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	actor := requestcontext.ActorFrom(ctx)
	if actor.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	claimID, err := domain.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateClaimRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Update(ctx, claimID, req.Patch(), actor.ID); err != nil {
		h.logger.ErrorContext(ctx, "claim update failed",
			"request_id", requestID,
			"claim_id", claimID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "claim updated",
		"request_id", requestID,
		"claim_id", claimID,
		"updated_by", actor.ID,
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandlePending handles GET /admin/claims requests.
func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	pending, err := h.service.Pending(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "pending claims listing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromPending(pending))
}

// HandleVerify handles POST /admin/claims/{claimID}/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	actor := requestcontext.ActorFrom(ctx)

	claimID, err := domain.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[VerifyClaimRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Adjudicate(ctx, claimID, req.ParsedDecision(), actor.ID); err != nil {
		h.logger.ErrorContext(ctx, "claim verification failed",
			"request_id", requestID,
			"claim_id", claimID,
			"decision", req.Decision,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "claim verified",
		"request_id", requestID,
		"claim_id", claimID,
		"decision", req.Decision,
		"verified_by", actor.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, &VerifyClaimResponse{
		ClaimID:    claimID.Int64(),
		Status:     string(req.ParsedDecision()),
		VerifiedBy: actor.ID,
		VerifiedAt: requestcontext.Now(ctx),
	})
}

// HandleAuditTrail handles GET /admin/claims/{claimID}/audit requests.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claimID, err := domain.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.service.AuditTrail(ctx, claimID)
	if err != nil {
		h.logger.ErrorContext(ctx, "claim audit listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"claim_id", claimID,
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
