// Package service implements the claim lifecycle: submission with one-time
// scoring, admin adjudication through the pending → approved/rejected state
// machine, allow-listed updates, and the pending review queue.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"reclaim/internal/claims/models"
	itemmodels "reclaim/internal/items/models"
	"reclaim/internal/platform/metrics"
	"reclaim/internal/scoring"
	"reclaim/pkg/domain"
	dErrors "reclaim/pkg/domain-errors"
	audit "reclaim/pkg/platform/audit"
	"reclaim/pkg/platform/sentinel"
	"reclaim/pkg/requestcontext"
)

// itemFetchConcurrency bounds the parallel found-item lookups when building
// the pending review queue.
const itemFetchConcurrency = 8

// ClaimStore persists claims.
type ClaimStore interface {
	Create(ctx context.Context, c *models.Claim) (domain.ClaimID, error)
	FindByID(ctx context.Context, id domain.ClaimID) (*models.Claim, error)
	Update(ctx context.Context, c *models.Claim) error
	// StatusForUpdate reads the current status holding a lock scoped to the
	// claim row until the surrounding transaction ends.
	StatusForUpdate(ctx context.Context, id domain.ClaimID) (models.ClaimStatus, error)
	UpdateStatus(ctx context.Context, id domain.ClaimID, status models.ClaimStatus) error
	ListPending(ctx context.Context) ([]models.Claim, error)
}

// ItemReader resolves found items for scoring and review.
type ItemReader interface {
	FindFoundItem(ctx context.Context, id domain.ItemID) (*itemmodels.FoundItem, error)
}

// AuditRecorder appends immutable audit entries and serves them back for
// admin review.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]audit.Entry, error)
}

// TxRunner executes fn as one atomic unit against the claim store. The
// context passed to fn carries the transaction so the audit store can join
// it; two concurrent adjudications of the same claim serialize here.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store ClaimStore) error) error
}

// Service wires the claim lifecycle operations.
type Service struct {
	claims  ClaimStore
	items   ItemReader
	tx      TxRunner
	trail   AuditRecorder
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func New(claims ClaimStore, items ItemReader, tx TxRunner, trail AuditRecorder, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		claims:  claims,
		items:   items,
		tx:      tx,
		trail:   trail,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("reclaim/claims"),
	}
}

// SubmitRequest is the validated input to Submit. Fields outside
// models.ClaimedFields never reach this point: the allow-list is the struct.
type SubmitRequest struct {
	FoundItemID domain.ItemID
	Fields      models.ClaimedFields
}

// SubmitResult reports the outcome of a submission.
type SubmitResult struct {
	ClaimID   domain.ClaimID
	Score     int
	Breakdown []scoring.FieldScore
}

// Submit validates the reference, scores the claim once, and persists it as
// pending together with its creation audit entry.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, claimedBy string) (*SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "claims.Submit",
		trace.WithAttributes(attribute.Int64("found_item_id", req.FoundItemID.Int64())))
	defer span.End()

	if req.FoundItemID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "missing/invalid found_item_id")
	}
	if claimedBy == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "claimant identity required")
	}

	item, err := s.items.FindFoundItem(ctx, req.FoundItemID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "found item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve found item")
	}

	result := scoring.Score(req.Fields.ScoringFields(), item.ScoringFields())

	claim, err := models.New(req.FoundItemID, req.Fields, result.Total, claimedBy, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	var claimID domain.ClaimID
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store ClaimStore) error {
		id, err := store.Create(ctx, claim)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "found item not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist claim")
		}
		claimID = id
		return s.trail.Record(ctx, audit.Entry{
			Action:      audit.ActionCreate,
			EntityType:  audit.EntityTypeClaim,
			EntityID:    id.Int64(),
			PerformedBy: claimedBy,
			Notes:       requestcontext.ClientInfo(ctx),
		})
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ClaimsSubmitted.Inc()
		s.metrics.AuditEntries.Inc()
	}
	s.logAudit(ctx, "claim_submitted",
		"claim_id", claimID,
		"found_item_id", req.FoundItemID,
		"score", result.Total,
		"claimed_by", claimedBy,
	)

	return &SubmitResult{ClaimID: claimID, Score: result.Total, Breakdown: result.Breakdown}, nil
}

// Adjudicate applies an admin decision to a pending claim. The status check
// and the update run as one atomic unit: of two concurrent adjudications of
// the same claim, exactly one wins and the other gets a conflict.
func (s *Service) Adjudicate(ctx context.Context, id domain.ClaimID, decision models.ClaimStatus, adminID string) error {
	ctx, span := s.tracer.Start(ctx, "claims.Adjudicate",
		trace.WithAttributes(
			attribute.Int64("claim_id", id.Int64()),
			attribute.String("decision", string(decision)),
		))
	defer span.End()

	if !decision.Terminal() {
		return dErrors.New(dErrors.CodeValidation, "invalid decision")
	}
	if adminID == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "admin identity required")
	}

	ctx = withTxClaim(ctx, id)
	err := s.tx.RunInTx(ctx, func(ctx context.Context, store ClaimStore) error {
		status, err := store.StatusForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "claim not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read claim status")
		}
		if !status.CanTransitionTo(decision) {
			return dErrors.New(dErrors.CodeConflict, "claim already processed")
		}
		if err := store.UpdateStatus(ctx, id, decision); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update claim status")
		}
		return s.trail.Record(ctx, audit.Entry{
			Action:      string(decision),
			EntityType:  audit.EntityTypeClaim,
			EntityID:    id.Int64(),
			PerformedBy: adminID,
			Notes:       requestcontext.ClientInfo(ctx),
		})
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	if s.metrics != nil {
		s.metrics.ClaimsAdjudicated.WithLabelValues(string(decision)).Inc()
		s.metrics.AuditEntries.Inc()
	}
	s.logAudit(ctx, "claim_adjudicated",
		"claim_id", id,
		"decision", decision,
		"performed_by", adminID,
	)
	return nil
}

// Update applies an allow-listed partial update of the asserted attribute
// fields. Score and status are untouchable through this path.
func (s *Service) Update(ctx context.Context, id domain.ClaimID, patch models.Patch, actorID string) error {
	if patch.Empty() {
		return dErrors.New(dErrors.CodeValidation, "no valid fields to update")
	}
	if actorID == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "actor identity required")
	}

	claim, err := s.claims.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "claim not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claim")
	}

	patch.Apply(claim)
	if err := s.claims.Update(ctx, claim); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "claim not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update claim")
	}

	if err := s.trail.Record(ctx, audit.Entry{
		Action:      audit.ActionUpdate,
		EntityType:  audit.EntityTypeClaim,
		EntityID:    id.Int64(),
		PerformedBy: actorID,
	}); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.AuditEntries.Inc()
	}
	return nil
}

// PendingClaim pairs a pending claim with its found item for admin review.
type PendingClaim struct {
	Claim models.Claim
	Item  itemmodels.FoundItem
}

// Pending returns the review queue, oldest submission first, each claim
// joined with its found item. Item lookups fan out concurrently.
func (s *Service) Pending(ctx context.Context) ([]PendingClaim, error) {
	claims, err := s.claims.ListPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending claims")
	}

	pending := make([]PendingClaim, len(claims))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(itemFetchConcurrency)
	for i, c := range claims {
		g.Go(func() error {
			item, err := s.items.FindFoundItem(ctx, c.FoundItemID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve found item for claim")
			}
			pending[i] = PendingClaim{Claim: c, Item: *item}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pending, nil
}

// AuditTrail returns the audit entries recorded for one claim, oldest first.
func (s *Service) AuditTrail(ctx context.Context, id domain.ClaimID) ([]audit.Entry, error) {
	return s.trail.ListByEntity(ctx, audit.EntityTypeClaim, id.Int64())
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
