// Package service implements item intake and publication: finder reports,
// owner loss reports, the public listing, and staff withdrawal.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"reclaim/internal/items/cache"
	"reclaim/internal/items/models"
	"reclaim/internal/platform/metrics"
	"reclaim/pkg/domain"
	dErrors "reclaim/pkg/domain-errors"
	audit "reclaim/pkg/platform/audit"
	"reclaim/pkg/platform/sentinel"
	"reclaim/pkg/requestcontext"
)

// FoundStore persists finder reports.
type FoundStore interface {
	Create(ctx context.Context, item *models.FoundItem) (domain.ItemID, error)
	FindByID(ctx context.Context, id domain.ItemID) (*models.FoundItem, error)
	ListPublished(ctx context.Context) ([]models.FoundItem, error)
	UpdateStatus(ctx context.Context, id domain.ItemID, status models.ItemStatus) error
}

// LostStore persists owner loss reports.
type LostStore interface {
	Create(ctx context.Context, item *models.LostItem) (domain.ItemID, error)
}

// AuditRecorder appends immutable audit entries and serves them back for
// admin review.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]audit.Entry, error)
}

// Service wires the item lifecycle operations.
type Service struct {
	found   FoundStore
	lost    LostStore
	listing *cache.ListingCache
	trail   AuditRecorder
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func New(found FoundStore, lost LostStore, listing *cache.ListingCache, trail AuditRecorder, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		found:   found,
		lost:    lost,
		listing: listing,
		trail:   trail,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("reclaim/items"),
	}
}

// ReportFoundRequest is the validated input to ReportFound.
type ReportFoundRequest struct {
	Category      string
	ItemType      string
	Color         string
	Brand         string
	FoundLocation string
	FoundAt       time.Time
	Description   string
}

// ReportFound records a finder's report and publishes it.
func (s *Service) ReportFound(ctx context.Context, req ReportFoundRequest, reportedBy string) (*models.FoundItem, error) {
	ctx, span := s.tracer.Start(ctx, "items.ReportFound",
		trace.WithAttributes(attribute.String("category", req.Category)))
	defer span.End()

	if reportedBy == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "reporter identity required")
	}

	item, err := models.NewFoundItem(req.Category, req.ItemType, req.Color, req.Brand,
		req.FoundLocation, req.FoundAt, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	item.PublicDescription = req.Description

	id, err := s.found.Create(ctx, item)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist found item")
	}

	if err := s.trail.Record(ctx, audit.Entry{
		Action:      audit.ActionCreate,
		EntityType:  audit.EntityTypeFoundItem,
		EntityID:    id.Int64(),
		PerformedBy: reportedBy,
		Notes:       requestcontext.ClientInfo(ctx),
	}); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.listing.Invalidate(ctx)

	if s.metrics != nil {
		s.metrics.ItemsReported.WithLabelValues("found").Inc()
		s.metrics.AuditEntries.Inc()
	}
	s.logAudit(ctx, "found_item_reported",
		"item_id", id,
		"category", item.Category,
		"reported_by", reportedBy,
	)
	return item, nil
}

// ReportLostRequest is the validated input to ReportLost.
type ReportLostRequest struct {
	Category         string
	ItemType         string
	LastSeenLocation string
	LastSeenAt       time.Time
	Description      string
	PrivateDetails   string
}

// ReportLost records an owner's loss report. Lost reports never enter
// scoring; they exist for staff cross-referencing.
func (s *Service) ReportLost(ctx context.Context, req ReportLostRequest, reportedBy string) (*models.LostItem, error) {
	ctx, span := s.tracer.Start(ctx, "items.ReportLost",
		trace.WithAttributes(attribute.String("category", req.Category)))
	defer span.End()

	if reportedBy == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "reporter identity required")
	}

	item, err := models.NewLostItem(req.Category, req.ItemType, req.LastSeenLocation,
		req.LastSeenAt, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	item.PublicDescription = req.Description
	item.PrivateDetails = req.PrivateDetails

	id, err := s.lost.Create(ctx, item)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist lost item")
	}

	if err := s.trail.Record(ctx, audit.Entry{
		Action:      audit.ActionCreate,
		EntityType:  audit.EntityTypeLostItem,
		EntityID:    id.Int64(),
		PerformedBy: reportedBy,
		Notes:       requestcontext.ClientInfo(ctx),
	}); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ItemsReported.WithLabelValues("lost").Inc()
		s.metrics.AuditEntries.Inc()
	}
	s.logAudit(ctx, "lost_item_reported",
		"item_id", id,
		"category", item.Category,
		"reported_by", reportedBy,
	)
	return item, nil
}

// PublishedItems returns the public browse listing, newest report first.
// Served from cache when fresh; the store stays the source of truth.
func (s *Service) PublishedItems(ctx context.Context) ([]models.FoundItem, error) {
	if items, ok := s.listing.GetPublished(ctx); ok {
		return items, nil
	}

	items, err := s.found.ListPublished(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list found items")
	}
	s.listing.SetPublished(ctx, items)
	return items, nil
}

// Withdraw removes a found item from the public listing. The item stays
// resolvable so existing claims keep their scoring context.
func (s *Service) Withdraw(ctx context.Context, id domain.ItemID, adminID string) error {
	ctx, span := s.tracer.Start(ctx, "items.Withdraw",
		trace.WithAttributes(attribute.Int64("item_id", id.Int64())))
	defer span.End()

	if adminID == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "admin identity required")
	}

	item, err := s.found.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "found item not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load found item")
	}
	if err := item.CanWithdraw(); err != nil {
		return dErrors.New(dErrors.CodeConflict, "found item already withdrawn")
	}

	if err := s.found.UpdateStatus(ctx, id, models.ItemStatusWithdrawn); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "found item not found")
		}
		span.RecordError(err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to withdraw found item")
	}

	if err := s.trail.Record(ctx, audit.Entry{
		Action:      audit.ActionWithdrawn,
		EntityType:  audit.EntityTypeFoundItem,
		EntityID:    id.Int64(),
		PerformedBy: adminID,
		Notes:       requestcontext.ClientInfo(ctx),
	}); err != nil {
		span.RecordError(err)
		return err
	}

	s.listing.Invalidate(ctx)

	if s.metrics != nil {
		s.metrics.AuditEntries.Inc()
	}
	s.logAudit(ctx, "found_item_withdrawn",
		"item_id", id,
		"performed_by", adminID,
	)
	return nil
}

// FindFoundItem resolves one found item regardless of publication status.
// This is the read path the claim core scores against.
func (s *Service) FindFoundItem(ctx context.Context, id domain.ItemID) (*models.FoundItem, error) {
	item, err := s.found.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, sentinel.ErrNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load found item")
	}
	return item, nil
}

// AuditTrail returns the audit entries recorded for one item, oldest first.
func (s *Service) AuditTrail(ctx context.Context, entityType string, id domain.ItemID) ([]audit.Entry, error) {
	return s.trail.ListByEntity(ctx, entityType, id.Int64())
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
