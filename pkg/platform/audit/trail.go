package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	dErrors "reclaim/pkg/domain-errors"
	"reclaim/pkg/requestcontext"
)

// Trail records audit entries. It is append-only and uses the store layer
// for persistence so tests can swap sinks easily. An optional fan-out channel
// feeds the Kafka worker without blocking the recording path.
type Trail struct {
	store  Store
	logger *slog.Logger
	sink   chan<- Entry
}

// Option configures a Trail.
type Option func(*Trail)

// WithLogger double-logs recorded entries through the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Trail) { t.logger = logger }
}

// WithSink fans recorded entries out to a channel (best-effort, non-blocking).
func WithSink(sink chan<- Entry) Option {
	return func(t *Trail) { t.sink = sink }
}

func NewTrail(store Store, opts ...Option) *Trail {
	t := &Trail{store: store}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record validates, completes, and persists an entry. Persistence failure is
// returned to the caller so the triggering operation can surface it; the
// trail never swallows an error.
func (t *Trail) Record(ctx context.Context, entry Entry) error {
	if entry.Action == "" || entry.EntityType == "" || entry.PerformedBy == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "audit entry requires action, entity_type, and performed_by")
	}
	if entry.EntityID <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "audit entry requires a positive entity_id")
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := t.store.Append(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit entry")
	}

	if t.logger != nil {
		t.logger.InfoContext(ctx, entry.Action,
			"log_type", "audit",
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"performed_by", entry.PerformedBy,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	if t.sink != nil {
		select {
		case t.sink <- entry:
		default:
			// Fan-out is best-effort; the store already holds the entry.
			if t.logger != nil {
				t.logger.WarnContext(ctx, "audit sink full, dropping fan-out event",
					"entity_type", entry.EntityType,
					"entity_id", entry.EntityID,
				)
			}
		}
	}
	return nil
}

// ListByEntity returns the recorded entries for one entity, oldest first.
func (t *Trail) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]Entry, error) {
	entries, err := t.store.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}
	return entries, nil
}
