// Package worker drains recorded audit entries to an external publisher.
package worker

import (
	"context"
	"log/slog"

	audit "reclaim/pkg/platform/audit"
)

// Publisher is the outbound side of the fan-out, typically Kafka.
type Publisher interface {
	Publish(ctx context.Context, entry audit.Entry) error
}

// Worker consumes audit entries from a channel and forwards them to the
// publisher. Publish failures are logged and skipped: the store already holds
// the entry, so fan-out never blocks or fails the triggering operation.
type Worker struct {
	publisher Publisher
	inbox     <-chan audit.Entry
	logger    *slog.Logger
}

func New(publisher Publisher, inbox <-chan audit.Entry, logger *slog.Logger) *Worker {
	return &Worker{publisher: publisher, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry := <-w.inbox:
			if err := w.publisher.Publish(ctx, entry); err != nil {
				if w.logger != nil {
					w.logger.ErrorContext(ctx, "audit fan-out publish failed",
						"entity_type", entry.EntityType,
						"entity_id", entry.EntityID,
						"action", entry.Action,
						"error", err,
					)
				}
			}
		}
	}
}
