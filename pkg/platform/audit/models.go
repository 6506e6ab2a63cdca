// Package audit provides the append-only audit trail shared by all modules.
//
// Every state-changing operation on a claim or item records exactly one
// entry. Entries are never updated or deleted by this core; the trail is the
// source of truth for "who did what, when" during admin review.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is a single immutable audit record. Keep it transport-agnostic so
// stores and sinks can fan out.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    int64     `json:"entity_id"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
	Notes       string    `json:"notes,omitempty"`
}

// Actions recorded by this service.
const (
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionApproved  = "approved"
	ActionRejected  = "rejected"
	ActionWithdrawn = "withdrawn"
)

// Entity types recorded by this service.
const (
	EntityTypeClaim     = "claim"
	EntityTypeFoundItem = "found_item"
	EntityTypeLostItem  = "lost_item"
)

// Store persists audit entries. Append is expected to participate in a
// surrounding SQL transaction when one is carried in the context.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// ListByEntity returns entries for one entity, oldest first.
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]Entry, error)
}
