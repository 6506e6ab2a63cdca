package lost

import (
	"context"
	"database/sql"
	"fmt"

	"reclaim/internal/items/models"
	"reclaim/pkg/domain"
	txcontext "reclaim/pkg/platform/tx"
)

// PostgresStore persists lost item reports.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, item *models.LostItem) (domain.ItemID, error) {
	query := `
		INSERT INTO lost_items (
			category, item_type, last_seen_location, last_seen_at,
			public_description, private_details, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var executor interface {
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	} = s.db
	if tx, ok := txcontext.From(ctx); ok {
		executor = tx
	}

	var id int64
	err := executor.QueryRowContext(ctx, query,
		item.Category,
		item.ItemType,
		item.LastSeenLocation,
		item.LastSeenAt,
		item.PublicDescription,
		item.PrivateDetails,
		string(item.Status),
		item.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert lost item: %w", err)
	}
	item.ID = domain.ItemID(id)
	return item.ID, nil
}
