package found

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reclaim/internal/items/models"
	"reclaim/pkg/domain"
	"reclaim/pkg/platform/sentinel"
	txcontext "reclaim/pkg/platform/tx"
)

// PostgresStore persists found item reports. Methods join a surrounding
// transaction when one is carried in the context.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, item *models.FoundItem) (domain.ItemID, error) {
	query := `
		INSERT INTO found_items (
			category, item_type, color, brand, found_location,
			found_at, public_description, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := s.execer(ctx).QueryRowContext(ctx, query,
		item.Category,
		item.ItemType,
		item.Color,
		item.Brand,
		item.FoundLocation,
		item.FoundAt,
		item.PublicDescription,
		string(item.Status),
		item.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert found item: %w", err)
	}
	item.ID = domain.ItemID(id)
	return item.ID, nil
}

const foundItemColumns = `
	id, category, item_type, color, brand, found_location,
	found_at, public_description, status, created_at
`

func scanFoundItem(row interface{ Scan(dest ...any) error }) (*models.FoundItem, error) {
	var item models.FoundItem
	err := row.Scan(
		&item.ID,
		&item.Category,
		&item.ItemType,
		&item.Color,
		&item.Brand,
		&item.FoundLocation,
		&item.FoundAt,
		&item.PublicDescription,
		&item.Status,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ItemID) (*models.FoundItem, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+foundItemColumns+` FROM found_items WHERE id = $1`, id.Int64())
	item, err := scanFoundItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find found item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) ListPublished(ctx context.Context) ([]models.FoundItem, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+foundItemColumns+` FROM found_items WHERE status = $1 ORDER BY created_at DESC, id DESC`,
		string(models.ItemStatusPublished))
	if err != nil {
		return nil, fmt.Errorf("list published found items: %w", err)
	}
	defer rows.Close()

	var published []models.FoundItem
	for rows.Next() {
		item, err := scanFoundItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan found item: %w", err)
		}
		published = append(published, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate found items: %w", err)
	}
	return published, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id domain.ItemID, status models.ItemStatus) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE found_items SET status = $2 WHERE id = $1`, id.Int64(), string(status))
	if err != nil {
		return fmt.Errorf("update found item status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
