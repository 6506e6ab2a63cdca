package claim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"reclaim/internal/claims/models"
	"reclaim/pkg/domain"
	"reclaim/pkg/platform/sentinel"
	txcontext "reclaim/pkg/platform/tx"
)

// foreignKeyViolation is the postgres error code raised when a claim
// references a found item that does not exist.
const foreignKeyViolation = "23503"

// PostgresStore persists claims. All methods join a surrounding transaction
// when one is carried in the context, which is how StatusForUpdate's row lock
// stays held until the adjudication commits.
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

func (s *PostgresStore) Create(ctx context.Context, c *models.Claim) (domain.ClaimID, error) {
	query := `
		INSERT INTO claims (
			found_item_id, claimed_category, claimed_item_type, claimed_brand,
			claimed_color, claimed_location, claimed_private_details,
			score, status, claimed_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var id int64
	err := s.execer(ctx).QueryRowContext(ctx, query,
		c.FoundItemID.Int64(),
		c.ClaimedCategory,
		c.ClaimedItemType,
		c.ClaimedBrand,
		c.ClaimedColor,
		c.ClaimedLocation,
		c.ClaimedPrivateDetails,
		c.Score,
		string(c.Status),
		c.ClaimedBy,
		c.CreatedAt,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return 0, sentinel.ErrNotFound
		}
		return 0, fmt.Errorf("insert claim: %w", err)
	}
	c.ID = domain.ClaimID(id)
	return c.ID, nil
}

const claimColumns = `
	id, found_item_id, claimed_category, claimed_item_type, claimed_brand,
	claimed_color, claimed_location, claimed_private_details,
	score, status, claimed_by, created_at
`

func scanClaim(row interface{ Scan(dest ...any) error }) (*models.Claim, error) {
	var c models.Claim
	err := row.Scan(
		&c.ID,
		&c.FoundItemID,
		&c.ClaimedCategory,
		&c.ClaimedItemType,
		&c.ClaimedBrand,
		&c.ClaimedColor,
		&c.ClaimedLocation,
		&c.ClaimedPrivateDetails,
		&c.Score,
		&c.Status,
		&c.ClaimedBy,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ClaimID) (*models.Claim, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = $1`, id.Int64())
	c, err := scanClaim(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find claim: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Claim) error {
	query := `
		UPDATE claims SET
			claimed_category = $2, claimed_item_type = $3, claimed_brand = $4,
			claimed_color = $5, claimed_location = $6, claimed_private_details = $7
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		c.ID.Int64(),
		c.ClaimedCategory,
		c.ClaimedItemType,
		c.ClaimedBrand,
		c.ClaimedColor,
		c.ClaimedLocation,
		c.ClaimedPrivateDetails,
	)
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	return requireRow(res)
}

// StatusForUpdate reads the claim status under a row lock. Must run inside a
// transaction; the lock is released on commit or rollback.
func (s *PostgresStore) StatusForUpdate(ctx context.Context, id domain.ClaimID) (models.ClaimStatus, error) {
	var status models.ClaimStatus
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT status FROM claims WHERE id = $1 FOR UPDATE`, id.Int64(),
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read claim status: %w", err)
	}
	return status, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id domain.ClaimID, status models.ClaimStatus) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE claims SET status = $2 WHERE id = $1`, id.Int64(), string(status))
	if err != nil {
		return fmt.Errorf("update claim status: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) ListPending(ctx context.Context) ([]models.Claim, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE status = $1 ORDER BY created_at ASC, id ASC`,
		string(models.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending claims: %w", err)
	}
	defer rows.Close()

	var pending []models.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		pending = append(pending, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}
	return pending, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
