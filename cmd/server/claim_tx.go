package main

import (
	"context"
	"database/sql"
	"time"

	claimservice "reclaim/internal/claims/service"
	claimstore "reclaim/internal/claims/store/claim"
	dErrors "reclaim/pkg/domain-errors"
	txcontext "reclaim/pkg/platform/tx"
)

const defaultClaimTxTimeout = 5 * time.Second

// claimPostgresTx runs claim operations inside a real database transaction.
// The transaction rides the context, so the audit store's Append joins it and
// StatusForUpdate's row lock holds until commit.
type claimPostgresTx struct {
	db      *sql.DB
	store   *claimstore.PostgresStore
	timeout time.Duration
}

func newClaimPostgresTx(db *sql.DB, store *claimstore.PostgresStore) *claimPostgresTx {
	return &claimPostgresTx{db: db, store: store}
}

func (t *claimPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store claimservice.ClaimStore) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultClaimTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx), t.store); err != nil {
		return err
	}

	return tx.Commit()
}
