//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema mirrors the production DDL. Applied once per container.
const schema = `
CREATE TABLE IF NOT EXISTS found_items (
	id                 BIGSERIAL PRIMARY KEY,
	category           TEXT NOT NULL,
	item_type          TEXT NOT NULL,
	color              TEXT NOT NULL DEFAULT '',
	brand              TEXT NOT NULL DEFAULT '',
	found_location     TEXT NOT NULL,
	found_at           TIMESTAMPTZ NOT NULL,
	public_description TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS lost_items (
	id                 BIGSERIAL PRIMARY KEY,
	category           TEXT NOT NULL,
	item_type          TEXT NOT NULL,
	last_seen_location TEXT NOT NULL,
	last_seen_at       TIMESTAMPTZ NOT NULL,
	public_description TEXT NOT NULL DEFAULT '',
	private_details    TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS claims (
	id                      BIGSERIAL PRIMARY KEY,
	found_item_id           BIGINT NOT NULL REFERENCES found_items(id),
	claimed_category        TEXT NOT NULL DEFAULT '',
	claimed_item_type       TEXT NOT NULL DEFAULT '',
	claimed_brand           TEXT NOT NULL DEFAULT '',
	claimed_color           TEXT NOT NULL DEFAULT '',
	claimed_location        TEXT NOT NULL DEFAULT '',
	claimed_private_details TEXT NOT NULL DEFAULT '',
	score                   INTEGER NOT NULL,
	status                  TEXT NOT NULL,
	claimed_by              TEXT NOT NULL,
	created_at              TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_claims_status ON claims (status, created_at);

CREATE TABLE IF NOT EXISTS audit_log (
	id           UUID PRIMARY KEY,
	action       TEXT NOT NULL,
	entity_type  TEXT NOT NULL,
	entity_id    BIGINT NOT NULL,
	performed_by TEXT NOT NULL,
	occurred_at  TIMESTAMPTZ NOT NULL,
	notes        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log (entity_type, entity_id, occurred_at);
`

// PostgresContainer wraps a testcontainers Postgres instance with an open
// connection and the schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	DSN       string
}

// NewPostgresContainer starts a new Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("reclaim_test"),
		tcpostgres.WithUsername("reclaim"),
		tcpostgres.WithPassword("reclaim"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, DB: db, DSN: dsn}
}

// TruncateTables empties the named tables and resets their sequences.
// Use between tests to ensure isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx,
		fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	return err
}
