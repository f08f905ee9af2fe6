package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS verdict_analyses (
  id              TEXT             PRIMARY KEY,
  tenant_id       TEXT             NOT NULL,
  type            TEXT             NOT NULL,
  content_sha256  TEXT             NOT NULL,
  content_bytes   INTEGER          NOT NULL,
  verdict         TEXT             NOT NULL,
  confidence      DOUBLE PRECISION NOT NULL,
  reasons_json    JSONB            NOT NULL,
  recommendation  TEXT             NOT NULL,
  source          TEXT             NOT NULL,
  fallback_kind   TEXT             NOT NULL DEFAULT '',
  provider        TEXT             NOT NULL DEFAULT '',
  raw_url         TEXT             NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ      NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verdict_analyses_tenant_created
  ON verdict_analyses (tenant_id, created_at DESC);`

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the journal table if missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
