package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const schema = `
CREATE TABLE IF NOT EXISTS verdict_analyses (
  id              VARCHAR(36)  NOT NULL PRIMARY KEY,
  tenant_id       VARCHAR(64)  NOT NULL,
  type            VARCHAR(256) NOT NULL,
  content_sha256  CHAR(64)     NOT NULL,
  content_bytes   INT          NOT NULL,
  verdict         VARCHAR(16)  NOT NULL,
  confidence      DOUBLE       NOT NULL,
  reasons_json    JSON         NOT NULL,
  recommendation  TEXT         NOT NULL,
  source          VARCHAR(16)  NOT NULL,
  fallback_kind   VARCHAR(32)  NOT NULL DEFAULT '',
  provider        VARCHAR(64)  NOT NULL DEFAULT '',
  raw_url         TEXT         NOT NULL,
  created_at      DATETIME(6)  NOT NULL,
  INDEX idx_verdict_analyses_tenant_created (tenant_id, created_at)
)`

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
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
