package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/verdict-gate/internal/domain/analyst"
	"github.com/bryanwahyu/verdict-gate/internal/domain/verdict"
)

type AnalystRepository struct {
	db *sql.DB
}

func NewAnalystRepository(db *sql.DB) *AnalystRepository {
	return &AnalystRepository{db: db}
}

const selectColumns = `
SELECT id, tenant_id, type, content_sha256, content_bytes, verdict, confidence,
       reasons_json::text, recommendation, source, fallback_kind, provider, raw_url, created_at
FROM verdict_analyses`

// Save inserts or updates an analysis record
func (r *AnalystRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO verdict_analyses
  (id, tenant_id, type, content_sha256, content_bytes, verdict, confidence,
   reasons_json, recommendation, source, fallback_kind, provider, raw_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8::jsonb,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET
  verdict=EXCLUDED.verdict,
  confidence=EXCLUDED.confidence,
  reasons_json=EXCLUDED.reasons_json,
  recommendation=EXCLUDED.recommendation,
  source=EXCLUDED.source,
  fallback_kind=EXCLUDED.fallback_kind,
  raw_url=EXCLUDED.raw_url;
`
	reasons, err := reasonsJSON(a.Reasons)
	if err != nil {
		return err
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q,
		string(a.ID), stringOrDash(a.TenantID), stringOrDash(a.Type), a.ContentSHA256, a.ContentBytes,
		string(a.Verdict), a.Confidence, reasons, a.Recommendation,
		a.Source, string(a.FallbackKind), a.Provider, a.RawURL, createdAt,
	)
	return err
}

// Get returns one analysis, domain.ErrNotFound if missing
func (r *AnalystRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE tenant_id=$1 AND id=$2 LIMIT 1;`, tenant, string(id))
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalystRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	rows, err := r.db.QueryContext(ctx,
		selectColumns+` WHERE tenant_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3;`,
		tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var a domain.Analysis
	var id, lvl, kind, reasons string
	if err := row.Scan(
		&id, &a.TenantID, &a.Type, &a.ContentSHA256, &a.ContentBytes, &lvl, &a.Confidence,
		&reasons, &a.Recommendation, &a.Source, &kind, &a.Provider, &a.RawURL, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.ID = domain.AnalysisID(id)
	a.Verdict = verdict.Level(lvl)
	a.FallbackKind = verdict.FallbackKind(kind)
	a.Reasons = parseReasons(reasons)
	return &a, nil
}
