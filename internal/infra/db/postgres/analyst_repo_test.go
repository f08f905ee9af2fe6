package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/verdict-gate/internal/domain/analyst"
	"github.com/bryanwahyu/verdict-gate/internal/domain/verdict"
)

var analysisColumns = []string{
	"id", "tenant_id", "type", "content_sha256", "content_bytes", "verdict", "confidence",
	"reasons_json", "recommendation", "source", "fallback_kind", "provider", "raw_url", "created_at",
}

const testID = "0b8f3c1e-4a5d-4c6b-9e7f-1a2b3c4d5e6f"

var testCreatedAt = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newMockRepo(t *testing.T) (*AnalystRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAnalystRepository(db), mock
}

func TestAnalystRepository_Save(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO verdict_analyses")).
		WithArgs(testID, "acme", "text message", "abc123", int64(5),
			"RISKY", 0.5, `["AI output parsing error"]`, "Proceed with caution",
			domain.SourceFallback, "parse_error", "gemini", "", testCreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &domain.Analysis{
		ID:             testID,
		TenantID:       "acme",
		Type:           "text message",
		ContentSHA256:  "abc123",
		ContentBytes:   5,
		Verdict:        verdict.LevelRisky,
		Confidence:     0.5,
		Reasons:        []string{"AI output parsing error"},
		Recommendation: "Proceed with caution",
		Source:         domain.SourceFallback,
		FallbackKind:   verdict.FallbackParseError,
		Provider:       "gemini",
		CreatedAt:      testCreatedAt,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalystRepository_SaveDefaults(t *testing.T) {
	repo, mock := newMockRepo(t)

	// empty tenant/type become "-", nil reasons become [], zero time is filled in
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO verdict_analyses")).
		WithArgs(testID, "-", "-", "", int64(0),
			"RISKY", 0.0, `[]`, "", domain.SourceFallback, "", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &domain.Analysis{
		ID:      testID,
		Verdict: verdict.LevelRisky,
		Source:  domain.SourceFallback,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalystRepository_SaveError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO verdict_analyses")).
		WillReturnError(errors.New("connection refused"))

	err := repo.Save(context.Background(), &domain.Analysis{ID: testID})
	assert.EqualError(t, err, "connection refused")
}

func TestAnalystRepository_Get(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		wantErr error
	}{
		{
			name: "found",
			rows: sqlmock.NewRows(analysisColumns).AddRow(
				testID, "acme", "url", "abc123", int64(24), "DANGEROUS", 0.97,
				[]byte(`["phishing kit","lookalike domain"]`), "block", "model", "", "openai",
				"http://minio:9000/verdicts/raw/acme/"+testID+".txt", testCreatedAt),
		},
		{
			name:    "missing",
			rows:    sqlmock.NewRows(analysisColumns),
			wantErr: domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectQuery(regexp.QuoteMeta("FROM verdict_analyses WHERE tenant_id=$1 AND id=$2 LIMIT 1")).
				WithArgs("acme", testID).
				WillReturnRows(tt.rows)

			a, err := repo.Get(context.Background(), "acme", testID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, a)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.AnalysisID(testID), a.ID)
				assert.Equal(t, "acme", a.TenantID)
				assert.Equal(t, verdict.LevelDangerous, a.Verdict)
				assert.Equal(t, 0.97, a.Confidence)
				assert.Equal(t, []string{"phishing kit", "lookalike domain"}, a.Reasons)
				assert.Equal(t, verdict.FallbackNone, a.FallbackKind)
				assert.Equal(t, testCreatedAt, a.CreatedAt)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAnalystRepository_Paginate(t *testing.T) {
	tests := []struct {
		name           string
		page, pageSize int
		wantLimit      int64
		wantOffset     int64
	}{
		{"second page", 2, 10, 10, 10},
		{"defaults", 0, 0, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			rows := sqlmock.NewRows(analysisColumns).
				AddRow("id-2", "acme", "url", "h2", int64(3), "SAFE", 0.9, `["known domain"]`, "proceed", "model", "", "gemini", "", testCreatedAt).
				AddRow("id-1", "acme", "file", "h1", int64(7), "RISKY", 0.5, `["AI service unavailable"]`, "Proceed with caution", "fallback", "upstream_unavailable", "gemini", "", testCreatedAt.Add(-time.Minute))
			mock.ExpectQuery(regexp.QuoteMeta("WHERE tenant_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3")).
				WithArgs("acme", tt.wantLimit, tt.wantOffset).
				WillReturnRows(rows)

			list, err := repo.Paginate(context.Background(), "acme", tt.page, tt.pageSize)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, domain.AnalysisID("id-2"), list[0].ID)
			assert.Equal(t, verdict.FallbackUpstreamUnavailable, list[1].FallbackKind)
			assert.Equal(t, []string{"AI service unavailable"}, list[1].Reasons)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAnalystRepository_PaginateEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE tenant_id=$1")).
		WithArgs("other", int64(20), int64(0)).
		WillReturnRows(sqlmock.NewRows(analysisColumns))

	list, err := repo.Paginate(context.Background(), "other", 1, 20)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestAnalystRepository_PaginateError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE tenant_id=$1")).
		WillReturnError(errors.New("timeout"))

	_, err := repo.Paginate(context.Background(), "acme", 1, 20)
	assert.EqualError(t, err, "timeout")
}

func TestAnalystRepository_ReasonsJSONBRoundTrip(t *testing.T) {
	repo, mock := newMockRepo(t)
	reasons := []string{`quoted "payload"`, "unicode ✓", ""}
	encoded := `["quoted \"payload\"","unicode ✓",""]`

	mock.ExpectExec(regexp.QuoteMeta("$8::jsonb")).
		WithArgs(testID, "acme", "url", "h", int64(1), "DANGEROUS", 1.0, encoded, "block",
			domain.SourceModel, "", "gemini", "", testCreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(context.Background(), &domain.Analysis{
		ID: testID, TenantID: "acme", Type: "url", ContentSHA256: "h", ContentBytes: 1,
		Verdict: verdict.LevelDangerous, Confidence: 1, Reasons: reasons, Recommendation: "block",
		Source: domain.SourceModel, Provider: "gemini", CreatedAt: testCreatedAt,
	}))

	// jsonb comes back re-serialized with spaces after commas
	mock.ExpectQuery(regexp.QuoteMeta("reasons_json::text")).
		WithArgs("acme", testID).
		WillReturnRows(sqlmock.NewRows(analysisColumns).AddRow(
			testID, "acme", "url", "h", int64(1), "DANGEROUS", 1.0,
			[]byte(`["quoted \"payload\"", "unicode ✓", ""]`), "block", "model", "", "gemini", "", testCreatedAt))

	a, err := repo.Get(context.Background(), "acme", testID)
	require.NoError(t, err)
	assert.Equal(t, reasons, a.Reasons)
	require.NoError(t, mock.ExpectationsWereMet())
}
