package analyst

import (
	"time"

	"github.com/bryanwahyu/verdict-gate/internal/domain/verdict"
)

// AnalysisID identifier type
type AnalysisID string

// Source values
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Analysis is one journaled verdict. Caller content is never stored,
// only its digest and size.
type Analysis struct {
	ID             AnalysisID           `json:"id"`
	TenantID       string               `json:"tenant_id"`
	Type           string               `json:"type"`
	ContentSHA256  string               `json:"content_sha256"`
	ContentBytes   int                  `json:"content_bytes"`
	Verdict        verdict.Level        `json:"verdict"`
	Confidence     float64              `json:"confidence"`
	Reasons        []string             `json:"reasons"`
	Recommendation string               `json:"recommendation"`
	Source         string               `json:"source"`
	FallbackKind   verdict.FallbackKind `json:"fallback_kind,omitempty"`
	Provider       string               `json:"provider,omitempty"`
	RawURL         string               `json:"raw_url,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}
