package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/verdict-gate/internal/application"
	domai "github.com/bryanwahyu/verdict-gate/internal/domain/ai"
	"github.com/bryanwahyu/verdict-gate/internal/domain/analyst"
	"github.com/bryanwahyu/verdict-gate/internal/domain/verdict"
	"github.com/bryanwahyu/verdict-gate/internal/infra/ai/prompt"
)

// ErrJournalDisabled is returned by history lookups when no repository is wired.
var ErrJournalDisabled = errors.New("analysis journal disabled")

// Service turns a Request into a Verdict. It never returns an error from
// Analyze: every failure is absorbed into a RISKY fallback verdict.
// Service is safe for concurrent use; it keeps no per-request state.
type Service struct {
	generator domai.Generator

	// optional
	Journal analyst.Repository
	Archive analyst.RawArchive

	Clock   application.Clock
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewService wires a service. A nil generator means no credential was
// configured; Analyze then answers with the configuration fallback.
func NewService(generator domai.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		generator: generator,
		Clock:     application.SystemClock{},
		Logger:    logger,
	}
}

// Configured reports whether a generation backend is available.
func (s *Service) Configured() bool { return s.generator != nil }

// Result is a verdict plus where it came from.
type Result struct {
	ID           analyst.AnalysisID
	Verdict      verdict.Verdict
	Source       string
	FallbackKind verdict.FallbackKind
	Provider     string
}

// Analyze classifies req for tenant. Exactly one generation call is made
// when a backend is configured, none otherwise.
func (s *Service) Analyze(ctx context.Context, tenant string, req verdict.Request) Result {
	res := Result{ID: analyst.AnalysisID(uuid.New().String())}
	log := s.Logger.With(zap.String("analysis_id", string(res.ID)), zap.String("type", req.Type))

	if s.generator == nil {
		log.Warn("analysis skipped", zap.Error(verdict.ErrConfigurationMissing))
		s.fallback(&res, verdict.FallbackConfigurationMissing)
		s.record(ctx, tenant, req, res, "")
		return res
	}
	res.Provider = s.generator.Name()

	genCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(genCtx, prompt.Build(req))
	if err != nil {
		kind := verdict.FallbackUpstreamUnavailable
		if errors.Is(err, domai.ErrQuotaExceeded) {
			kind = verdict.FallbackQuotaExceeded
		}
		log.Warn("generation failed",
			zap.String("provider", res.Provider),
			zap.Error(fmt.Errorf("%w: %v", verdict.ErrUpstreamUnavailable, err)))
		s.fallback(&res, kind)
		s.record(ctx, tenant, req, res, "")
		return res
	}

	v, err := verdict.Parse(raw)
	if err != nil {
		log.Warn("model output rejected",
			zap.String("provider", res.Provider),
			zap.Int("raw_bytes", len(raw)),
			zap.Error(err))
		s.fallback(&res, verdict.FallbackParseError)
	} else {
		res.Verdict = v
		res.Source = analyst.SourceModel
		log.Info("analysis complete",
			zap.String("provider", res.Provider),
			zap.String("verdict", string(v.Verdict)),
			zap.Float64("confidence", v.Confidence))
	}

	s.record(ctx, tenant, req, res, raw)
	return res
}

func (s *Service) fallback(res *Result, kind verdict.FallbackKind) {
	res.Verdict = verdict.Fallback(kind)
	res.Source = analyst.SourceFallback
	res.FallbackKind = kind
}

// record archives raw output and journals the result. Failures are logged only.
func (s *Service) record(ctx context.Context, tenant string, req verdict.Request, res Result, raw string) {
	if s.Journal == nil && s.Archive == nil {
		return
	}

	var rawURL string
	if s.Archive != nil && raw != "" {
		key := fmt.Sprintf("raw/%s/%s.txt", tenant, res.ID)
		url, err := s.Archive.PutText(ctx, key, raw)
		if err != nil {
			s.Logger.Error("raw output archive failed", zap.String("analysis_id", string(res.ID)), zap.Error(err))
		} else {
			rawURL = url
		}
	}

	if s.Journal == nil {
		return
	}
	sum := sha256.Sum256([]byte(req.Content))
	a := &analyst.Analysis{
		ID:             res.ID,
		TenantID:       tenant,
		Type:           req.Type,
		ContentSHA256:  hex.EncodeToString(sum[:]),
		ContentBytes:   len(req.Content),
		Verdict:        res.Verdict.Verdict,
		Confidence:     res.Verdict.Confidence,
		Reasons:        res.Verdict.Reasons,
		Recommendation: res.Verdict.Recommendation,
		Source:         res.Source,
		FallbackKind:   res.FallbackKind,
		Provider:       res.Provider,
		RawURL:         rawURL,
		CreatedAt:      s.Clock.Now(),
	}
	if err := s.Journal.Save(ctx, a); err != nil {
		s.Logger.Error("journal save failed", zap.String("analysis_id", string(res.ID)), zap.Error(err))
	}
}

// ListAnalyses returns a page of journaled analyses, newest first.
func (s *Service) ListAnalyses(ctx context.Context, tenant string, page, pageSize int) ([]*analyst.Analysis, error) {
	if s.Journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.Journal.Paginate(ctx, tenant, page, pageSize)
}

// GetAnalysis returns one journaled analysis.
func (s *Service) GetAnalysis(ctx context.Context, tenant string, id analyst.AnalysisID) (*analyst.Analysis, error) {
	if s.Journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.Journal.Get(ctx, tenant, id)
}
