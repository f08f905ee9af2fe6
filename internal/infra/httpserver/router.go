package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appai "github.com/bryanwahyu/verdict-gate/internal/application/ai"
	domai "github.com/bryanwahyu/verdict-gate/internal/domain/ai"
	"github.com/bryanwahyu/verdict-gate/internal/domain/analyst"
	"github.com/bryanwahyu/verdict-gate/internal/domain/verdict"
	"github.com/bryanwahyu/verdict-gate/internal/middleware"
)

// Options carries the HTTP-facing settings from config.
type Options struct {
	MaxContentBytes int
	StaticDir       string
	CORS            cors.Options
	AuthKeys        map[string]string
	Limiter         *middleware.RateLimiter // nil disables rate limiting
	HealthCheckers  map[string]middleware.HealthChecker
}

type Router struct {
	aiSvc  *appai.Service
	opts   Options
	logger *zap.Logger
}

func NewRouter(aiSvc *appai.Service, opts Options, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{aiSvc: aiSvc, opts: opts, logger: logger}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware(logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(opts.CORS))

	mux.Get("/health", middleware.HealthHandler(aiSvc.Configured(), opts.HealthCheckers))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/", r.handleIndex)
	if opts.StaticDir != "" {
		mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(opts.AuthKeys))
		if opts.Limiter != nil {
			rt.Use(middleware.RateLimitMiddleware(opts.Limiter))
		}
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/v1/analyses", r.wrap(r.handleAnalysisList))
		rt.Get("/v1/analyses/{id}", r.wrap(r.handleAnalysisGet))
	})

	return mux
}

// badRequest marks caller errors
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return badRequest{msg: fmt.Sprintf(format, args...)}
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var br badRequest
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &br):
			writeError(w, http.StatusBadRequest, br.msg)
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, analyst.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, appai.ErrJournalDisabled):
			writeError(w, http.StatusNotFound, "journal disabled")
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
		default:
			r.logger.Error("request failed",
				zap.String("request_id", chimw.GetReqID(req.Context())),
				zap.String("path", req.URL.Path),
				zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}

// analyzeBody tells a missing field apart from an empty one.
type analyzeBody struct {
	Type    *string `json:"type"`
	Content *string `json:"content"`
}

// POST /analyze
// Body: {"type": "url", "content": "..."}
// Always 200 with a verdict once the body is valid; upstream failures become
// a RISKY fallback verdict.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	if r.opts.MaxContentBytes > 0 {
		// room for JSON escaping and the type field
		req.Body = http.MaxBytesReader(w, req.Body, int64(r.opts.MaxContentBytes)*2+4096)
	}

	var body analyzeBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return badRequestf("invalid JSON body: %v", err)
	}
	if body.Type == nil {
		return badRequestf("type is required")
	}
	if body.Content == nil {
		return badRequestf("content is required")
	}

	// type and content go to the prompt exactly as sent
	in := verdict.Request{Type: *body.Type, Content: *body.Content}
	if err := middleware.ValidateAnalysisType(in.Type); err != nil {
		return badRequest{msg: err.Error()}
	}
	if err := middleware.ValidateContent(in.Content, r.opts.MaxContentBytes); err != nil {
		return badRequest{msg: err.Error()}
	}

	tenant := middleware.GetTenantFromContext(req.Context())
	res := r.aiSvc.Analyze(req.Context(), tenant, in)
	middleware.RecordVerdict(string(res.Verdict.Verdict), string(res.FallbackKind))

	w.Header().Set("X-Analysis-ID", string(res.ID))
	w.Header().Set("X-Verdict-Source", res.Source)
	return writeJSON(w, http.StatusOK, res.Verdict)
}

// GET /v1/analyses?page=&page_size=
func (r *Router) handleAnalysisList(w http.ResponseWriter, req *http.Request) error {
	tenant := middleware.GetTenantFromContext(req.Context())
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	page = middleware.ValidatePage(page)
	size = middleware.ValidateLimit(size)

	list, err := r.aiSvc.ListAnalyses(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"data":      list,
		"page":      page,
		"page_size": size,
	})
}

// GET /v1/analyses/{id}
func (r *Router) handleAnalysisGet(w http.ResponseWriter, req *http.Request) error {
	tenant := middleware.GetTenantFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest{msg: err.Error()}
	}

	a, err := r.aiSvc.GetAnalysis(req.Context(), tenant, analyst.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	if r.opts.StaticDir == "" {
		http.NotFound(w, req)
		return
	}
	http.ServeFile(w, req, filepath.Join(r.opts.StaticDir, "index.html"))
}
