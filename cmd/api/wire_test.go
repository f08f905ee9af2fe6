package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bryanwahyu/verdict-gate/internal/config"
	"github.com/bryanwahyu/verdict-gate/internal/infra/ai/gemini"
	"github.com/bryanwahyu/verdict-gate/internal/infra/ai/manager"
	"github.com/bryanwahyu/verdict-gate/internal/infra/ai/openai"
	"github.com/bryanwahyu/verdict-gate/internal/middleware"
)

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	g, err := newGenerator(ctx, "gemini", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, g, "empty key means not configured")

	g, err = newGenerator(ctx, "openai", "sk-test", "", "")
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, g)

	g, err = newGenerator(ctx, "gemini", "g-test", "", "")
	require.NoError(t, err)
	assert.IsType(t, &gemini.Client{}, g)

	_, err = newGenerator(ctx, "claude", "x", "", "")
	assert.Error(t, err)
}

func TestBuildGenerator(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	cfg := config.Default()
	assert.Nil(t, buildGenerator(ctx, cfg, log))

	cfg.AI.Provider = "openai"
	cfg.AI.APIKey = "sk-test"
	assert.IsType(t, &openai.Client{}, buildGenerator(ctx, cfg, log))

	cfg.AI.FallbackProvider = "gemini"
	cfg.AI.FallbackAPIKey = "g-test"
	g := buildGenerator(ctx, cfg, log)
	require.IsType(t, &manager.Manager{}, g)
	assert.Equal(t, "openai+gemini", g.Name())

	// primary missing, fallback promoted
	cfg.AI.APIKey = ""
	assert.IsType(t, &gemini.Client{}, buildGenerator(ctx, cfg, log))
}

func TestBuildAppWithoutBackends(t *testing.T) {
	cfg := config.Default()
	a, err := buildApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.svc.Configured())
	assert.Nil(t, a.db)
	assert.Nil(t, a.svc.Journal)
	assert.Nil(t, a.svc.Archive)
	assert.Empty(t, a.checkers)
	assert.Equal(t, cfg.AI.Timeout, a.svc.Timeout)
}

func TestRouterOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Server.StaticDir = "./static"
	cfg.Auth.Keys = map[string]string{"acme": "k1"}
	cfg.CORS.AllowedOrigins = []string{"https://app.example.com"}
	cfg.CORS.MaxAge = 600

	limiter := middleware.NewRateLimiter(5, 1)
	defer limiter.Close()

	opts := routerOptions(cfg, limiter, nil)
	assert.Equal(t, 64<<10, opts.MaxContentBytes)
	assert.Equal(t, "./static", opts.StaticDir)
	assert.Equal(t, []string{"https://app.example.com"}, opts.CORS.AllowedOrigins)
	assert.Equal(t, 600, opts.CORS.MaxAge)
	assert.Contains(t, opts.CORS.ExposedHeaders, "X-Verdict-Source")
	assert.Equal(t, "k1", opts.AuthKeys["acme"])
	assert.Same(t, limiter, opts.Limiter)
}
