package manager

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domai "github.com/bryanwahyu/verdict-gate/internal/domain/ai"
)

// Manager sends prompts to a primary generator and, if that fails, to an
// optional fallback generator.
type Manager struct {
	primary  domai.Generator
	fallback domai.Generator
	logger   *zap.Logger
}

func New(primary, fallback domai.Generator, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{primary: primary, fallback: fallback, logger: logger}
}

func (m *Manager) Name() string {
	if m.fallback == nil {
		return m.primary.Name()
	}
	return m.primary.Name() + "+" + m.fallback.Name()
}

func (m *Manager) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := m.primary.Generate(ctx, prompt)
	if err == nil {
		return out, nil
	}
	if m.fallback == nil || ctx.Err() != nil {
		return "", err
	}

	m.logger.Warn("primary generator failed, trying fallback",
		zap.String("primary", m.primary.Name()),
		zap.String("fallback", m.fallback.Name()),
		zap.Error(err))

	out, ferr := m.fallback.Generate(ctx, prompt)
	if ferr != nil {
		return "", fmt.Errorf("all generators failed: %w (primary: %v)", ferr, err)
	}
	return out, nil
}
