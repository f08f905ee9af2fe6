package analyst

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no analysis matches.
var ErrNotFound = errors.New("analysis not found")

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, tenant string, id AnalysisID) (*Analysis, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Analysis, error)
}

// RawArchive stores raw model output and returns a URL for it.
type RawArchive interface {
	PutText(ctx context.Context, key, text string) (string, error)
}
