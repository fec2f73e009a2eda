package out

import (
	"context"

	"pmdrill/internal/modules/history/domain"
)

// HistoryRepository stores the insertion-ordered history list. Load yields
// an empty list when nothing usable is stored.
type HistoryRepository interface {
	Load(ctx context.Context) ([]domain.Entry, error)
	Save(ctx context.Context, entries []domain.Entry) error
}

// Projector mirrors history into a queryable index.
type Projector interface {
	Sync(ctx context.Context, entries []domain.Entry) error
	CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error)
	Path() string
}

// ExportSink delivers serialized exports. location describes where the
// bytes ended up.
type ExportSink interface {
	Save(ctx context.Context, filename string, payload []byte) (location string, err error)
}
