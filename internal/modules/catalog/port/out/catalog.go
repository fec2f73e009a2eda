package out

import (
	"context"

	"pmdrill/internal/modules/catalog/domain"
)

// QuestionSource yields the full catalog in display order.
type QuestionSource interface {
	Load(ctx context.Context) ([]domain.Question, error)
}

type QuestionFileReader interface {
	ReadFile(ctx context.Context, path string) ([]domain.Question, error)
}
