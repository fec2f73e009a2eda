package out

import (
	"context"

	"pmdrill/internal/modules/coach/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Host talks to a plugin process. Analyze returns the plugin's raw JSON so
// the caller decides how lenient to be.
type Host interface {
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	GenerateQuestion(ctx context.Context, manifest domain.Manifest, req domain.QuestionRequest) (domain.Question, error)
	Analyze(ctx context.Context, manifest domain.Manifest, req domain.AnalysisRequest) (string, error)
}
