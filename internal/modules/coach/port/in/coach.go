package in

import (
	"context"

	"pmdrill/internal/modules/coach/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	RequestQuestion(ctx context.Context, input dto.QuestionInput) (dto.QuestionOutput, error)
	AnalyzeResponse(ctx context.Context, input dto.AnalyzeInput) (dto.AnalysisOutput, error)
}
