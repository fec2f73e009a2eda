package in

import (
	"context"

	"pmdrill/internal/modules/coach/dto"
	coachin "pmdrill/internal/modules/coach/port/in"
)

type CLIHandler struct {
	usecase coachin.Usecase
}

func NewCLIHandler(usecase coachin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Question(ctx context.Context, category, difficulty, topic string) (dto.QuestionOutput, error) {
	return h.usecase.RequestQuestion(ctx, dto.QuestionInput{Category: category, Difficulty: difficulty, Topic: topic})
}

func (h CLIHandler) Analyze(ctx context.Context, input dto.AnalyzeInput) (dto.AnalysisOutput, error) {
	return h.usecase.AnalyzeResponse(ctx, input)
}
