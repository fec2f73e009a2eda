package in

import (
	"context"

	"pmdrill/internal/modules/catalog/dto"
	catalogin "pmdrill/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, input dto.FilterInput) ([]dto.QuestionOutput, error) {
	return h.usecase.List(ctx, input)
}

func (h CLIHandler) Show(ctx context.Context, id string) (dto.QuestionOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Validate(ctx context.Context, path string) (dto.ValidateOutput, error) {
	return h.usecase.Validate(ctx, path)
}
