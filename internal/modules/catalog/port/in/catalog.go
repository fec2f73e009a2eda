package in

import (
	"context"

	"pmdrill/internal/modules/catalog/dto"
)

type Usecase interface {
	List(ctx context.Context, input dto.FilterInput) ([]dto.QuestionOutput, error)
	Get(ctx context.Context, id string) (dto.QuestionOutput, error)
	Validate(ctx context.Context, path string) (dto.ValidateOutput, error)
	Reload(ctx context.Context) (dto.ReloadOutput, error)
}
