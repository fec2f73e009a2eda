package in

import (
	"context"

	"pmdrill/internal/modules/history/dto"
	historyin "pmdrill/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.EntryOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Show(ctx context.Context, id string) (dto.SessionRecord, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Remove(ctx context.Context, id string) (bool, error) {
	return h.usecase.Remove(ctx, id)
}

func (h CLIHandler) Export(ctx context.Context, id, format, target string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{ID: id, Format: dto.ExportFormat(format), Target: dto.ExportTarget(target)})
}

func (h CLIHandler) Stats(ctx context.Context) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}
