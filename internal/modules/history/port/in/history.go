package in

import (
	"context"

	"pmdrill/internal/modules/history/dto"
)

type Usecase interface {
	RecordCompletion(ctx context.Context, record dto.SessionRecord) error
	List(ctx context.Context) ([]dto.EntryOutput, error)
	Get(ctx context.Context, id string) (dto.SessionRecord, error)
	Remove(ctx context.Context, id string) (bool, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Preview(ctx context.Context, id string) (string, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
}
