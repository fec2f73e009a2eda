package in

import (
	"context"
	"time"

	"pmdrill/internal/modules/interview/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	Pause(ctx context.Context) (dto.StatusOutput, error)
	Resume(ctx context.Context) (dto.StatusOutput, error)
	Complete(ctx context.Context) (dto.StatusOutput, error)
	Answer(ctx context.Context, input dto.AnswerInput) (dto.StatusOutput, error)
	Next(ctx context.Context) (dto.StatusOutput, error)
	Previous(ctx context.Context) (dto.StatusOutput, error)
	Jump(ctx context.Context, index int) (dto.StatusOutput, error)
	Clear(ctx context.Context) error
	Tick(ctx context.Context) (dto.TimerOutput, error)
	Watch(ctx context.Context, interval time.Duration, onTick func(dto.TimerOutput)) error
}
