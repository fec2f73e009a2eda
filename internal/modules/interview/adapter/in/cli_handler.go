package in

import (
	"context"
	"time"

	"pmdrill/internal/modules/interview/dto"
	interviewin "pmdrill/internal/modules/interview/port/in"
)

type CLIHandler struct {
	usecase interviewin.Usecase
}

func NewCLIHandler(usecase interviewin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	return h.usecase.Start(ctx, input)
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Answer(ctx context.Context, questionID, content string, durationSec *int) (dto.StatusOutput, error) {
	return h.usecase.Answer(ctx, dto.AnswerInput{QuestionID: questionID, Content: content, DurationSec: durationSec})
}

func (h CLIHandler) Next(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Next(ctx)
}

func (h CLIHandler) Previous(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Previous(ctx)
}

// Jump takes a 1-based question number.
func (h CLIHandler) Jump(ctx context.Context, number int) (dto.StatusOutput, error) {
	return h.usecase.Jump(ctx, number-1)
}

func (h CLIHandler) Pause(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Complete(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Complete(ctx)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}

func (h CLIHandler) Watch(ctx context.Context, interval time.Duration, onTick func(dto.TimerOutput)) error {
	return h.usecase.Watch(ctx, interval, onTick)
}
