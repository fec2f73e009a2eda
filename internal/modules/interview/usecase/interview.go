package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	catalogin "pmdrill/internal/modules/catalog/port/in"
	"pmdrill/internal/modules/interview/domain"
	"pmdrill/internal/modules/interview/dto"
	interviewin "pmdrill/internal/modules/interview/port/in"
	"pmdrill/internal/modules/interview/service"
	apperrors "pmdrill/internal/platform/errors"
)

type Interactor struct {
	svc     *service.SessionService
	catalog catalogin.Usecase
	rng     *rand.Rand
}

// NewInteractor wires the session service to the catalog. A nil rng uses
// the global source.
func NewInteractor(svc *service.SessionService, catalog catalogin.Usecase, rng *rand.Rand) interviewin.Usecase {
	return &Interactor{svc: svc, catalog: catalog, rng: rng}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	if input.QuestionCount < 1 {
		return dto.StartOutput{}, fmt.Errorf("%w: question count must be at least 1", apperrors.ErrInvalidInput)
	}

	var candidates []domain.Question
	if len(input.Questions) > 0 {
		for _, q := range input.Questions {
			candidates = append(candidates, fromView(q))
		}
	} else {
		if i.catalog == nil {
			return dto.StartOutput{}, fmt.Errorf("catalog is not configured")
		}
		listed, err := i.catalog.List(ctx, input.Filter)
		if err != nil {
			return dto.StartOutput{}, err
		}
		for _, q := range listed {
			candidates = append(candidates, fromCatalog(q))
		}
	}
	if len(candidates) == 0 {
		return dto.StartOutput{}, apperrors.ErrEmptySelection
	}

	selected := domain.SelectQuestions(candidates, input.QuestionCount, input.Randomize, i.rng)
	session, err := i.svc.Start(ctx, selected)
	if err != nil {
		return dto.StartOutput{}, err
	}
	return dto.StartOutput{
		Session:   toSessionOutput(session),
		Requested: input.QuestionCount,
		Selected:  len(selected),
		Shortfall: len(selected) < input.QuestionCount,
	}, nil
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	reading, session, completed, err := i.svc.Tick(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	if session == nil {
		return dto.StatusOutput{}, apperrors.ErrNoActiveSession
	}
	return toStatusOutput(session, toTimerOutput(reading, completed)), nil
}

func (i *Interactor) Pause(ctx context.Context) (dto.StatusOutput, error) {
	return i.afterMutation(ctx, i.svc.Pause)
}

func (i *Interactor) Resume(ctx context.Context) (dto.StatusOutput, error) {
	return i.afterMutation(ctx, i.svc.Resume)
}

func (i *Interactor) Complete(ctx context.Context) (dto.StatusOutput, error) {
	return i.afterMutation(ctx, i.svc.Complete)
}

func (i *Interactor) Next(ctx context.Context) (dto.StatusOutput, error) {
	return i.afterMutation(ctx, i.svc.Next)
}

func (i *Interactor) Previous(ctx context.Context) (dto.StatusOutput, error) {
	return i.afterMutation(ctx, i.svc.Previous)
}

func (i *Interactor) Jump(ctx context.Context, index int) (dto.StatusOutput, error) {
	return i.afterMutation(ctx, func(ctx context.Context) (*domain.Session, error) {
		return i.svc.SetCurrent(ctx, index)
	})
}

// Answer trims content and rejects empty answers before recording. An answer
// arriving on the tick that hits the time limit fails with ErrTimeLimit.
func (i *Interactor) Answer(ctx context.Context, input dto.AnswerInput) (dto.StatusOutput, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return dto.StatusOutput{}, fmt.Errorf("%w: answer must not be empty", apperrors.ErrInvalidInput)
	}
	reading, session, completed, err := i.svc.Tick(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	if session == nil {
		return dto.StatusOutput{}, apperrors.ErrNoActiveSession
	}
	if completed {
		return dto.StatusOutput{}, fmt.Errorf("%w: the session completed before the answer was recorded", apperrors.ErrTimeLimit)
	}
	questionID := strings.TrimSpace(input.QuestionID)
	if questionID == "" {
		current, _ := session.CurrentQuestion()
		questionID = current.ID
	}
	duration := int(reading.QuestionElapsed / time.Second)
	if input.DurationSec != nil {
		duration = *input.DurationSec
	}
	return i.afterMutation(ctx, func(ctx context.Context) (*domain.Session, error) {
		return i.svc.AddResponse(ctx, questionID, content, duration)
	})
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}

func (i *Interactor) Tick(ctx context.Context) (dto.TimerOutput, error) {
	reading, _, completed, err := i.svc.Tick(ctx)
	if err != nil {
		return dto.TimerOutput{}, err
	}
	return toTimerOutput(reading, completed), nil
}

func (i *Interactor) Watch(ctx context.Context, interval time.Duration, onTick func(dto.TimerOutput)) error {
	sawSession := false
	err := i.svc.RunTimer(ctx, interval, func(reading domain.Reading, session *domain.Session, completed bool) {
		sawSession = sawSession || session != nil
		if onTick != nil {
			onTick(toTimerOutput(reading, completed))
		}
	})
	if err != nil {
		return err
	}
	if !sawSession {
		return apperrors.ErrNoActiveSession
	}
	return nil
}

func (i *Interactor) afterMutation(ctx context.Context, op func(context.Context) (*domain.Session, error)) (dto.StatusOutput, error) {
	session, err := op(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	if session == nil {
		return dto.StatusOutput{}, apperrors.ErrNoActiveSession
	}
	return i.Status(ctx)
}
