package usecase

import (
	"context"
	"fmt"
	"strings"

	"pmdrill/internal/modules/catalog/domain"
	"pmdrill/internal/modules/catalog/dto"
	catalogin "pmdrill/internal/modules/catalog/port/in"
	catalogout "pmdrill/internal/modules/catalog/port/out"
	"pmdrill/internal/modules/catalog/service"
	apperrors "pmdrill/internal/platform/errors"
)

type Interactor struct {
	svc    *service.CatalogService
	reader catalogout.QuestionFileReader
}

func NewInteractor(svc *service.CatalogService, reader catalogout.QuestionFileReader) catalogin.Usecase {
	return &Interactor{svc: svc, reader: reader}
}

func (i *Interactor) List(ctx context.Context, input dto.FilterInput) ([]dto.QuestionOutput, error) {
	filter, err := toFilter(input)
	if err != nil {
		return nil, err
	}
	questions, err := i.svc.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuestionOutput, 0, len(questions))
	for _, q := range questions {
		out = append(out, toOutput(q))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.QuestionOutput, error) {
	q, err := i.svc.Find(ctx, strings.TrimSpace(id))
	if err != nil {
		return dto.QuestionOutput{}, err
	}
	return toOutput(q), nil
}

func (i *Interactor) Validate(ctx context.Context, path string) (dto.ValidateOutput, error) {
	if strings.TrimSpace(path) == "" {
		return dto.ValidateOutput{}, fmt.Errorf("%w: catalog path is required", apperrors.ErrInvalidInput)
	}
	if i.reader == nil {
		return dto.ValidateOutput{}, fmt.Errorf("catalog reader is not configured")
	}
	questions, err := i.reader.ReadFile(ctx, path)
	if err != nil {
		return dto.ValidateOutput{}, err
	}
	out := dto.ValidateOutput{Path: path, Questions: len(questions)}
	for _, problem := range domain.ValidateCatalog(questions) {
		out.Problems = append(out.Problems, problem.Error())
	}
	return out, nil
}

func (i *Interactor) Reload(ctx context.Context) (dto.ReloadOutput, error) {
	questions, err := i.svc.Reload(ctx)
	if err != nil {
		return dto.ReloadOutput{}, err
	}
	return dto.ReloadOutput{Questions: len(questions)}, nil
}

func toFilter(input dto.FilterInput) (domain.Filter, error) {
	filter := domain.Filter{
		MaxMinutes:             input.MaxMinutes,
		Search:                 strings.TrimSpace(input.Search),
		Tags:                   input.Tags,
		ExcludeContextRequired: input.ExcludeContextRequired,
	}
	for _, raw := range input.Categories {
		c := domain.Category(strings.ToLower(strings.TrimSpace(raw)))
		if err := c.Validate(); err != nil {
			return domain.Filter{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
		}
		filter.Categories = append(filter.Categories, c)
	}
	for _, raw := range input.Difficulties {
		d := domain.Difficulty(strings.ToLower(strings.TrimSpace(raw)))
		if err := d.Validate(); err != nil {
			return domain.Filter{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
		}
		filter.Difficulties = append(filter.Difficulties, d)
	}
	if input.MaxMinutes != nil && *input.MaxMinutes <= 0 {
		return domain.Filter{}, fmt.Errorf("%w: max minutes must be positive", apperrors.ErrInvalidInput)
	}
	return filter, nil
}

func toOutput(q domain.Question) dto.QuestionOutput {
	return dto.QuestionOutput{
		ID:               q.ID,
		Prompt:           q.Prompt,
		Category:         string(q.Category),
		Difficulty:       string(q.Difficulty),
		Context:          q.Context,
		Framework:        append([]string(nil), q.Framework...),
		EstimatedMinutes: q.EstimatedMinutes,
		Tags:             append([]string(nil), q.Tags...),
		FollowUps:        append([]string(nil), q.FollowUps...),
		RequiresContext:  q.RequiresContext,
	}
}
