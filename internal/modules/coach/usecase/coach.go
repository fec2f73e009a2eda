package usecase

import (
	"context"
	"fmt"
	"strings"

	"pmdrill/internal/modules/coach/domain"
	"pmdrill/internal/modules/coach/dto"
	coachin "pmdrill/internal/modules/coach/port/in"
	"pmdrill/internal/modules/coach/service"
	apperrors "pmdrill/internal/platform/errors"
)

type Interactor struct {
	svc *service.CoachService
}

func NewInteractor(svc *service.CoachService) coachin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) RequestQuestion(ctx context.Context, input dto.QuestionInput) (dto.QuestionOutput, error) {
	q, err := i.svc.RequestQuestion(ctx, domain.QuestionRequest{
		Category:   strings.ToLower(strings.TrimSpace(input.Category)),
		Difficulty: strings.ToLower(strings.TrimSpace(input.Difficulty)),
		Topic:      strings.TrimSpace(input.Topic),
	})
	if err != nil {
		return dto.QuestionOutput{}, err
	}
	return dto.QuestionOutput{
		ID:               q.ID,
		Prompt:           q.Prompt,
		Category:         q.Category,
		Difficulty:       q.Difficulty,
		Context:          q.Context,
		Framework:        append([]string(nil), q.Framework...),
		EstimatedMinutes: q.EstimatedMinutes,
		Tags:             append([]string(nil), q.Tags...),
		FollowUps:        append([]string(nil), q.FollowUps...),
	}, nil
}

func (i *Interactor) AnalyzeResponse(ctx context.Context, input dto.AnalyzeInput) (dto.AnalysisOutput, error) {
	answer := strings.TrimSpace(input.Answer)
	if answer == "" {
		return dto.AnalysisOutput{}, fmt.Errorf("%w: answer must not be empty", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Prompt) == "" {
		return dto.AnalysisOutput{}, fmt.Errorf("%w: question prompt is required", apperrors.ErrInvalidInput)
	}
	analysis, cached, err := i.svc.AnalyzeResponse(ctx, domain.AnalysisRequest{
		QuestionID: input.QuestionID,
		Prompt:     input.Prompt,
		Category:   input.Category,
		Framework:  input.Framework,
		Answer:     answer,
	})
	if err != nil {
		return dto.AnalysisOutput{}, err
	}
	return dto.AnalysisOutput{
		Score:       analysis.Score,
		MaxScore:    domain.MaxScore,
		Strengths:   analysis.Strengths,
		Weaknesses:  analysis.Weaknesses,
		Suggestions: analysis.Suggestions,
		Cached:      cached,
	}, nil
}
