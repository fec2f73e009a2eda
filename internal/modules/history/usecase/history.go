package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pmdrill/internal/modules/history/dto"
	historyin "pmdrill/internal/modules/history/port/in"
	historyout "pmdrill/internal/modules/history/port/out"
	"pmdrill/internal/modules/history/service"
	apperrors "pmdrill/internal/platform/errors"
)

type Interactor struct {
	svc   *service.HistoryService
	sinks map[dto.ExportTarget]historyout.ExportSink
}

func NewInteractor(svc *service.HistoryService, sinks map[dto.ExportTarget]historyout.ExportSink) historyin.Usecase {
	return &Interactor{svc: svc, sinks: sinks}
}

func (i *Interactor) RecordCompletion(ctx context.Context, record dto.SessionRecord) error {
	return i.svc.Record(ctx, toEntry(record))
}

func (i *Interactor) List(ctx context.Context) ([]dto.EntryOutput, error) {
	entries, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryOutput(e))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.SessionRecord, error) {
	e, err := i.svc.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return dto.SessionRecord{}, err
	}
	return toRecord(e), nil
}

func (i *Interactor) Remove(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, fmt.Errorf("%w: history entry id is required", apperrors.ErrInvalidInput)
	}
	return i.svc.Remove(ctx, id)
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	target := input.Target
	if target == "" {
		target = dto.TargetFile
	}
	sink, ok := i.sinks[target]
	if !ok || sink == nil {
		return dto.ExportOutput{}, fmt.Errorf("%w: export target %q is not available", apperrors.ErrInvalidInput, target)
	}
	filename, payload, err := i.svc.Export(ctx, strings.TrimSpace(input.ID), input.Format)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	location, err := sink.Save(ctx, filename, payload)
	if err != nil {
		return dto.ExportOutput{}, fmt.Errorf("deliver export: %w", err)
	}
	return dto.ExportOutput{ID: input.ID, Filename: filename, Location: location, Bytes: len(payload)}, nil
}

func (i *Interactor) Preview(ctx context.Context, id string) (string, error) {
	return i.svc.Preview(ctx, strings.TrimSpace(id))
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	st, projection, err := i.svc.Stats(ctx)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	out := dto.StatsOutput{
		Sessions:       st.Sessions,
		Questions:      st.Questions,
		Responses:      st.Responses,
		TotalDuration:  st.TotalDuration,
		LastSessionAt:  st.LastSessionAt,
		ProjectionPath: projection,
	}
	if st.Responses > 0 {
		out.AverageAnswer = st.AnswerTime / time.Duration(st.Responses)
	}
	for _, c := range st.ByCategory {
		out.ByCategory = append(out.ByCategory, dto.CategoryCount{Category: c.Category, Questions: c.Questions, Answered: c.Answered})
	}
	return out, nil
}
