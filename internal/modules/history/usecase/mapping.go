package usecase

import (
	"pmdrill/internal/modules/history/domain"
	"pmdrill/internal/modules/history/dto"
)

func toEntry(r dto.SessionRecord) domain.Entry {
	e := domain.Entry{
		ID:           r.ID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		CurrentIndex: r.CurrentIndex,
		Status:       r.Status,
		Questions:    make([]domain.Question, 0, len(r.Questions)),
		Responses:    make([]domain.Response, 0, len(r.Responses)),
	}
	for _, q := range r.Questions {
		e.Questions = append(e.Questions, domain.Question{
			ID:               q.ID,
			Prompt:           q.Prompt,
			Category:         q.Category,
			Difficulty:       q.Difficulty,
			Context:          q.Context,
			Framework:        q.Framework,
			EstimatedMinutes: q.EstimatedMinutes,
			Tags:             q.Tags,
			FollowUps:        q.FollowUps,
			RequiresContext:  q.RequiresContext,
		})
	}
	for _, resp := range r.Responses {
		e.Responses = append(e.Responses, domain.Response{
			ID:          resp.ID,
			QuestionID:  resp.QuestionID,
			Content:     resp.Content,
			Timestamp:   resp.Timestamp,
			DurationSec: resp.DurationSec,
		})
	}
	return e.Clone()
}

func toRecord(e domain.Entry) dto.SessionRecord {
	r := dto.SessionRecord{
		ID:           e.ID,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Status:       e.Status,
		CurrentIndex: e.CurrentIndex,
		Questions:    make([]dto.QuestionRecord, 0, len(e.Questions)),
		Responses:    make([]dto.ResponseRecord, 0, len(e.Responses)),
	}
	for _, q := range e.Questions {
		r.Questions = append(r.Questions, dto.QuestionRecord{
			ID:               q.ID,
			Prompt:           q.Prompt,
			Category:         q.Category,
			Difficulty:       q.Difficulty,
			Context:          q.Context,
			Framework:        q.Framework,
			EstimatedMinutes: q.EstimatedMinutes,
			Tags:             q.Tags,
			FollowUps:        q.FollowUps,
			RequiresContext:  q.RequiresContext,
		})
	}
	for _, resp := range e.Responses {
		r.Responses = append(r.Responses, dto.ResponseRecord{
			ID:          resp.ID,
			QuestionID:  resp.QuestionID,
			Content:     resp.Content,
			Timestamp:   resp.Timestamp,
			DurationSec: resp.DurationSec,
		})
	}
	return r
}

func toEntryOutput(e domain.Entry) dto.EntryOutput {
	out := dto.EntryOutput{
		ID:        e.ID,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Duration:  e.Duration(),
		Questions: len(e.Questions),
		Responses: len(e.Responses),
	}
	seen := map[string]bool{}
	for _, q := range e.Questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			out.Categories = append(out.Categories, q.Category)
		}
	}
	return out
}
