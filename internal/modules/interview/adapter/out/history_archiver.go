package out

import (
	"context"

	historydto "pmdrill/internal/modules/history/dto"
	historyin "pmdrill/internal/modules/history/port/in"
	"pmdrill/internal/modules/interview/domain"
	interviewout "pmdrill/internal/modules/interview/port/out"
)

// HistoryArchiver hands completed sessions to the history module.
type HistoryArchiver struct {
	history historyin.Usecase
}

func NewHistoryArchiver(history historyin.Usecase) interviewout.Archiver {
	return &HistoryArchiver{history: history}
}

func (a *HistoryArchiver) Archive(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}
	record := historydto.SessionRecord{
		ID:           session.ID,
		StartTime:    session.StartTime,
		EndTime:      session.EndTime,
		Status:       string(session.Status),
		CurrentIndex: session.CurrentIndex,
		Questions:    make([]historydto.QuestionRecord, 0, len(session.Questions)),
		Responses:    make([]historydto.ResponseRecord, 0, len(session.Responses)),
	}
	for _, q := range session.Questions {
		record.Questions = append(record.Questions, historydto.QuestionRecord{
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
	for _, r := range session.Responses {
		record.Responses = append(record.Responses, historydto.ResponseRecord{
			ID:          r.ID,
			QuestionID:  r.QuestionID,
			Content:     r.Content,
			Timestamp:   r.Timestamp,
			DurationSec: r.DurationSec,
		})
	}
	return a.history.RecordCompletion(ctx, record)
}
