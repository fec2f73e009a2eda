package usecase

import (
	catalogdto "pmdrill/internal/modules/catalog/dto"
	"pmdrill/internal/modules/interview/domain"
	"pmdrill/internal/modules/interview/dto"
)

func fromCatalog(q catalogdto.QuestionOutput) domain.Question {
	return domain.Question{
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
	}
}

func fromView(q dto.QuestionView) domain.Question {
	return domain.Question{
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
	}
}

func toView(q domain.Question) dto.QuestionView {
	return dto.QuestionView{
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
	}
}

func toResponseView(r domain.Response) dto.ResponseView {
	return dto.ResponseView{
		ID:          r.ID,
		QuestionID:  r.QuestionID,
		Content:     r.Content,
		Timestamp:   r.Timestamp,
		DurationSec: r.DurationSec,
	}
}

func toSessionOutput(s *domain.Session) dto.SessionOutput {
	out := dto.SessionOutput{
		ID:           s.ID,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		Status:       string(s.Status),
		CurrentIndex: s.CurrentIndex,
		Questions:    make([]dto.QuestionView, 0, len(s.Questions)),
		Responses:    make([]dto.ResponseView, 0, len(s.Responses)),
	}
	for _, q := range s.Questions {
		out.Questions = append(out.Questions, toView(q))
	}
	for _, r := range s.Responses {
		out.Responses = append(out.Responses, toResponseView(r))
	}
	return out
}

func toStatusOutput(s *domain.Session, timer dto.TimerOutput) dto.StatusOutput {
	out := dto.StatusOutput{
		Session:           toSessionOutput(s),
		CompletionPercent: s.CompletionPercent(),
		HasUnanswered:     s.HasUnanswered(),
		Timer:             timer,
	}
	if current, ok := s.CurrentQuestion(); ok {
		out.Current = toView(current)
		if r, ok := s.ResponseFor(current.ID); ok {
			view := toResponseView(r)
			out.CurrentResponse = &view
		}
	}
	for _, st := range s.QuestionStates() {
		out.QuestionStates = append(out.QuestionStates, string(st))
	}
	return out
}

func toTimerOutput(r domain.Reading, completed bool) dto.TimerOutput {
	return dto.TimerOutput{
		Elapsed:         r.Elapsed,
		QuestionElapsed: r.QuestionElapsed,
		Remaining:       r.Remaining,
		Expired:         r.Expired,
		AutoCompleted:   completed,
	}
}
