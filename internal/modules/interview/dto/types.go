package dto

import (
	"time"

	catalogdto "pmdrill/internal/modules/catalog/dto"
)

type StartInput struct {
	QuestionCount int
	Randomize     bool
	Filter        catalogdto.FilterInput
	// Questions, when set, are used as candidates instead of the catalog.
	Questions []QuestionView
}

type StartOutput struct {
	Session   SessionOutput
	Requested int
	Selected  int
	Shortfall bool
}

type AnswerInput struct {
	// QuestionID defaults to the current question.
	QuestionID string
	Content    string
	// DurationSec defaults to the time spent on the current question.
	DurationSec *int
}

type QuestionView struct {
	ID               string
	Prompt           string
	Category         string
	Difficulty       string
	Context          string
	Framework        []string
	EstimatedMinutes *int
	Tags             []string
	FollowUps        []string
	RequiresContext  bool
}

type ResponseView struct {
	ID          string
	QuestionID  string
	Content     string
	Timestamp   time.Time
	DurationSec int
}

type SessionOutput struct {
	ID           string
	StartTime    time.Time
	EndTime      *time.Time
	Status       string
	CurrentIndex int
	Questions    []QuestionView
	Responses    []ResponseView
}

type TimerOutput struct {
	Elapsed         time.Duration
	QuestionElapsed time.Duration
	Remaining       time.Duration
	Expired         bool
	AutoCompleted   bool
}

type StatusOutput struct {
	Session           SessionOutput
	Current           QuestionView
	CurrentResponse   *ResponseView
	CompletionPercent float64
	HasUnanswered     bool
	QuestionStates    []string
	Timer             TimerOutput
}
