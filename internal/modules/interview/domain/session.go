package domain

import (
	"slices"
	"time"
)

const SchemaVersion = 1

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
)

// Question is the snapshot of a catalog entry taken when a session starts.
type Question struct {
	ID               string   `json:"id"`
	Prompt           string   `json:"prompt"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Context          string   `json:"context,omitempty"`
	Framework        []string `json:"framework,omitempty"`
	EstimatedMinutes *int     `json:"estimatedMinutes,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	FollowUps        []string `json:"followUps,omitempty"`
	RequiresContext  bool     `json:"requiresContext,omitempty"`
}

type Response struct {
	ID          string    `json:"id"`
	QuestionID  string    `json:"questionId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	DurationSec int       `json:"duration"`
}

// Session is the active interview aggregate. Mutators report whether they
// changed anything; an unmet precondition leaves the session untouched.
type Session struct {
	ID           string     `json:"id"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Questions    []Question `json:"questions"`
	CurrentIndex int        `json:"currentQuestionIndex"`
	Responses    []Response `json:"responses"`
	Status       Status     `json:"status"`

	// QuestionStartedAt is when the current question was navigated to.
	QuestionStartedAt *time.Time `json:"questionStartedAt,omitempty"`
}

type QuestionState string

const (
	QuestionAnswered QuestionState = "answered"
	QuestionCurrent  QuestionState = "current"
	QuestionPending  QuestionState = "pending"
)

// NewSession returns nil when questions is empty.
func NewSession(id string, questions []Question, now time.Time) *Session {
	if len(questions) == 0 {
		return nil
	}
	snapshot := make([]Question, len(questions))
	for i, q := range questions {
		snapshot[i] = q.clone()
	}
	return &Session{
		ID:        id,
		StartTime: now,
		Questions: snapshot,
		Responses: []Response{},
		Status:    StatusInProgress,
	}
}

func (s *Session) Pause() bool {
	if s == nil || s.Status != StatusInProgress {
		return false
	}
	s.Status = StatusPaused
	return true
}

func (s *Session) Resume() bool {
	if s == nil || s.Status != StatusPaused {
		return false
	}
	s.Status = StatusInProgress
	return true
}

// Complete is terminal and keeps the first EndTime.
func (s *Session) Complete(now time.Time) bool {
	if s == nil || s.Status == StatusCompleted {
		return false
	}
	end := now
	s.EndTime = &end
	s.Status = StatusCompleted
	return true
}

// AddResponse upserts by question id. Unknown question ids and completed
// sessions are ignored. Negative durations are stored as zero.
func (s *Session) AddResponse(responseID, questionID, content string, durationSec int, now time.Time) bool {
	if s == nil || s.Status == StatusCompleted || s.questionIndex(questionID) < 0 {
		return false
	}
	if durationSec < 0 {
		durationSec = 0
	}
	resp := Response{
		ID:          responseID,
		QuestionID:  questionID,
		Content:     content,
		Timestamp:   now,
		DurationSec: durationSec,
	}
	for i := range s.Responses {
		if s.Responses[i].QuestionID == questionID {
			s.Responses[i] = resp
			return true
		}
	}
	s.Responses = append(s.Responses, resp)
	return true
}

func (s *Session) Next() bool {
	if s == nil || s.CurrentIndex >= len(s.Questions)-1 {
		return false
	}
	s.CurrentIndex++
	return true
}

func (s *Session) Previous() bool {
	if s == nil || s.CurrentIndex <= 0 {
		return false
	}
	s.CurrentIndex--
	return true
}

func (s *Session) SetCurrent(index int) bool {
	if s == nil || index < 0 || index >= len(s.Questions) || index == s.CurrentIndex {
		return false
	}
	s.CurrentIndex = index
	return true
}

func (s *Session) CurrentQuestion() (Question, bool) {
	if s == nil || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

func (s *Session) ResponseFor(questionID string) (Response, bool) {
	if s == nil {
		return Response{}, false
	}
	for _, r := range s.Responses {
		if r.QuestionID == questionID {
			return r, true
		}
	}
	return Response{}, false
}

// CompletionPercent is responses over questions, 0 for an empty session.
func (s *Session) CompletionPercent() float64 {
	if s == nil || len(s.Questions) == 0 {
		return 0
	}
	return float64(len(s.Responses)) / float64(len(s.Questions)) * 100
}

func (s *Session) HasUnanswered() bool {
	if s == nil {
		return false
	}
	for _, q := range s.Questions {
		if _, ok := s.ResponseFor(q.ID); !ok {
			return true
		}
	}
	return false
}

// QuestionStates marks the current question as current even when it already
// has a response.
func (s *Session) QuestionStates() []QuestionState {
	if s == nil {
		return nil
	}
	states := make([]QuestionState, len(s.Questions))
	for i, q := range s.Questions {
		switch {
		case i == s.CurrentIndex:
			states[i] = QuestionCurrent
		case s.hasResponse(q.ID):
			states[i] = QuestionAnswered
		default:
			states[i] = QuestionPending
		}
	}
	return states
}

// Valid reports whether a restored session satisfies the aggregate invariants.
func (s *Session) Valid() bool {
	if s == nil || s.ID == "" || len(s.Questions) == 0 {
		return false
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return false
	}
	switch s.Status {
	case StatusInProgress, StatusPaused:
		return s.EndTime == nil
	case StatusCompleted:
		return s.EndTime != nil
	default:
		return false
	}
}

// Clone returns a deep copy sharing no slices or pointers with s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	if s.QuestionStartedAt != nil {
		at := *s.QuestionStartedAt
		out.QuestionStartedAt = &at
	}
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.clone()
	}
	out.Responses = slices.Clone(s.Responses)
	if out.Responses == nil {
		out.Responses = []Response{}
	}
	return &out
}

// MarkQuestionStarted records when the current question became current.
func (s *Session) MarkQuestionStarted(at time.Time) {
	s.QuestionStartedAt = &at
}

func (s *Session) hasResponse(questionID string) bool {
	_, ok := s.ResponseFor(questionID)
	return ok
}

func (s *Session) questionIndex(questionID string) int {
	for i, q := range s.Questions {
		if q.ID == questionID {
			return i
		}
	}
	return -1
}

func (q Question) clone() Question {
	out := q
	out.Framework = slices.Clone(q.Framework)
	out.Tags = slices.Clone(q.Tags)
	out.FollowUps = slices.Clone(q.FollowUps)
	if q.EstimatedMinutes != nil {
		v := *q.EstimatedMinutes
		out.EstimatedMinutes = &v
	}
	return out
}
