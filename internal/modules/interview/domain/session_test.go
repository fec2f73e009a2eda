package domain_test

import (
	"testing"
	"time"

	"pmdrill/internal/modules/interview/domain"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func questions(ids ...string) []domain.Question {
	out := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Question{ID: id, Prompt: "prompt " + id, Category: "design", Difficulty: "beginner"})
	}
	return out
}

func TestNewSessionInitialState(t *testing.T) {
	t.Parallel()
	s := domain.NewSession("s-1", questions("q1", "q2", "q3"), t0)
	if s == nil {
		t.Fatalf("expected session")
	}
	if s.Status != domain.StatusInProgress || s.CurrentIndex != 0 || len(s.Responses) != 0 {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	if !s.StartTime.Equal(t0) || s.EndTime != nil {
		t.Fatalf("expected start set and end unset, got %v %v", s.StartTime, s.EndTime)
	}
	if !s.Valid() {
		t.Fatalf("new session should be valid")
	}
	if domain.NewSession("s-2", nil, t0) != nil {
		t.Fatalf("empty question list must not create a session")
	}
}

func TestNewSessionSnapshotsQuestions(t *testing.T) {
	t.Parallel()
	qs := questions("q1")
	qs[0].Tags = []string{"growth"}
	s := domain.NewSession("s-1", qs, t0)
	qs[0].Prompt = "changed"
	qs[0].Tags[0] = "changed"
	if s.Questions[0].Prompt != "prompt q1" || s.Questions[0].Tags[0] != "growth" {
		t.Fatalf("session must not share question storage with caller: %+v", s.Questions[0])
	}
}

func TestNavigationIsClamped(t *testing.T) {
	t.Parallel()
	s := domain.NewSession("s-1", questions("q1", "q2", "q3"), t0)
	if s.Previous() || s.CurrentIndex != 0 {
		t.Fatalf("previous at first index must be a no-op")
	}
	if !s.Next() || !s.Next() {
		t.Fatalf("expected two successful moves")
	}
	if s.Next() || s.CurrentIndex != 2 {
		t.Fatalf("next at last index must be a no-op, index=%d", s.CurrentIndex)
	}
	if s.SetCurrent(3) || s.SetCurrent(-1) || s.CurrentIndex != 2 {
		t.Fatalf("out of range jump must be a no-op")
	}
	if !s.SetCurrent(0) || s.CurrentIndex != 0 {
		t.Fatalf("jump to 0 failed")
	}
}

func TestAddResponseUpsertsByQuestion(t *testing.T) {
	t.Parallel()
	s := domain.NewSession("s-1", questions("q1", "q2"), t0)
	if !s.AddResponse("r-1", "q1", "answer A", 10, t0.Add(time.Minute)) {
		t.Fatalf("first response should be recorded")
	}
	if !s.AddResponse("r-2", "q1", "answer B", 5, t0.Add(2*time.Minute)) {
		t.Fatalf("replacement should be recorded")
	}
	if len(s.Responses) != 1 {
		t.Fatalf("expected single response for q1, got %d", len(s.Responses))
	}
	got := s.Responses[0]
	if got.Content != "answer B" || got.ID != "r-2" || got.DurationSec != 5 || !got.Timestamp.Equal(t0.Add(2*time.Minute)) {
		t.Fatalf("unexpected response after replacement: %+v", got)
	}
	if s.AddResponse("r-3", "unknown", "x", 1, t0) {
		t.Fatalf("response to unknown question must be ignored")
	}
	s.AddResponse("r-4", "q2", "negative", -7, t0)
	if r, _ := s.ResponseFor("q2"); r.DurationSec != 0 {
		t.Fatalf("negative duration must clamp to 0, got %d", r.DurationSec)
	}
}

func TestPauseResumeTransitions(t *testing.T) {
	t.Parallel()
	s := domain.NewSession("s-1", questions("q1"), t0)
	if s.Resume() {
		t.Fatalf("resume while in progress must be a no-op")
	}
	if !s.Pause() || s.Status != domain.StatusPaused {
		t.Fatalf("pause failed")
	}
	if s.Pause() || s.Status != domain.StatusPaused {
		t.Fatalf("second pause must be a no-op")
	}
	if !s.Resume() || s.Status != domain.StatusInProgress {
		t.Fatalf("resume failed")
	}
	if s.Resume() {
		t.Fatalf("second resume must be a no-op")
	}
}

func TestCompleteIsIdempotentAndFreezesResponses(t *testing.T) {
	t.Parallel()
	s := domain.NewSession("s-1", questions("q1", "q2"), t0)
	s.Pause()
	end := t0.Add(10 * time.Minute)
	if !s.Complete(end) {
		t.Fatalf("complete from paused should succeed")
	}
	if s.Complete(end.Add(time.Hour)) {
		t.Fatalf("second complete must be a no-op")
	}
	if s.EndTime == nil || !s.EndTime.Equal(end) {
		t.Fatalf("end time must keep first value, got %v", s.EndTime)
	}
	if s.Pause() || s.Resume() {
		t.Fatalf("completed is terminal")
	}
	if s.AddResponse("r-1", "q1", "late", 1, end) || len(s.Responses) != 0 {
		t.Fatalf("responses must be frozen after completion")
	}
	if !s.Valid() {
		t.Fatalf("completed session with end time should be valid")
	}
}

func TestNilSessionOperationsAreNoOps(t *testing.T) {
	t.Parallel()
	var s *domain.Session
	if s.Pause() || s.Resume() || s.Complete(t0) || s.Next() || s.Previous() || s.SetCurrent(0) {
		t.Fatalf("nil session mutators must report no change")
	}
	if s.AddResponse("r", "q", "c", 1, t0) {
		t.Fatalf("nil session must ignore responses")
	}
	if _, ok := s.CurrentQuestion(); ok {
		t.Fatalf("nil session has no current question")
	}
	if s.CompletionPercent() != 0 || s.HasUnanswered() || s.QuestionStates() != nil || s.Clone() != nil {
		t.Fatalf("nil session queries must be zero")
	}
}

func TestQueries(t *testing.T) {
	t.Parallel()
	s := domain.NewSession("s-1", questions("q1", "q2", "q3", "q4"), t0)
	s.AddResponse("r-1", "q1", "a", 1, t0)
	s.AddResponse("r-2", "q3", "b", 1, t0)
	s.SetCurrent(1)

	if got := s.CompletionPercent(); got != 50 {
		t.Fatalf("expected 50%%, got %v", got)
	}
	if !s.HasUnanswered() {
		t.Fatalf("expected unanswered questions")
	}
	cur, ok := s.CurrentQuestion()
	if !ok || cur.ID != "q2" {
		t.Fatalf("expected current q2, got %+v", cur)
	}
	want := []domain.QuestionState{domain.QuestionAnswered, domain.QuestionCurrent, domain.QuestionAnswered, domain.QuestionPending}
	got := s.QuestionStates()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("state %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	s.AddResponse("r-3", "q2", "c", 1, t0)
	s.AddResponse("r-4", "q4", "d", 1, t0)
	if s.HasUnanswered() || s.CompletionPercent() != 100 {
		t.Fatalf("all answered expected")
	}

	empty := &domain.Session{}
	if empty.CompletionPercent() != 0 {
		t.Fatalf("zero questions must report 0%%")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	s := domain.NewSession("s-1", questions("q1"), t0)
	s.AddResponse("r-1", "q1", "a", 1, t0)
	s.Complete(t0.Add(time.Minute))

	c := s.Clone()
	c.Responses[0].Content = "mutated"
	*c.EndTime = t0.Add(time.Hour)
	c.Questions[0].Prompt = "mutated"

	if s.Responses[0].Content != "a" || !s.EndTime.Equal(t0.Add(time.Minute)) || s.Questions[0].Prompt != "prompt q1" {
		t.Fatalf("clone shares state with original: %+v", s)
	}
}

func TestValidRejectsBrokenInvariants(t *testing.T) {
	t.Parallel()
	base := domain.NewSession("s-1", questions("q1", "q2"), t0)
	cases := map[string]func(s *domain.Session){
		"missing id":         func(s *domain.Session) { s.ID = "" },
		"no questions":       func(s *domain.Session) { s.Questions = nil },
		"index out of range": func(s *domain.Session) { s.CurrentIndex = 5 },
		"unknown status":     func(s *domain.Session) { s.Status = "archived" },
		"completed no end":   func(s *domain.Session) { s.Status = domain.StatusCompleted },
		"end while active":   func(s *domain.Session) { end := t0; s.EndTime = &end },
	}
	for name, mutate := range cases {
		s := base.Clone()
		mutate(s)
		if s.Valid() {
			t.Fatalf("%s: expected invalid", name)
		}
	}
}
