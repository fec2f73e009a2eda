package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	catalogdomain "pmdrill/internal/modules/catalog/domain"
	catalogdto "pmdrill/internal/modules/catalog/dto"
	catalogservice "pmdrill/internal/modules/catalog/service"
	catalogusecase "pmdrill/internal/modules/catalog/usecase"
	historyout "pmdrill/internal/modules/history/adapter/out"
	historyin "pmdrill/internal/modules/history/port/in"
	historyservice "pmdrill/internal/modules/history/service"
	historyusecase "pmdrill/internal/modules/history/usecase"
	interviewout "pmdrill/internal/modules/interview/adapter/out"
	"pmdrill/internal/modules/interview/dto"
	interviewin "pmdrill/internal/modules/interview/port/in"
	"pmdrill/internal/modules/interview/service"
	"pmdrill/internal/modules/interview/usecase"
	apperrors "pmdrill/internal/platform/errors"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type staticSource struct{ questions []catalogdomain.Question }

func (s staticSource) Load(context.Context) ([]catalogdomain.Question, error) {
	return s.questions, nil
}

// tenQuestions spreads ten questions over three categories; four are
// strategy questions.
func tenQuestions() []catalogdomain.Question {
	categories := []catalogdomain.Category{
		catalogdomain.CategoryDesign, catalogdomain.CategoryStrategy, catalogdomain.CategoryAnalytics,
		catalogdomain.CategoryStrategy, catalogdomain.CategoryDesign, catalogdomain.CategoryAnalytics,
		catalogdomain.CategoryStrategy, catalogdomain.CategoryDesign, catalogdomain.CategoryStrategy,
		catalogdomain.CategoryAnalytics,
	}
	out := make([]catalogdomain.Question, 0, len(categories))
	for i, c := range categories {
		out = append(out, catalogdomain.Question{
			ID:         fmt.Sprintf("q%02d", i+1),
			Prompt:     fmt.Sprintf("Question %d", i+1),
			Category:   c,
			Difficulty: catalogdomain.DifficultyIntermediate,
		})
	}
	return out
}

type harness struct {
	uc      interviewin.Usecase
	history historyin.Usecase
	clock   *fakeClock
}

func newHarness(t *testing.T, maxDuration time.Duration) harness {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	catalog := catalogusecase.NewInteractor(catalogservice.NewCatalogService(staticSource{questions: tenQuestions()}, nil), nil)
	history := historyusecase.NewInteractor(historyservice.NewHistoryService(historyout.NewMemoryHistoryStore(), nil, nil), nil)
	repo := interviewout.NewFileActiveSessionStore(filepath.Join(t.TempDir(), "active-session.json"), nil)
	svc := service.NewSessionService(clk, &seqID{}, repo, interviewout.NewHistoryArchiver(history), maxDuration, nil)
	return harness{uc: usecase.NewInteractor(svc, catalog, nil), history: history, clock: clk}
}

func TestEndToEndPracticeSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 45*time.Minute)
	ctx := context.Background()

	start, err := h.uc.Start(ctx, dto.StartInput{
		QuestionCount: 3,
		Randomize:     false,
		Filter:        catalogdto.FilterInput{Categories: []string{"strategy"}},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	got := []string{}
	for _, q := range start.Session.Questions {
		got = append(got, q.ID)
	}
	if fmt.Sprint(got) != "[q02 q04 q07]" {
		t.Fatalf("expected first three strategy questions in catalog order, got %v", got)
	}
	if start.Shortfall || start.Selected != 3 || start.Session.Status != "in-progress" || start.Session.CurrentIndex != 0 {
		t.Fatalf("unexpected start output %+v", start)
	}

	h.clock.now = h.clock.now.Add(90 * time.Second)
	if _, err := h.uc.Answer(ctx, dto.AnswerInput{Content: "  I would size the market first.  "}); err != nil {
		t.Fatalf("answer: %v", err)
	}
	for _, step := range []func(context.Context) (dto.StatusOutput, error){h.uc.Next, h.uc.Next, h.uc.Previous} {
		if _, err := step(ctx); err != nil {
			t.Fatalf("navigate: %v", err)
		}
	}
	status, err := h.uc.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Session.CurrentIndex != 1 {
		t.Fatalf("expected index 1, got %d", status.Session.CurrentIndex)
	}
	if fmt.Sprint(status.QuestionStates) != "[answered current pending]" {
		t.Fatalf("unexpected states %v", status.QuestionStates)
	}

	h.clock.now = h.clock.now.Add(10 * time.Minute)
	done, err := h.uc.Complete(ctx)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Session.Status != "completed" {
		t.Fatalf("expected completed, got %s", done.Session.Status)
	}

	entries, err := h.history.List(ctx)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != start.Session.ID || entries[0].Responses != 1 {
		t.Fatalf("expected archived session with one response, got %+v", entries)
	}
	record, err := h.history.Get(ctx, start.Session.ID)
	if err != nil {
		t.Fatalf("history get: %v", err)
	}
	if record.EndTime == nil || record.EndTime.Before(record.StartTime) {
		t.Fatalf("archived end time must be set and after start: %+v", record)
	}
	if record.Responses[0].Content != "I would size the market first." || record.Responses[0].DurationSec != 90 {
		t.Fatalf("unexpected archived response %+v", record.Responses[0])
	}
}

func TestStartReportsShortfallAndEmptySelection(t *testing.T) {
	t.Parallel()
	h := newHarness(t, time.Hour)
	ctx := context.Background()

	out, err := h.uc.Start(ctx, dto.StartInput{QuestionCount: 6, Randomize: true, Filter: catalogdto.FilterInput{Categories: []string{"analytics"}}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !out.Shortfall || out.Requested != 6 || out.Selected != 3 || len(out.Session.Questions) != 3 {
		t.Fatalf("expected shortfall 3/6, got %+v", out)
	}

	if _, err := h.uc.Start(ctx, dto.StartInput{QuestionCount: 3, Filter: catalogdto.FilterInput{Search: "nothing matches"}}); !errors.Is(err, apperrors.ErrEmptySelection) {
		t.Fatalf("expected empty selection, got %v", err)
	}
	if _, err := h.uc.Start(ctx, dto.StartInput{QuestionCount: 0}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid count, got %v", err)
	}
	status, err := h.uc.Status(ctx)
	if err != nil || status.Session.ID != out.Session.ID {
		t.Fatalf("failed starts must keep the running session: %+v %v", status, err)
	}
}

func TestStartWithProvidedQuestions(t *testing.T) {
	t.Parallel()
	h := newHarness(t, time.Hour)
	out, err := h.uc.Start(context.Background(), dto.StartInput{
		QuestionCount: 5,
		Questions:     []dto.QuestionView{{ID: "gen-1", Prompt: "Generated question", Category: "strategy", Difficulty: "advanced"}},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(out.Session.Questions) != 1 || out.Session.Questions[0].ID != "gen-1" || !out.Shortfall {
		t.Fatalf("unexpected start output %+v", out)
	}
}

func TestAnswerValidationAndUpsert(t *testing.T) {
	t.Parallel()
	h := newHarness(t, time.Hour)
	ctx := context.Background()
	if _, err := h.uc.Answer(ctx, dto.AnswerInput{Content: "x"}); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if _, err := h.uc.Start(ctx, dto.StartInput{QuestionCount: 2}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.uc.Answer(ctx, dto.AnswerInput{Content: "   "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank answer, got %v", err)
	}
	ten, five := 10, 5
	if _, err := h.uc.Answer(ctx, dto.AnswerInput{Content: "answer A", DurationSec: &ten}); err != nil {
		t.Fatalf("answer A: %v", err)
	}
	status, err := h.uc.Answer(ctx, dto.AnswerInput{QuestionID: "q01", Content: "answer B", DurationSec: &five})
	if err != nil {
		t.Fatalf("answer B: %v", err)
	}
	if len(status.Session.Responses) != 1 || status.CurrentResponse == nil || status.CurrentResponse.Content != "answer B" || status.CurrentResponse.DurationSec != 5 {
		t.Fatalf("expected single replaced response, got %+v", status.Session.Responses)
	}
	if status.CompletionPercent != 50 || !status.HasUnanswered {
		t.Fatalf("unexpected progress %+v", status)
	}
}

func TestPauseResumeAndClear(t *testing.T) {
	t.Parallel()
	h := newHarness(t, time.Hour)
	ctx := context.Background()
	if _, err := h.uc.Pause(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if _, err := h.uc.Start(ctx, dto.StartInput{QuestionCount: 3}); err != nil {
		t.Fatalf("start: %v", err)
	}
	s, _ := h.uc.Pause(ctx)
	if s.Session.Status != "paused" {
		t.Fatalf("expected paused, got %s", s.Session.Status)
	}
	s, _ = h.uc.Pause(ctx)
	if s.Session.Status != "paused" {
		t.Fatalf("second pause must keep paused")
	}
	s, _ = h.uc.Resume(ctx)
	if s.Session.Status != "in-progress" {
		t.Fatalf("expected in-progress, got %s", s.Session.Status)
	}
	s, _ = h.uc.Jump(ctx, 2)
	if s.Session.CurrentIndex != 2 {
		t.Fatalf("expected jump to 2")
	}
	s, _ = h.uc.Jump(ctx, 9)
	if s.Session.CurrentIndex != 2 {
		t.Fatalf("out of range jump must be a no-op")
	}
	if err := h.uc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := h.uc.Status(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no session after clear, got %v", err)
	}
	entries, _ := h.history.List(ctx)
	if len(entries) != 0 {
		t.Fatalf("cleared session must not be archived")
	}
}

func TestTickAutoCompletesAndArchives(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 20*time.Minute)
	ctx := context.Background()
	if _, err := h.uc.Start(ctx, dto.StartInput{QuestionCount: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.now = h.clock.now.Add(25 * time.Minute)
	out, err := h.uc.Tick(ctx)
	if err != nil || !out.AutoCompleted || out.Remaining != 0 {
		t.Fatalf("expected auto completion: %+v %v", out, err)
	}
	entries, _ := h.history.List(ctx)
	if len(entries) != 1 {
		t.Fatalf("auto-completed session must be archived")
	}
	if err := h.uc.Watch(ctx, time.Millisecond, nil); err != nil {
		t.Fatalf("watch on completed session should return immediately: %v", err)
	}
}

func TestAnswerAfterTimeLimitIsReported(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 20*time.Minute)
	ctx := context.Background()
	if _, err := h.uc.Start(ctx, dto.StartInput{QuestionCount: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.now = h.clock.now.Add(21 * time.Minute)
	if _, err := h.uc.Answer(ctx, dto.AnswerInput{Content: "too late"}); !errors.Is(err, apperrors.ErrTimeLimit) {
		t.Fatalf("expected time limit error, got %v", err)
	}
	status, err := h.uc.Status(ctx)
	if err != nil || status.Session.Status != "completed" || len(status.Session.Responses) != 0 {
		t.Fatalf("late answer must not be recorded: %+v %v", status.Session, err)
	}
	entries, _ := h.history.List(ctx)
	if len(entries) != 1 {
		t.Fatalf("auto-completed session must be archived, got %d", len(entries))
	}
}
