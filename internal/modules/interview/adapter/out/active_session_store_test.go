package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	interviewout "pmdrill/internal/modules/interview/adapter/out"
	"pmdrill/internal/modules/interview/domain"
	apperrors "pmdrill/internal/platform/errors"
)

func sessionGen() *rapid.Generator[*domain.Session] {
	return rapid.Custom(func(t *rapid.T) *domain.Session {
		start := time.Unix(rapid.Int64Range(1_600_000_000, 1_900_000_000).Draw(t, "start"), rapid.Int64Range(0, 999_999_999).Draw(t, "nanos")).UTC()
		n := rapid.IntRange(1, 5).Draw(t, "questions")
		qs := make([]domain.Question, 0, n)
		for i := range n {
			q := domain.Question{
				ID:         "q" + string(rune('a'+i)),
				Prompt:     rapid.String().Draw(t, "prompt"),
				Category:   "design",
				Difficulty: "expert",
				Tags:       rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 0, 3).Draw(t, "tags"),
			}
			if rapid.Bool().Draw(t, "estimate") {
				m := rapid.IntRange(1, 60).Draw(t, "minutes")
				q.EstimatedMinutes = &m
			}
			qs = append(qs, q)
		}
		s := domain.NewSession(rapid.StringMatching(`[a-f0-9]{8}-[a-f0-9]{4}`).Draw(t, "id"), qs, start)
		for i, q := range qs {
			if rapid.Bool().Draw(t, "answer") {
				at := start.Add(time.Duration(rapid.Int64Range(0, 3_600_000_000_000).Draw(t, "offset")))
				s.AddResponse("r"+string(rune('a'+i)), q.ID, rapid.String().Draw(t, "content"), rapid.IntRange(0, 900).Draw(t, "duration"), at)
			}
		}
		s.SetCurrent(rapid.IntRange(0, n-1).Draw(t, "index"))
		switch rapid.IntRange(0, 2).Draw(t, "status") {
		case 1:
			s.Pause()
		case 2:
			s.Complete(start.Add(time.Duration(rapid.Int64Range(0, 7_200_000_000_000).Draw(t, "end"))))
		}
		return s
	})
}

func assertSameSession(t require.TestingT, want, got *domain.Session) {
	require.Equal(t, want.ID, got.ID)
	require.True(t, want.StartTime.Equal(got.StartTime), "start time %v vs %v", want.StartTime, got.StartTime)
	if want.EndTime == nil {
		require.Nil(t, got.EndTime)
	} else {
		require.NotNil(t, got.EndTime)
		require.True(t, want.EndTime.Equal(*got.EndTime), "end time %v vs %v", want.EndTime, got.EndTime)
	}
	require.Equal(t, want.Status, got.Status)
	require.Equal(t, want.CurrentIndex, got.CurrentIndex)
	require.Equal(t, len(want.Questions), len(got.Questions))
	for i := range want.Questions {
		require.Equal(t, want.Questions[i].Prompt, got.Questions[i].Prompt)
		require.Equal(t, want.Questions[i].EstimatedMinutes, got.Questions[i].EstimatedMinutes)
	}
	require.Equal(t, len(want.Responses), len(got.Responses))
	for i := range want.Responses {
		w, g := want.Responses[i], got.Responses[i]
		require.Equal(t, w.ID, g.ID)
		require.Equal(t, w.QuestionID, g.QuestionID)
		require.Equal(t, w.Content, g.Content)
		require.Equal(t, w.DurationSec, g.DurationSec)
		require.True(t, w.Timestamp.Equal(g.Timestamp), "timestamp %v vs %v", w.Timestamp, g.Timestamp)
	}
}

func TestFileActiveSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "active-session.json")
	store := interviewout.NewFileActiveSessionStore(path, nil)
	rapid.Check(t, func(rt *rapid.T) {
		want := sessionGen().Draw(rt, "session")
		if err := store.Save(context.Background(), want); err != nil {
			rt.Fatalf("save: %v", err)
		}
		got, err := store.Load(context.Background())
		if err != nil {
			rt.Fatalf("load: %v", err)
		}
		assertSameSession(rt, want, got)
	})
}

func TestFileActiveSessionStoreMissingAndClear(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "active-session.json")
	store := interviewout.NewFileActiveSessionStore(path, nil)
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)
	require.NoError(t, store.Clear(ctx))

	s := domain.NewSession("s-1", []domain.Question{{ID: "q1", Prompt: "p"}}, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func TestFileActiveSessionStoreTreatsBadContentAsNoSession(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"not json":         "{oops",
		"empty object":     "{}",
		"no questions":     `{"session":{"id":"s-1","startTime":"2026-03-02T09:00:00Z","questions":[],"status":"in-progress"}}`,
		"bad index":        `{"session":{"id":"s-1","startTime":"2026-03-02T09:00:00Z","questions":[{"id":"q"}],"currentQuestionIndex":4,"status":"in-progress"}}`,
		"completed no end": `{"session":{"id":"s-1","startTime":"2026-03-02T09:00:00Z","questions":[{"id":"q"}],"status":"completed"}}`,
		"string time":      `{"session":{"id":"s-1","startTime":"yesterday","questions":[{"id":"q"}],"status":"in-progress"}}`,
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "active-session.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), name)
		_, err := interviewout.NewFileActiveSessionStore(path, nil).Load(context.Background())
		assert.True(t, errors.Is(err, apperrors.ErrNoActiveSession), "%s: got %v", name, err)
	}
}
