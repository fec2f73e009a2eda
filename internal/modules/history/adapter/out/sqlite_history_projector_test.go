package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	historyout "pmdrill/internal/modules/history/adapter/out"
	"pmdrill/internal/modules/history/domain"
)

func sampleEntry(id string, answered ...string) domain.Entry {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(15 * time.Minute)
	e := domain.Entry{ID: id, StartTime: start, EndTime: &end, Status: "completed", Questions: []domain.Question{
		{ID: "q1", Prompt: "Design an alarm clock", Category: "design", Difficulty: "beginner"},
		{ID: "q2", Prompt: "Estimate chargers", Category: "estimation", Difficulty: "advanced"},
		{ID: "q3", Prompt: "Redesign checkout", Category: "design", Difficulty: "intermediate"},
	}}
	for _, qid := range answered {
		e.Responses = append(e.Responses, domain.Response{ID: "r-" + qid, QuestionID: qid, Content: "answer for " + qid, Timestamp: start.Add(time.Minute), DurationSec: 90})
	}
	return e
}

func TestSQLiteProjectorCategoryCounts(t *testing.T) {
	t.Parallel()
	projector, err := historyout.NewSQLiteHistoryProjector(filepath.Join(t.TempDir(), "index", "pmdrill.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = projector.Close() })

	ctx := context.Background()
	require.NoError(t, projector.Sync(ctx, []domain.Entry{sampleEntry("a", "q1"), sampleEntry("b", "q1", "q3")}))
	counts, err := projector.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryCount{
		{Category: "design", Questions: 4, Answered: 3},
		{Category: "estimation", Questions: 2, Answered: 0},
	}, counts)

	require.NoError(t, projector.Sync(ctx, []domain.Entry{sampleEntry("b", "q2")}))
	counts, err = projector.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryCount{
		{Category: "design", Questions: 2, Answered: 0},
		{Category: "estimation", Questions: 1, Answered: 1},
	}, counts)
}
