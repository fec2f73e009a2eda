package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogout "pmdrill/internal/modules/catalog/adapter/out"
	"pmdrill/internal/modules/catalog/domain"
)

func TestBuiltInCatalogIsValid(t *testing.T) {
	t.Parallel()
	questions, err := catalogout.NewYAMLQuestionSource("").Load(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(questions), 10)
	assert.Empty(t, domain.ValidateCatalog(questions))

	seen := map[domain.Category]bool{}
	for _, q := range questions {
		seen[q.Category] = true
	}
	assert.Len(t, seen, len(domain.Categories()), "every category should have at least one built-in question")
}

func TestUserCatalogOverridesAndAppends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`questions:
  - id: design-alarm-clock
    prompt: Replaced prompt
    category: design
    difficulty: expert
  - id: custom-1
    prompt: Custom question
    category: leadership
    difficulty: beginner
    estimated_minutes: 5
`), 0o644))

	questions, err := catalogout.NewYAMLQuestionSource(path).Load(context.Background())
	require.NoError(t, err)

	replaced, ok := domain.FindByID(questions, "design-alarm-clock")
	require.True(t, ok)
	assert.Equal(t, "Replaced prompt", replaced.Prompt)
	assert.Equal(t, domain.DifficultyExpert, replaced.Difficulty)

	last := questions[len(questions)-1]
	assert.Equal(t, "custom-1", last.ID)
	require.NotNil(t, last.EstimatedMinutes)
	assert.Equal(t, 5, *last.EstimatedMinutes)
}

func TestMissingUserCatalogFallsBackToBuiltIns(t *testing.T) {
	t.Parallel()
	builtIn, err := catalogout.NewYAMLQuestionSource("").Load(context.Background())
	require.NoError(t, err)
	questions, err := catalogout.NewYAMLQuestionSource(filepath.Join(t.TempDir(), "absent.yaml")).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, len(builtIn))
}

func TestReadFileRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions:\n  - id: x\n    promt: typo\n"), 0o644))
	_, err := catalogout.NewYAMLQuestionSource("").ReadFile(context.Background(), path)
	require.Error(t, err)
}
