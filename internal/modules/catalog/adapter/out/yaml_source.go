package out

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pmdrill/internal/modules/catalog/domain"
	catalogout "pmdrill/internal/modules/catalog/port/out"
)

//go:embed defaults.yaml
var defaultCatalog []byte

type catalogFile struct {
	Questions []domain.Question `yaml:"questions"`
}

// YAMLQuestionSource serves the built-in catalog merged with an optional
// user catalog. User questions replace built-ins with the same id and are
// otherwise appended.
type YAMLQuestionSource struct {
	userPath string
}

var (
	_ catalogout.QuestionSource     = (*YAMLQuestionSource)(nil)
	_ catalogout.QuestionFileReader = (*YAMLQuestionSource)(nil)
)

func NewYAMLQuestionSource(userPath string) *YAMLQuestionSource {
	return &YAMLQuestionSource{userPath: userPath}
}

func (s *YAMLQuestionSource) UserPath() string {
	return s.userPath
}

func (s *YAMLQuestionSource) Load(ctx context.Context) ([]domain.Question, error) {
	questions, err := decodeCatalog(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("decode built-in catalog: %w", err)
	}
	if s.userPath == "" {
		return questions, nil
	}
	user, err := s.ReadFile(ctx, s.userPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return questions, nil
		}
		return nil, err
	}
	return merge(questions, user), nil
}

func (s *YAMLQuestionSource) ReadFile(_ context.Context, path string) ([]domain.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	questions, err := decodeCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return questions, nil
}

func decodeCatalog(raw []byte) ([]domain.Question, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []domain.Question{}, nil
	}
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, err
	}
	return file.Questions, nil
}

func merge(base, overrides []domain.Question) []domain.Question {
	out := append([]domain.Question(nil), base...)
	index := make(map[string]int, len(out))
	for i, q := range out {
		index[q.ID] = i
	}
	for _, q := range overrides {
		if i, ok := index[q.ID]; ok {
			out[i] = q
			continue
		}
		index[q.ID] = len(out)
		out = append(out, q)
	}
	return out
}
