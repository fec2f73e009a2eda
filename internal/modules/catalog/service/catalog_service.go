package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"pmdrill/internal/modules/catalog/domain"
	catalogout "pmdrill/internal/modules/catalog/port/out"
	apperrors "pmdrill/internal/platform/errors"
	"pmdrill/internal/platform/logging"
)

// CatalogService caches the loaded catalog. Reload swaps the cache
// atomically; slices handed out earlier are never modified.
type CatalogService struct {
	source catalogout.QuestionSource
	logger hclog.Logger

	mu        sync.RWMutex
	questions []domain.Question
	loaded    bool
}

func NewCatalogService(source catalogout.QuestionSource, logger hclog.Logger) *CatalogService {
	return &CatalogService{source: source, logger: logging.OrNull(logger).Named("catalog")}
}

func (s *CatalogService) Questions(ctx context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	if s.loaded {
		questions := s.questions
		s.mu.RUnlock()
		return questions, nil
	}
	s.mu.RUnlock()
	return s.Reload(ctx)
}

func (s *CatalogService) Reload(ctx context.Context) ([]domain.Question, error) {
	questions, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if problems := domain.ValidateCatalog(questions); len(problems) > 0 {
		return nil, fmt.Errorf("%w: catalog: %w", apperrors.ErrInvalidInput, errors.Join(problems...))
	}

	s.mu.Lock()
	s.questions = questions
	s.loaded = true
	s.mu.Unlock()
	s.logger.Debug("catalog loaded", "questions", len(questions))
	return questions, nil
}

func (s *CatalogService) Filter(ctx context.Context, filter domain.Filter) ([]domain.Question, error) {
	questions, err := s.Questions(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterQuestions(questions, filter), nil
}

func (s *CatalogService) Find(ctx context.Context, id string) (domain.Question, error) {
	questions, err := s.Questions(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	q, ok := domain.FindByID(questions, id)
	if !ok {
		return domain.Question{}, fmt.Errorf("question %q: %w", id, apperrors.ErrNotFound)
	}
	return q, nil
}
