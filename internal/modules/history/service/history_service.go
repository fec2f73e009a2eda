package service

import (
	"context"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"pmdrill/internal/modules/history/domain"
	"pmdrill/internal/modules/history/dto"
	historyout "pmdrill/internal/modules/history/port/out"
	apperrors "pmdrill/internal/platform/errors"
	"pmdrill/internal/platform/logging"
)

// HistoryService serializes read-modify-write cycles on the history list.
// The projector is optional and its failures never fail a write.
type HistoryService struct {
	repo      historyout.HistoryRepository
	projector historyout.Projector
	logger    hclog.Logger

	mu sync.Mutex
}

func NewHistoryService(repo historyout.HistoryRepository, projector historyout.Projector, logger hclog.Logger) *HistoryService {
	return &HistoryService{repo: repo, projector: projector, logger: logging.OrNull(logger).Named("history")}
}

func (s *HistoryService) Record(ctx context.Context, entry domain.Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: history entry id is required", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	entries = domain.Upsert(entries, entry)
	if err := s.repo.Save(ctx, entries); err != nil {
		return err
	}
	s.logger.Info("session archived", "session_id", entry.ID, "responses", len(entry.Responses), "entries", len(entries))
	s.project(ctx, entries)
	return nil
}

func (s *HistoryService) List(ctx context.Context) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SortedByStart(entries), nil
}

func (s *HistoryService) Get(ctx context.Context, id string) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Entry{}, err
	}
	e, ok := domain.Find(entries, id)
	if !ok {
		return domain.Entry{}, fmt.Errorf("history entry %q: %w", id, apperrors.ErrNotFound)
	}
	return e, nil
}

// Remove is a no-op for unknown ids.
func (s *HistoryService) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.repo.Load(ctx)
	if err != nil {
		return false, err
	}
	entries, removed := domain.Remove(entries, id)
	if !removed {
		return false, nil
	}
	if err := s.repo.Save(ctx, entries); err != nil {
		return false, err
	}
	s.logger.Info("history entry removed", "session_id", id)
	s.project(ctx, entries)
	return true, nil
}

// Export builds the snapshot for id and encodes it. No I/O beyond loading.
func (s *HistoryService) Export(ctx context.Context, id string, format dto.ExportFormat) (string, []byte, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	exp := domain.BuildExport(e)
	switch format {
	case dto.ExportJSON, "":
		payload, err := encodeJSON(exp)
		return domain.ExportFilename(e, "json"), payload, err
	case dto.ExportMarkdown:
		payload, err := encodeMarkdown(exp)
		return domain.ExportFilename(e, "md"), payload, err
	default:
		return "", nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrInvalidInput, format)
	}
}

// Preview renders the markdown body of an entry without frontmatter.
func (s *HistoryService) Preview(ctx context.Context, id string) (string, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return markdownBody(domain.BuildExport(e)), nil
}

func (s *HistoryService) Stats(ctx context.Context) (domain.Stats, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Stats{}, "", err
	}
	st := domain.Summarize(entries)
	if s.projector == nil {
		return st, "", nil
	}
	if err := s.projector.Sync(ctx, entries); err != nil {
		s.logger.Warn("history projection unavailable", "error", err)
		return st, "", nil
	}
	counts, err := s.projector.CategoryCounts(ctx)
	if err != nil {
		s.logger.Warn("query history projection", "error", err)
		return st, "", nil
	}
	st.ByCategory = counts
	return st, s.projector.Path(), nil
}

func (s *HistoryService) project(ctx context.Context, entries []domain.Entry) {
	if s.projector == nil {
		return
	}
	if err := s.projector.Sync(ctx, entries); err != nil {
		s.logger.Warn("sync history projection", "error", err)
	}
}
