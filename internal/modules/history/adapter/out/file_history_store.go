package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	hclog "github.com/hashicorp/go-hclog"

	"pmdrill/internal/modules/history/domain"
	historyout "pmdrill/internal/modules/history/port/out"
	"pmdrill/internal/platform/atomicfile"
	"pmdrill/internal/platform/logging"
)

type historyDocument struct {
	SchemaVersion int            `json:"schemaVersion"`
	Sessions      []domain.Entry `json:"sessions"`
}

// FileHistoryStore keeps the history list in a single JSON document.
// Malformed content degrades to an empty history.
type FileHistoryStore struct {
	path   string
	logger hclog.Logger
}

func NewFileHistoryStore(path string, logger hclog.Logger) historyout.HistoryRepository {
	return &FileHistoryStore{path: path, logger: logging.OrNull(logger).Named("history_store")}
}

func (s *FileHistoryStore) Load(_ context.Context) ([]domain.Entry, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Entry{}, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	doc := historyDocument{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		s.logger.Warn("ignoring malformed history", "path", s.path, "error", err)
		return []domain.Entry{}, nil
	}
	entries := make([]domain.Entry, 0, len(doc.Sessions))
	for _, e := range doc.Sessions {
		if e.ID == "" {
			s.logger.Warn("skipping history entry without id", "path", s.path)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *FileHistoryStore) Save(_ context.Context, entries []domain.Entry) error {
	if entries == nil {
		entries = []domain.Entry{}
	}
	payload, err := json.MarshalIndent(historyDocument{SchemaVersion: domain.SchemaVersion, Sessions: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
