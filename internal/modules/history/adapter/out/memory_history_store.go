package out

import (
	"context"
	"sync"

	"pmdrill/internal/modules/history/domain"
	historyout "pmdrill/internal/modules/history/port/out"
)

type MemoryHistoryStore struct {
	mu      sync.Mutex
	entries []domain.Entry
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

var _ historyout.HistoryRepository = (*MemoryHistoryStore)(nil)

func (s *MemoryHistoryStore) Load(context.Context) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (s *MemoryHistoryStore) Save(_ context.Context, entries []domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		s.entries = append(s.entries, e.Clone())
	}
	return nil
}
