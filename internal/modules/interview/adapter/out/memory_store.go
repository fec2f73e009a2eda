package out

import (
	"context"
	"sync"

	"pmdrill/internal/modules/interview/domain"
	interviewout "pmdrill/internal/modules/interview/port/out"
	apperrors "pmdrill/internal/platform/errors"
)

// MemoryActiveSessionStore keeps the active session in process memory.
type MemoryActiveSessionStore struct {
	mu      sync.Mutex
	session *domain.Session
	saves   int
}

func NewMemoryActiveSessionStore() *MemoryActiveSessionStore {
	return &MemoryActiveSessionStore{}
}

var _ interviewout.ActiveSessionRepository = (*MemoryActiveSessionStore)(nil)

func (s *MemoryActiveSessionStore) Load(context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperrors.ErrNoActiveSession
	}
	return s.session.Clone(), nil
}

func (s *MemoryActiveSessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session.Clone()
	s.saves++
	return nil
}

func (s *MemoryActiveSessionStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func (s *MemoryActiveSessionStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
