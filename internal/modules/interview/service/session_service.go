package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"pmdrill/internal/modules/interview/domain"
	interviewout "pmdrill/internal/modules/interview/port/out"
	"pmdrill/internal/platform/clock"
	apperrors "pmdrill/internal/platform/errors"
	"pmdrill/internal/platform/id"
	"pmdrill/internal/platform/logging"
)

// SessionService owns the active session. All operations are serialized;
// mutators are applied to a copy and only committed once persisted. Every
// returned session is a deep copy, nil when there is no active session.
type SessionService struct {
	clock    clock.Clock
	idGen    id.Generator
	repo     interviewout.ActiveSessionRepository
	archiver interviewout.Archiver
	logger   hclog.Logger

	mu     sync.Mutex
	active *domain.Session
	loaded bool
	timer  *domain.Timer
}

func NewSessionService(
	clock clock.Clock,
	idGen id.Generator,
	repo interviewout.ActiveSessionRepository,
	archiver interviewout.Archiver,
	maxDuration time.Duration,
	logger hclog.Logger,
) *SessionService {
	return &SessionService{
		clock:    clock,
		idGen:    idGen,
		repo:     repo,
		archiver: archiver,
		logger:   logging.OrNull(logger).Named("session"),
		timer:    domain.NewTimer(maxDuration),
	}
}

func (s *SessionService) Active(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.active.Clone(), nil
}

// Start replaces any active session. The previous one is discarded, not
// archived.
func (s *SessionService) Start(ctx context.Context, questions []domain.Question) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	next := domain.NewSession(s.idGen.New(), questions, s.clock.Now())
	if next == nil {
		return nil, apperrors.ErrEmptySelection
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save active session: %w", err)
	}
	if s.active != nil && s.active.Status != domain.StatusCompleted {
		s.logger.Info("discarding unfinished session", "session_id", s.active.ID, "responses", len(s.active.Responses))
	}
	s.active = next
	s.logger.Info("session started", "session_id", next.ID, "questions", len(next.Questions))
	return next.Clone(), nil
}

func (s *SessionService) Pause(ctx context.Context) (*domain.Session, error) {
	return s.apply(ctx, "pause", func(sess *domain.Session) bool { return sess.Pause() })
}

func (s *SessionService) Resume(ctx context.Context) (*domain.Session, error) {
	return s.apply(ctx, "resume", func(sess *domain.Session) bool { return sess.Resume() })
}

func (s *SessionService) Next(ctx context.Context) (*domain.Session, error) {
	return s.apply(ctx, "next", func(sess *domain.Session) bool { return sess.Next() })
}

func (s *SessionService) Previous(ctx context.Context) (*domain.Session, error) {
	return s.apply(ctx, "previous", func(sess *domain.Session) bool { return sess.Previous() })
}

func (s *SessionService) SetCurrent(ctx context.Context, index int) (*domain.Session, error) {
	return s.apply(ctx, "jump", func(sess *domain.Session) bool { return sess.SetCurrent(index) })
}

func (s *SessionService) AddResponse(ctx context.Context, questionID, content string, durationSec int) (*domain.Session, error) {
	responseID := s.idGen.New()
	now := s.clock.Now()
	return s.apply(ctx, "answer", func(sess *domain.Session) bool {
		return sess.AddResponse(responseID, questionID, content, durationSec, now)
	})
}

func (s *SessionService) Complete(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.completeLocked(ctx, "manual")
}

// Clear drops the active session whatever its status.
func (s *SessionService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	if s.active != nil {
		s.logger.Info("session cleared", "session_id", s.active.ID, "status", string(s.active.Status))
	}
	s.active = nil
	s.loaded = true
	return nil
}

// Tick samples the timer and completes the session the first time the
// maximum duration is reached. completed reports that this tick did so.
func (s *SessionService) Tick(ctx context.Context) (reading domain.Reading, session *domain.Session, completed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Reading{}, nil, false, err
	}
	reading = s.timer.Sample(s.clock.Now(), s.active)
	if reading.ShouldComplete {
		if _, err := s.completeLocked(ctx, "timer"); err != nil {
			s.timer.Rearm()
			return reading, s.active.Clone(), false, err
		}
		completed = true
	}
	return reading, s.active.Clone(), completed, nil
}

// RunTimer ticks every interval until ctx is done or there is no running
// session left. onTick may be nil; completed is set on the tick that
// auto-completed the session.
func (s *SessionService) RunTimer(ctx context.Context, interval time.Duration, onTick func(reading domain.Reading, session *domain.Session, completed bool)) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		reading, session, completed, err := s.Tick(ctx)
		if err != nil {
			return err
		}
		if onTick != nil {
			onTick(reading, session, completed)
		}
		if session == nil || session.Status == domain.StatusCompleted {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *SessionService) apply(ctx context.Context, op string, mutate func(*domain.Session) bool) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if s.active == nil {
		return nil, nil
	}
	next := s.active.Clone()
	if !mutate(next) {
		return s.active.Clone(), nil
	}
	if next.CurrentIndex != s.active.CurrentIndex {
		next.MarkQuestionStarted(s.clock.Now())
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return s.active.Clone(), fmt.Errorf("save active session: %w", err)
	}
	s.active = next
	s.logger.Debug("session updated", "op", op, "session_id", next.ID, "index", next.CurrentIndex, "status", string(next.Status))
	return next.Clone(), nil
}

func (s *SessionService) completeLocked(ctx context.Context, trigger string) (*domain.Session, error) {
	if s.active == nil {
		return nil, nil
	}
	next := s.active.Clone()
	if !next.Complete(s.clock.Now()) {
		return s.active.Clone(), nil
	}
	// The session turns terminal only after history has recorded it.
	// Recording is an upsert by id.
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, next.Clone()); err != nil {
			s.logger.Error("archive completed session", "session_id", next.ID, "error", err)
			return s.active.Clone(), fmt.Errorf("archive session: %w", err)
		}
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return s.active.Clone(), fmt.Errorf("save active session: %w", err)
	}
	s.active = next
	s.logger.Info("session completed", "session_id", next.ID, "trigger", trigger, "responses", len(next.Responses))
	return next.Clone(), nil
}

func (s *SessionService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	session, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoActiveSession):
		s.active = nil
	case err != nil:
		return fmt.Errorf("load active session: %w", err)
	default:
		s.active = session
		s.logger.Debug("restored active session", "session_id", session.ID, "status", string(session.Status))
	}
	s.loaded = true
	return nil
}
