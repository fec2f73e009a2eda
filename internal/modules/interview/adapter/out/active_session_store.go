package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	hclog "github.com/hashicorp/go-hclog"

	"pmdrill/internal/modules/interview/domain"
	interviewout "pmdrill/internal/modules/interview/port/out"
	"pmdrill/internal/platform/atomicfile"
	apperrors "pmdrill/internal/platform/errors"
	"pmdrill/internal/platform/logging"
)

type activeSessionDocument struct {
	SchemaVersion int             `json:"schemaVersion"`
	Session       *domain.Session `json:"session"`
}

// FileActiveSessionStore keeps the active session in one JSON document.
// Unreadable or inconsistent content is reported as no active session.
type FileActiveSessionStore struct {
	path   string
	logger hclog.Logger
}

func NewFileActiveSessionStore(path string, logger hclog.Logger) interviewout.ActiveSessionRepository {
	return &FileActiveSessionStore{path: path, logger: logging.OrNull(logger).Named("active_session_store")}
}

func (s *FileActiveSessionStore) Save(_ context.Context, session *domain.Session) error {
	if session == nil {
		return fmt.Errorf("%w: session is required", apperrors.ErrInvalidInput)
	}
	payload, err := json.MarshalIndent(activeSessionDocument{SchemaVersion: domain.SchemaVersion, Session: session}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active session: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write active session: %w", err)
	}
	return nil
}

func (s *FileActiveSessionStore) Load(_ context.Context) (*domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ErrNoActiveSession
		}
		return nil, fmt.Errorf("read active session: %w", err)
	}
	doc := activeSessionDocument{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		s.logger.Warn("ignoring malformed active session", "path", s.path, "error", err)
		return nil, apperrors.ErrNoActiveSession
	}
	if !doc.Session.Valid() {
		s.logger.Warn("ignoring inconsistent active session", "path", s.path)
		return nil, apperrors.ErrNoActiveSession
	}
	if doc.Session.Responses == nil {
		doc.Session.Responses = []domain.Response{}
	}
	return doc.Session, nil
}

func (s *FileActiveSessionStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
