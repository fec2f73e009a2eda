package out

import (
	"context"

	"pmdrill/internal/modules/interview/domain"
)

// ActiveSessionRepository persists the single active session. Load returns
// apperrors.ErrNoActiveSession when nothing usable is stored.
type ActiveSessionRepository interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Clear(ctx context.Context) error
}

// Archiver receives a deep copy of every completed session.
type Archiver interface {
	Archive(ctx context.Context, session *domain.Session) error
}
