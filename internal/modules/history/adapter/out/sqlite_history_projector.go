package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pmdrill/internal/modules/history/domain"
	historyout "pmdrill/internal/modules/history/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteHistoryProjector mirrors history.json into sqlite tables for
// aggregate queries. It is rebuilt from the JSON list on every sync.
type SQLiteHistoryProjector struct {
	db   *sql.DB
	path string
}

func NewSQLiteHistoryProjector(dbPath string) (*SQLiteHistoryProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	projector := &SQLiteHistoryProjector{db: db, path: dbPath}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

var _ historyout.Projector = (*SQLiteHistoryProjector)(nil)

func (s *SQLiteHistoryProjector) Path() string { return s.path }

func (s *SQLiteHistoryProjector) Close() error { return s.db.Close() }

func (s *SQLiteHistoryProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  ended_at TEXT,
  duration_sec INTEGER NOT NULL,
  question_count INTEGER NOT NULL,
  response_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS session_questions (
  session_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  question_id TEXT NOT NULL,
  category TEXT NOT NULL,
  difficulty TEXT NOT NULL,
  answered INTEGER NOT NULL,
  duration_sec INTEGER NOT NULL,
  PRIMARY KEY (session_id, position)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create history tables: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryProjector) Sync(ctx context.Context, entries []domain.Entry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin projection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM session_questions`); err != nil {
		return fmt.Errorf("reset session questions: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	for _, e := range entries {
		if err = upsertEntry(ctx, tx, e); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit projection: %w", err)
	}
	return nil
}

func upsertEntry(ctx context.Context, tx *sql.Tx, e domain.Entry) error {
	const sessionStmt = `
INSERT INTO sessions (id, started_at, ended_at, duration_sec, question_count, response_count)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  duration_sec=excluded.duration_sec,
  question_count=excluded.question_count,
  response_count=excluded.response_count;
`
	var ended any
	if e.EndTime != nil {
		ended = e.EndTime.UTC().Format(time.RFC3339Nano)
	}
	if _, err := tx.ExecContext(ctx, sessionStmt,
		e.ID,
		e.StartTime.UTC().Format(time.RFC3339Nano),
		ended,
		int(e.Duration().Seconds()),
		len(e.Questions),
		len(e.Responses),
	); err != nil {
		return fmt.Errorf("upsert session %s: %w", e.ID, err)
	}

	durations := make(map[string]int, len(e.Responses))
	for _, r := range e.Responses {
		durations[r.QuestionID] = r.DurationSec
	}
	const questionStmt = `
INSERT INTO session_questions (session_id, position, question_id, category, difficulty, answered, duration_sec)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	for i, q := range e.Questions {
		dur, answered := durations[q.ID]
		if _, err := tx.ExecContext(ctx, questionStmt, e.ID, i, q.ID, q.Category, q.Difficulty, boolInt(answered), dur); err != nil {
			return fmt.Errorf("insert question %s of %s: %w", q.ID, e.ID, err)
		}
	}
	return nil
}

func (s *SQLiteHistoryProjector) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	const query = `
SELECT category, COUNT(*), COALESCE(SUM(answered), 0)
FROM session_questions
GROUP BY category;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query category counts: %w", err)
	}
	defer rows.Close()
	var out []domain.CategoryCount
	for rows.Next() {
		c := domain.CategoryCount{}
		if err := rows.Scan(&c.Category, &c.Questions, &c.Answered); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	domain.SortCategoryCounts(out)
	return out, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
