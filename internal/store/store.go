// Package store handles SQLite persistence of review history.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/verte-zerg/wordcram/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history.
type Store struct {
	db *sqlx.DB
}

type sessionRow struct {
	ID        string `db:"id"`
	StartedAt string `db:"started_at"`
	EndedAt   string `db:"ended_at"`
	Source    string `db:"source"`
	Rounds    int    `db:"rounds"`
	Reviews   int    `db:"reviews"`
}

type reviewRow struct {
	SessionID       string `db:"session_id"`
	Term            string `db:"term"`
	Level           string `db:"level"`
	ProficiencyFrom int    `db:"proficiency_from"`
	ProficiencyTo   int    `db:"proficiency_to"`
	Round           int    `db:"round"`
	ReviewedAt      string `db:"reviewed_at"`
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			rounds INTEGER NOT NULL DEFAULT 0,
			reviews INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			term TEXT NOT NULL,
			level TEXT NOT NULL,
			proficiency_from INTEGER NOT NULL,
			proficiency_to INTEGER NOT NULL,
			round INTEGER NOT NULL,
			reviewed_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_term ON reviews(term);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SessionLog appends reviews of one practice session.
type SessionLog struct {
	store   *Store
	ctx     context.Context
	id      string
	reviews int
}

// BeginSession inserts a new session row and returns its log.
func (s *Store) BeginSession(ctx context.Context, source string, startedAt time.Time) (*SessionLog, error) {
	row := sessionRow{
		ID:        uuid.NewString(),
		StartedAt: startedAt.Format(time.RFC3339Nano),
		Source:    source,
	}
	if _, err := s.db.NamedExecContext(ctx,
		`INSERT INTO sessions (id, started_at, source) VALUES (:id, :started_at, :source)`, row); err != nil {
		return nil, fmt.Errorf("failed to begin session: %w", err)
	}
	return &SessionLog{store: s, ctx: ctx, id: row.ID}, nil
}

// ID returns the session id.
func (l *SessionLog) ID() string {
	return l.id
}

// Append stores one review.
func (l *SessionLog) Append(review model.Review) error {
	row := reviewRow{
		SessionID:       l.id,
		Term:            review.Term,
		Level:           review.Level.String(),
		ProficiencyFrom: review.ProficiencyFrom,
		ProficiencyTo:   review.ProficiencyTo,
		Round:           review.Round,
		ReviewedAt:      review.ReviewedAt.Format(time.RFC3339Nano),
	}
	if _, err := l.store.db.NamedExecContext(l.ctx,
		`INSERT INTO reviews (session_id, term, level, proficiency_from, proficiency_to, round, reviewed_at)
		 VALUES (:session_id, :term, :level, :proficiency_from, :proficiency_to, :round, :reviewed_at)`, row); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	l.reviews++
	return nil
}

// Finish records the end of the session.
func (l *SessionLog) Finish(rounds int, endedAt time.Time) error {
	if _, err := l.store.db.ExecContext(l.ctx,
		`UPDATE sessions SET ended_at = ?, rounds = ?, reviews = ? WHERE id = ?`,
		endedAt.Format(time.RFC3339Nano), rounds, l.reviews, l.id); err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	return nil
}

// ListSessions returns the most recent sessions in chronological order.
// A limit of zero returns all sessions.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]model.SessionAggregate, error) {
	query := `SELECT id, started_at, ended_at, source, rounds, reviews FROM sessions ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	sessions := make([]model.SessionAggregate, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		agg, err := rows[i].aggregate()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, agg)
	}
	return sessions, nil
}

func (r sessionRow) aggregate() (model.SessionAggregate, error) {
	started, err := time.Parse(time.RFC3339Nano, r.StartedAt)
	if err != nil {
		return model.SessionAggregate{}, err
	}
	agg := model.SessionAggregate{
		ID:        r.ID,
		StartedAt: started,
		Source:    r.Source,
		Rounds:    r.Rounds,
		Reviews:   r.Reviews,
	}
	if r.EndedAt != "" {
		ended, err := time.Parse(time.RFC3339Nano, r.EndedAt)
		if err != nil {
			return model.SessionAggregate{}, err
		}
		agg.EndedAt = ended
	}
	return agg, nil
}

// LevelCounts counts all reviews per rating.
func (s *Store) LevelCounts(ctx context.Context) ([]model.LevelCount, error) {
	var rows []struct {
		Level string `db:"level"`
		Count int    `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT level, COUNT(*) AS count FROM reviews GROUP BY level`); err != nil {
		return nil, err
	}
	counts := make([]model.LevelCount, 0, len(model.Levels))
	for _, level := range model.Levels {
		lc := model.LevelCount{Level: level}
		for _, row := range rows {
			if row.Level == level.String() {
				lc.Count = row.Count
			}
		}
		counts = append(counts, lc)
	}
	return counts, nil
}

// HardestTerms returns the terms rated Repeat most often.
func (s *Store) HardestTerms(ctx context.Context, n int) ([]model.TermAggregate, error) {
	if n <= 0 {
		return nil, nil
	}
	var rows []struct {
		Term    string `db:"term"`
		Reviews int    `db:"reviews"`
		Repeats int    `db:"repeats"`
	}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT term, COUNT(*) AS reviews, SUM(CASE WHEN level = ? THEN 1 ELSE 0 END) AS repeats
		 FROM reviews
		 GROUP BY term
		 HAVING repeats > 0
		 ORDER BY repeats DESC, term ASC
		 LIMIT ?`, model.Repeat.String(), n); err != nil {
		return nil, err
	}
	result := make([]model.TermAggregate, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.TermAggregate{Term: row.Term, Reviews: row.Reviews, Repeats: row.Repeats})
	}
	return result, nil
}
