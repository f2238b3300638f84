// Package store handles SQLite persistence of the match log.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/fightclock/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so text ordering in SQLite matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for match records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
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
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			configured_ms INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			pauses INTEGER NOT NULL,
			outcome TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_matches_ended_at ON matches(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordMatch stores a match that left play.
func (s *Store) RecordMatch(ctx context.Context, rec model.MatchRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("match id is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (id, started_at, ended_at, configured_ms, elapsed_ms, pauses, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.EndedAt.UTC().Format(timeLayout),
		rec.ConfiguredMs,
		rec.ElapsedMs,
		rec.Pauses,
		rec.Outcome,
	)
	return err
}

// ListMatches returns match records filtered by cfg, oldest first. Last keeps
// only the most recent N matches.
func (s *Store) ListMatches(ctx context.Context, cfg model.HistoryConfig) ([]model.MatchRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Outcome != "" {
		clauses = append(clauses, "outcome = ?")
		args = append(args, cfg.Outcome)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, configured_ms, elapsed_ms, pauses, outcome
		FROM matches
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var matches []model.MatchRecord
	for rows.Next() {
		var rec model.MatchRecord
		var startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &rec.ConfiguredMs, &rec.ElapsedMs, &rec.Pauses, &rec.Outcome); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(matches) > cfg.Last {
		matches = matches[len(matches)-cfg.Last:]
	}
	return matches, nil
}
