// Package store handles SQLite persistence of finished runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/inkblade/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when no run matches a lookup.
var ErrNotFound = errors.New("run not found")

// Store wraps SQLite access for run history.
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
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			outcome TEXT NOT NULL,
			level INTEGER NOT NULL,
			score INTEGER NOT NULL,
			max_combo INTEGER NOT NULL,
			player_health INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_difficulty ON runs(difficulty);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

const runColumns = `id, started_at, ended_at, difficulty, outcome, level, score, max_combo, player_health`

// InsertRun stores a finished run. Recording the same run twice is a no-op.
func (s *Store) InsertRun(ctx context.Context, run model.RunRecord) error {
	if run.ID == "" {
		return errors.New("run id is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO runs (`+runColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.EndedAt.UTC().Format(time.RFC3339Nano),
		run.Difficulty.String(),
		string(run.Outcome),
		run.Level,
		run.Score,
		run.MaxCombo,
		run.PlayerHealth,
	)
	return err
}

// ListRuns returns runs matching the filter, oldest first. Last keeps only
// the most recent N matches.
func (s *Store) ListRuns(ctx context.Context, filter model.HistoryFilter) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Difficulty != nil {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, filter.Difficulty.String())
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}
	limit := -1
	if filter.Last > 0 {
		limit = filter.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT * FROM (
		SELECT %s FROM runs
		WHERE %s
		ORDER BY ended_at DESC
		LIMIT ?
	) ORDER BY ended_at ASC`, runColumns, strings.Join(clauses, " AND "))
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

	var runs []model.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun looks up a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRow(row)
}

// LatestRun returns the most recently finished run.
func (s *Store) LatestRun(ctx context.Context) (model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY ended_at DESC LIMIT 1`)
	return scanRow(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(row *sql.Row) (model.RunRecord, error) {
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunRecord{}, ErrNotFound
	}
	return run, err
}

func scanRun(sc scanner) (model.RunRecord, error) {
	var run model.RunRecord
	var startedAt, endedAt, difficulty, outcome string
	if err := sc.Scan(&run.ID, &startedAt, &endedAt, &difficulty, &outcome, &run.Level, &run.Score, &run.MaxCombo, &run.PlayerHealth); err != nil {
		return model.RunRecord{}, err
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return model.RunRecord{}, err
	}
	if run.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return model.RunRecord{}, err
	}
	if run.Difficulty, err = model.ParseDifficulty(difficulty); err != nil {
		return model.RunRecord{}, err
	}
	run.Outcome = model.Outcome(outcome)
	return run, nil
}
