package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"MarketLens/internal/model"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the run log to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read the log while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			kind        TEXT NOT NULL,
			timeframe   TEXT,
			duration_ms INTEGER,
			requested   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS skipped_symbols (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			symbol TEXT NOT NULL,
			kind   TEXT,
			error  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_skipped_run ON skipped_symbols(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(id, timestamp, kind, timeframe, duration_ms, requested)
		VALUES (?,?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.Kind, run.Timeframe,
		run.Duration.Milliseconds(), strings.Join(run.Requested, ","),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, s := range run.Skipped {
		if _, err := tx.Exec(`INSERT INTO skipped_symbols
			(run_id, symbol, kind, error) VALUES (?,?,?,?)`,
			run.ID, s.Symbol, s.Kind, s.Err,
		); err != nil {
			return fmt.Errorf("insert skipped %s: %w", s.Symbol, err)
		}
	}
	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first, with their skipped symbols.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, kind, timeframe, duration_ms, requested
		FROM runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var runs []Run
	for rows.Next() {
		var (
			run       Run
			ts, durMS int64
			requested string
		)
		if err := rows.Scan(&run.ID, &ts, &run.Kind, &run.Timeframe, &durMS, &requested); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = time.Unix(ts, 0)
		run.Duration = time.Duration(durMS) * time.Millisecond
		if requested != "" {
			run.Requested = strings.Split(requested, ",")
		}
		runs = append(runs, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		skipped, err := r.skippedFor(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Skipped = skipped
	}
	return runs, nil
}

func (r *SQLiteRecorder) skippedFor(runID string) ([]model.Skipped, error) {
	rows, err := r.db.Query(`SELECT symbol, kind, error FROM skipped_symbols WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query skipped: %w", err)
	}
	defer rows.Close()

	var out []model.Skipped
	for rows.Next() {
		var s model.Skipped
		if err := rows.Scan(&s.Symbol, &s.Kind, &s.Err); err != nil {
			return nil, fmt.Errorf("scan skipped: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
