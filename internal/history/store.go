// Package history records the outcome of every attempted encode in a small
// SQLite database so past runs can be reviewed with the history command.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one attempted encode.
type Record struct {
	ID          int64
	RunID       string
	File        string
	SourceCodec string
	Outcome     string
	LastFrame   int64
	TotalFrames int64
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS encode_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    file TEXT NOT NULL,
    source_codec TEXT NOT NULL DEFAULT '',
    outcome TEXT NOT NULL,
    last_frame INTEGER NOT NULL DEFAULT 0,
    total_frames INTEGER NOT NULL DEFAULT 0,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_encode_history_finished
    ON encode_history (finished_at DESC);
`

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append inserts one record and returns its ID.
func (s *Store) Append(ctx context.Context, rec Record) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO encode_history (
            run_id, file, source_codec, outcome,
            last_frame, total_frames, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.File,
		rec.SourceCodec,
		rec.Outcome,
		rec.LastFrame,
		rec.TotalFrames,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert history record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, file, source_codec, outcome,
                last_frame, total_frames, started_at, finished_at
         FROM encode_history
         ORDER BY id DESC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var startedAt, finishedAt string
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.File, &rec.SourceCodec, &rec.Outcome,
			&rec.LastFrame, &rec.TotalFrames, &startedAt, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}
