package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Job is a persisted one-shot job descriptor. Payload is the JSON-encoded
// arguments the handler for Kind expects.
type Job struct {
	ID      string
	Kind    string
	Payload []byte
	FireAt  time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	payload BLOB,
	fire_at INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_fire_at ON jobs (fire_at);
`

// Store keeps pending jobs in a sqlite file separate from the primary
// database, so jobs scheduled before a restart are still there after it.
type Store struct {
	db *sql.DB
}

func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open job store: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping job store: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure job store schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Add(ctx context.Context, job Job) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, kind, payload, fire_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		job.ID, job.Kind, job.Payload, job.FireAt.UnixMilli(), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist job: %w", err)
	}
	return nil
}

// ClaimDue atomically removes and returns every job due at now, oldest
// first. A claimed job is gone from the store: there is no retry bookkeeping.
func (s *Store) ClaimDue(ctx context.Context, now time.Time) ([]Job, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, kind, payload, fire_at FROM jobs WHERE fire_at <= ? ORDER BY fire_at`,
		now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due jobs: %w", err)
	}

	var jobs []Job
	for rows.Next() {
		var job Job
		var fireAt int64
		if err := rows.Scan(&job.ID, &job.Kind, &job.Payload, &fireAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		job.FireAt = time.UnixMilli(fireAt)
		jobs = append(jobs, job)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read due jobs: %w", err)
	}

	if len(jobs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(jobs))
	args := make([]interface{}, len(jobs))
	for i, job := range jobs {
		placeholders[i] = "?"
		args[i] = job.ID
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM jobs WHERE id IN (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to delete claimed jobs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim transaction: %w", err)
	}
	return jobs, nil
}

// Pending returns the number of jobs waiting in the store.
func (s *Store) Pending(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending jobs: %w", err)
	}
	return count, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
