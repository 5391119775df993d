package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/domain"
)

var ErrNotFound = errors.New("not found")

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  job_type TEXT NOT NULL,
  experience_level TEXT NOT NULL,
  remote_mode TEXT NOT NULL,
  salary_range TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  requirements TEXT NOT NULL DEFAULT '[]',
  benefits TEXT NOT NULL DEFAULT '[]',
  posted_date TEXT NOT NULL DEFAULT '',
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS profiles (
  user_id TEXT PRIMARY KEY,
  skills TEXT NOT NULL DEFAULT '[]',
  remote_preference TEXT NOT NULL DEFAULT '',
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_position
ON jobs(position);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

const jobColumns = `id, title, company, location, job_type, experience_level, remote_mode,
  salary_range, description, requirements, benefits, posted_date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (domain.JobRecord, error) {
	var (
		raw              catalog.RawJob
		reqJSON, benJSON string
	)
	if err := row.Scan(
		&raw.ID, &raw.Title, &raw.Company, &raw.Location,
		&raw.Type, &raw.Experience, &raw.Remote,
		&raw.Salary, &raw.Description, &reqJSON, &benJSON, &raw.PostedDate,
	); err != nil {
		return domain.JobRecord{}, err
	}
	if err := json.Unmarshal([]byte(reqJSON), &raw.Requirements); err != nil {
		return domain.JobRecord{}, fmt.Errorf("job %s requirements: %w", raw.ID, err)
	}
	if err := json.Unmarshal([]byte(benJSON), &raw.Benefits); err != nil {
		return domain.JobRecord{}, fmt.Errorf("job %s benefits: %w", raw.ID, err)
	}
	return raw.Record()
}

// ListJobs returns every stored job in insertion order.
func ListJobs(ctx context.Context, db *sql.DB) ([]domain.JobRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.JobRecord, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func GetJob(ctx context.Context, db *sql.DB, id string) (domain.JobRecord, error) {
	j, err := scanJob(db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobRecord{}, fmt.Errorf("job %q: %w", id, ErrNotFound)
	}
	return j, err
}

func CountJobs(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n)
	return n, err
}
