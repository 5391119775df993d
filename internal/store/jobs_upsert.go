package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"jobmatch-engine/internal/domain"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpsertJob inserts a job at the end of the catalog, or updates it in place
// keeping its position.
func UpsertJob(ctx context.Context, db *sql.DB, j domain.JobRecord) error {
	return upsertJob(ctx, db, j)
}

func upsertJob(ctx context.Context, ex execer, j domain.JobRecord) error {
	req, err := json.Marshal(nonNil(j.RequiredSkills))
	if err != nil {
		return err
	}
	ben, err := json.Marshal(nonNil(j.Benefits))
	if err != nil {
		return err
	}
	posted := ""
	if !j.PostedDate.IsZero() {
		posted = j.PostedDate.Format(domain.DateLayout)
	}

	_, err = ex.ExecContext(ctx, `
INSERT INTO jobs (id, position, title, company, location, job_type, experience_level, remote_mode,
  salary_range, description, requirements, benefits, posted_date, updated_at)
VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM jobs), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  company = excluded.company,
  location = excluded.location,
  job_type = excluded.job_type,
  experience_level = excluded.experience_level,
  remote_mode = excluded.remote_mode,
  salary_range = excluded.salary_range,
  description = excluded.description,
  requirements = excluded.requirements,
  benefits = excluded.benefits,
  posted_date = excluded.posted_date,
  updated_at = excluded.updated_at;`,
		j.ID, j.Title, j.Company, j.Location,
		string(j.Type), string(j.ExperienceLevel), string(j.RemoteMode),
		j.SalaryRange, j.Description, string(req), string(ben), posted,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", j.ID, err)
	}
	return nil
}

// SeedIfEmpty writes jobs only into an empty table and reports how many
// were added.
func SeedIfEmpty(ctx context.Context, db *sql.DB, jobs []domain.JobRecord) (int, error) {
	n, err := CountJobs(ctx, db)
	if err != nil {
		return 0, err
	}
	if n > 0 || len(jobs) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, j := range jobs {
		if err := upsertJob(ctx, tx, j); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(jobs), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
