package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmatch-engine/internal/domain"
)

// NewPostgresPool creates and verifies a pgxpool connection pool. A
// non-empty password overrides the one in databaseURL.
func NewPostgresPool(ctx context.Context, databaseURL, password string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	if password != "" {
		cfg.ConnConfig.Password = password
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return pool, nil
}

// PostgresSource reads the hosted `jobs` table.
type PostgresSource struct {
	Pool *pgxpool.Pool
}

func (p PostgresSource) Name() string { return "postgres" }

func (p PostgresSource) Load(ctx context.Context) ([]domain.JobRecord, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT id::text, title, COALESCE(company, ''), COALESCE(location, ''),
		       job_type, experience_level, remote_mode,
		       COALESCE(salary_range, ''), COALESCE(description, ''),
		       COALESCE(requirements, '{}'), COALESCE(benefits, '{}'), posted_at
		FROM jobs
		ORDER BY posted_at DESC NULLS LAST, id`)
	if err != nil {
		return nil, fmt.Errorf("list jobs query: %w", err)
	}
	defer rows.Close()

	out := make([]domain.JobRecord, 0)
	for rows.Next() {
		var (
			raw    RawJob
			posted *time.Time
		)
		if err := rows.Scan(
			&raw.ID, &raw.Title, &raw.Company, &raw.Location,
			&raw.Type, &raw.Experience, &raw.Remote,
			&raw.Salary, &raw.Description,
			&raw.Requirements, &raw.Benefits, &posted,
		); err != nil {
			return nil, fmt.Errorf("list jobs scan: %w", err)
		}
		if posted != nil {
			raw.PostedDate = posted.Format(domain.DateLayout)
		}
		rec, err := raw.Record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PostgresProfiles serves user profiles from the hosted `profiles` table.
type PostgresProfiles struct {
	Pool *pgxpool.Pool
}

// Profile returns (nil, nil) when the user has no row.
func (p PostgresProfiles) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var (
		skills []string
		pref   string
	)
	err := p.Pool.QueryRow(ctx,
		`SELECT COALESCE(skills, '{}'), COALESCE(remote_preference, '')
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&skills, &pref)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	rp, err := domain.ParseRemotePreference(pref)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", userID, err)
	}
	return &domain.UserProfile{UserID: userID, Skills: skills, RemotePreference: rp}, nil
}

// SaveProfile upserts a profile row.
func (p PostgresProfiles) SaveProfile(ctx context.Context, prof domain.UserProfile) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO profiles (user_id, skills, remote_preference, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET skills = EXCLUDED.skills,
		    remote_preference = EXCLUDED.remote_preference,
		    updated_at = NOW()`,
		prof.UserID, prof.Skills, string(prof.RemotePreference))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
