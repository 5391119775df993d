package catalog_test

import (
	"context"
	"os"
	"testing"
	"time"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/domain"
)

// Runs only against a disposable database: JOBMATCH_TEST_DATABASE_URL.
func TestPostgresSourceAndProfiles(t *testing.T) {
	url := os.Getenv("JOBMATCH_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("JOBMATCH_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := catalog.NewPostgresPool(ctx, url, "")
	if err != nil {
		t.Fatalf("NewPostgresPool: %v", err)
	}
	t.Cleanup(pool.Close)

	drop := func() {
		_, _ = pool.Exec(context.Background(), `DROP TABLE IF EXISTS jobs, profiles`)
	}
	drop()
	t.Cleanup(drop)

	for _, stmt := range []string{
		`CREATE TABLE jobs (
			id TEXT PRIMARY KEY, title TEXT NOT NULL, company TEXT, location TEXT,
			job_type TEXT NOT NULL, experience_level TEXT NOT NULL, remote_mode TEXT NOT NULL,
			salary_range TEXT, description TEXT, requirements TEXT[], benefits TEXT[], posted_at DATE)`,
		`CREATE TABLE profiles (
			user_id TEXT PRIMARY KEY, skills TEXT[], remote_preference TEXT, updated_at TIMESTAMPTZ)`,
		`INSERT INTO jobs VALUES
			('1', 'Senior Software Engineer', 'TechCorp Inc.', 'San Francisco, CA',
			 'Full-time', 'Senior', 'Hybrid', '$120,000 - $150,000', 'desc',
			 ARRAY['React','Node.js','TypeScript','AWS'], NULL, '2024-01-15')`,
	} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	jobs, err := catalog.PostgresSource{Pool: pool}.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(jobs) != 1 || len(jobs[0].RequiredSkills) != 4 || jobs[0].PostedDate.Format(domain.DateLayout) != "2024-01-15" {
		t.Errorf("jobs = %+v", jobs)
	}

	profiles := catalog.PostgresProfiles{Pool: pool}
	if p, err := profiles.Profile(ctx, "nobody"); err != nil || p != nil {
		t.Errorf("Profile(nobody) = %v, %v", p, err)
	}
	want := domain.UserProfile{UserID: "u1", Skills: []string{"React"}, RemotePreference: domain.RemotePrefRemote}
	if err := profiles.SaveProfile(ctx, want); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	got, err := profiles.Profile(ctx, "u1")
	if err != nil || got == nil || got.Skills[0] != "React" || got.RemotePreference != domain.RemotePrefRemote {
		t.Errorf("Profile(u1) = %+v, %v", got, err)
	}
}
