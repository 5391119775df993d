package store

import (
	"context"
	"database/sql"

	"jobmatch-engine/internal/domain"
)

// CatalogSource exposes the jobs table as a catalog source.
type CatalogSource struct {
	DB *sql.DB
}

func (s CatalogSource) Name() string { return "sqlite" }

func (s CatalogSource) Load(ctx context.Context) ([]domain.JobRecord, error) {
	return ListJobs(ctx, s.DB)
}

// Profiles serves and saves user profiles from the local database.
type Profiles struct {
	DB *sql.DB
}

func (p Profiles) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return GetProfile(ctx, p.DB, userID)
}

func (p Profiles) SaveProfile(ctx context.Context, prof domain.UserProfile) error {
	return UpsertProfile(ctx, p.DB, prof)
}
