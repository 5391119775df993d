// Package catalog loads job postings from the configured sources and keeps
// the validated snapshot the search engine reads from.
package catalog

import (
	"context"

	"jobmatch-engine/internal/domain"
)

// Source is one place jobs come from (seed file, local store, Postgres).
type Source interface {
	Name() string
	Load(ctx context.Context) ([]domain.JobRecord, error)
}

// Static serves a fixed list. Used for tests and for an inline catalog.
type Static struct {
	Label string
	List  []domain.JobRecord
}

func (s Static) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

func (s Static) Load(ctx context.Context) ([]domain.JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.JobRecord, len(s.List))
	copy(out, s.List)
	return out, nil
}
