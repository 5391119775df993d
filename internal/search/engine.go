package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/matchcache"
	"jobmatch-engine/internal/rank"
)

var ErrJobNotFound = errors.New("job not found")

// CatalogProvider supplies the already-validated catalog.
type CatalogProvider interface {
	Jobs(ctx context.Context) ([]domain.JobRecord, error)
}

// VersionedCatalog is implemented by providers that can report a content
// version together with the jobs. Only those get score caching.
type VersionedCatalog interface {
	JobsVersion(ctx context.Context) ([]domain.JobRecord, string, error)
}

// ProfileProvider returns (nil, nil) when the user has no profile.
type ProfileProvider interface {
	Profile(ctx context.Context, userID string) (*domain.UserProfile, error)
}

type Engine struct {
	Catalog  CatalogProvider
	Profiles ProfileProvider // nil: every request browses anonymously
	Scorer   rank.Scorer     // nil: rank.SkillScorer
	Tiers    rank.Tiers
	Cache    matchcache.Cache // optional

	tiers atomic.Pointer[rank.Tiers]
}

// SetTiers swaps the score labels used by later requests.
func (e *Engine) SetTiers(t rank.Tiers) {
	e.tiers.Store(&t)
}

func (e *Engine) labels() rank.Tiers {
	if t := e.tiers.Load(); t != nil {
		return *t
	}
	return e.Tiers
}

type Results struct {
	Count    int                `json:"count"`
	Query    string             `json:"query"`
	Criteria FilterCriteria     `json:"criteria"`
	Results  []rank.MatchResult `json:"results"`
}

// Search runs filter, score and rank for one request.
func (e *Engine) Search(ctx context.Context, userID string, c FilterCriteria) (Results, error) {
	jobs, version, profile, err := e.resolve(ctx, userID)
	if err != nil {
		return Results{}, err
	}

	ranked := rank.Rank(e.score(ctx, version, profile, Filter(jobs, c)))
	e.labels().Apply(ranked)

	return Results{
		Count:    len(ranked),
		Query:    Encode(c),
		Criteria: c,
		Results:  ranked,
	}, nil
}

// Job returns one catalog entry scored for the user.
func (e *Engine) Job(ctx context.Context, userID, id string) (rank.MatchResult, error) {
	jobs, version, profile, err := e.resolve(ctx, userID)
	if err != nil {
		return rank.MatchResult{}, err
	}
	for _, j := range jobs {
		if j.ID != id {
			continue
		}
		res := e.score(ctx, version, profile, []domain.JobRecord{j})
		e.labels().Apply(res)
		return res[0], nil
	}
	return rank.MatchResult{}, fmt.Errorf("%w: %q", ErrJobNotFound, id)
}

// resolve fetches the catalog and the profile concurrently.
func (e *Engine) resolve(ctx context.Context, userID string) ([]domain.JobRecord, string, *domain.UserProfile, error) {
	var (
		jobs    []domain.JobRecord
		version string
		profile *domain.UserProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if vc, ok := e.Catalog.(VersionedCatalog); ok {
			jobs, version, err = vc.JobsVersion(gctx)
		} else {
			jobs, err = e.Catalog.Jobs(gctx)
		}
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		return nil
	})
	if e.Profiles != nil && userID != "" {
		g.Go(func() error {
			p, err := e.Profiles.Profile(gctx, userID)
			if err != nil {
				return fmt.Errorf("load profile %q: %w", userID, err)
			}
			profile = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", nil, err
	}
	return jobs, version, profile, nil
}

func (e *Engine) score(ctx context.Context, version string, p *domain.UserProfile, jobs []domain.JobRecord) []rank.MatchResult {
	scorer := e.Scorer
	if scorer == nil {
		scorer = rank.SkillScorer{}
	}
	useCache := e.Cache != nil && version != ""

	out := make([]rank.MatchResult, 0, len(jobs))
	for _, j := range jobs {
		var (
			s   int
			hit bool
			key string
		)
		if useCache {
			key = matchcache.Key(version, p, j.ID)
			s, hit = e.Cache.Get(ctx, key)
		}
		if !hit {
			s = scorer.Score(p, j)
			if useCache {
				e.Cache.Set(ctx, key, s)
			}
		}
		out = append(out, rank.NewResult(p, j, s))
	}
	return out
}
