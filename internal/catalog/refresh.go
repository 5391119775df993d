package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"jobmatch-engine/internal/domain"
)

var ErrNoSources = errors.New("no catalog sources configured")

type SourceStatus struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type Status struct {
	Running   bool           `json:"running"`
	LastRunAt string         `json:"last_run_at,omitempty"`
	LastOkAt  string         `json:"last_ok_at,omitempty"`
	LastError string         `json:"last_error,omitempty"`
	LastCount int            `json:"last_count"`
	Version   string         `json:"version,omitempty"`
	Sources   []SourceStatus `json:"sources,omitempty"`
}

// Refresher reloads every source and swaps the merged result into Snapshot.
type Refresher struct {
	Sources  []Source
	Snapshot *Snapshot
	Timeout  time.Duration // per source; 0 means 30s

	// OnRefresh runs after a successful swap.
	OnRefresh func(Status)

	mu     sync.Mutex
	status atomic.Value
}

func (r *Refresher) Status() Status {
	if st, ok := r.status.Load().(Status); ok {
		return st
	}
	return Status{}
}

type loadResult struct {
	jobs []domain.JobRecord
	err  error
}

// RefreshOnce loads all sources concurrently and merges them in source
// order; the first record with a given ID wins. When every source fails the
// previous snapshot stays in place and an error is returned.
func (r *Refresher) RefreshOnce(ctx context.Context) (Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.Status()
	st.Running = true
	st.LastRunAt = time.Now().Format(time.RFC3339)
	r.status.Store(st)

	merged, sources, err := r.loadAll(ctx)

	st.Running = false
	st.Sources = sources
	if err == nil {
		st.Version, err = r.Snapshot.Replace(merged)
	}
	if err != nil {
		st.LastError = err.Error()
		r.status.Store(st)
		log.Printf("[catalog] refresh error: %v", err)
		return st, err
	}

	st.LastError = ""
	st.LastCount = len(merged)
	st.LastOkAt = time.Now().Format(time.RFC3339)
	r.status.Store(st)
	log.Printf("[catalog] ok jobs=%d version=%s", st.LastCount, st.Version)

	if r.OnRefresh != nil {
		r.OnRefresh(st)
	}
	return st, nil
}

func (r *Refresher) loadAll(ctx context.Context) ([]domain.JobRecord, []SourceStatus, error) {
	if len(r.Sources) == 0 {
		return nil, nil, ErrNoSources
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	results := make([]loadResult, len(r.Sources))
	var g errgroup.Group
	for i, src := range r.Sources {
		i, src := i, src
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			jobs, err := src.Load(sctx)
			if err != nil {
				log.Printf("[catalog:%s] error: %v", src.Name(), err)
			}
			results[i] = loadResult{jobs: jobs, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		merged   []domain.JobRecord
		statuses = make([]SourceStatus, len(r.Sources))
		errs     []error
		seen     = map[string]bool{}
		dupes    int
	)
	for i, res := range results {
		name := r.Sources[i].Name()
		statuses[i] = SourceStatus{Name: name, Count: len(res.jobs)}
		if res.err != nil {
			statuses[i].Count = 0
			statuses[i].Error = res.err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", name, res.err))
			continue
		}
		for _, j := range res.jobs {
			if seen[j.ID] {
				dupes++
				continue
			}
			seen[j.ID] = true
			merged = append(merged, j)
		}
	}
	if len(errs) == len(r.Sources) {
		return nil, statuses, fmt.Errorf("all catalog sources failed: %w", errors.Join(errs...))
	}
	if dupes > 0 {
		log.Printf("[catalog] skipped %d duplicate job ids", dupes)
	}
	return merged, statuses, nil
}
