package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"jobmatch-engine/internal/domain"
)

// Snapshot holds the current catalog. Readers get copies; Replace swaps
// the whole list at once.
type Snapshot struct {
	mu       sync.RWMutex
	jobs     []domain.JobRecord
	version  string
	loadedAt time.Time
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Replace installs jobs and returns the new content version.
func (s *Snapshot) Replace(jobs []domain.JobRecord) (string, error) {
	v, err := Version(jobs)
	if err != nil {
		return "", err
	}
	cp := make([]domain.JobRecord, len(jobs))
	copy(cp, jobs)

	s.mu.Lock()
	s.jobs = cp
	s.version = v
	s.loadedAt = time.Now()
	s.mu.Unlock()
	return v, nil
}

func (s *Snapshot) Jobs(ctx context.Context) ([]domain.JobRecord, error) {
	jobs, _, err := s.JobsVersion(ctx)
	return jobs, err
}

func (s *Snapshot) JobsVersion(ctx context.Context) ([]domain.JobRecord, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.JobRecord, len(s.jobs))
	copy(out, s.jobs)
	return out, s.version, nil
}

func (s *Snapshot) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *Snapshot) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Version is a content hash of the catalog. Same jobs in the same order
// give the same version.
func Version(jobs []domain.JobRecord) (string, error) {
	b, err := json.Marshal(jobs)
	if err != nil {
		return "", fmt.Errorf("catalog version: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8]), nil
}
