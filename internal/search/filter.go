package search

import (
	"strings"

	"jobmatch-engine/internal/domain"
)

// FilterCriteria narrows the catalog. Empty fields impose no constraint.
type FilterCriteria struct {
	Query           string                 `json:"q,omitempty"`
	Location        string                 `json:"location,omitempty"`
	Type            domain.JobType         `json:"type,omitempty"`
	ExperienceLevel domain.ExperienceLevel `json:"experience,omitempty"`
	RemoteMode      domain.RemoteMode      `json:"remote,omitempty"`
}

func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

// Filter keeps the jobs passing every supplied criterion, in input order.
// Structured fields compare exactly, so an unknown value matches nothing.
func Filter(catalog []domain.JobRecord, c FilterCriteria) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(catalog))
	q := strings.ToLower(c.Query)
	loc := strings.ToLower(c.Location)

	for _, j := range catalog {
		if q != "" && !matchesQuery(j, q) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(j.Location), loc) {
			continue
		}
		if c.Type != "" && j.Type != c.Type {
			continue
		}
		if c.ExperienceLevel != "" && j.ExperienceLevel != c.ExperienceLevel {
			continue
		}
		if c.RemoteMode != "" && j.RemoteMode != c.RemoteMode {
			continue
		}
		out = append(out, j)
	}
	return out
}

// q must already be lower-cased.
func matchesQuery(j domain.JobRecord, q string) bool {
	return strings.Contains(strings.ToLower(j.Title), q) ||
		strings.Contains(strings.ToLower(j.Company), q) ||
		strings.Contains(strings.ToLower(j.Description), q)
}
