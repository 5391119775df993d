package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NormalizeLocation cleans a location line and drops repeated parts
// ("Remote, remote" -> "Remote").
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// RawJob is a posting as it arrives from a file or a database row, before
// enum values and dates are checked.
type RawJob struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Company      string   `yaml:"company"`
	Location     string   `yaml:"location"`
	Type         string   `yaml:"type"`
	Experience   string   `yaml:"experience"`
	Remote       string   `yaml:"remote"`
	Salary       string   `yaml:"salary"`
	Description  string   `yaml:"description"`
	Requirements []string `yaml:"requirements"`
	Benefits     []string `yaml:"benefits"`
	PostedDate   string   `yaml:"posted_date"`
}

// Record validates the raw posting and converts it to a JobRecord.
func (r RawJob) Record() (domain.JobRecord, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return domain.JobRecord{}, errors.New("missing id")
	}
	title := CleanText(r.Title)
	if title == "" {
		return domain.JobRecord{}, fmt.Errorf("job %s: missing title", id)
	}

	jt, err := domain.ParseJobType(strings.TrimSpace(r.Type))
	if err != nil {
		return domain.JobRecord{}, fmt.Errorf("job %s: %w", id, err)
	}
	lvl, err := domain.ParseExperienceLevel(strings.TrimSpace(r.Experience))
	if err != nil {
		return domain.JobRecord{}, fmt.Errorf("job %s: %w", id, err)
	}
	mode, err := domain.ParseRemoteMode(strings.TrimSpace(r.Remote))
	if err != nil {
		return domain.JobRecord{}, fmt.Errorf("job %s: %w", id, err)
	}

	var posted time.Time
	if d := strings.TrimSpace(r.PostedDate); d != "" {
		posted, err = time.Parse(domain.DateLayout, d)
		if err != nil {
			return domain.JobRecord{}, fmt.Errorf("job %s: posted_date: %w", id, err)
		}
	}

	return domain.JobRecord{
		ID:              id,
		Title:           title,
		Company:         CleanText(r.Company),
		Location:        NormalizeLocation(r.Location),
		Type:            jt,
		ExperienceLevel: lvl,
		RemoteMode:      mode,
		SalaryRange:     CleanText(r.Salary),
		Description:     PlainText(r.Description),
		RequiredSkills:  cleanList(r.Requirements),
		Benefits:        cleanList(r.Benefits),
		PostedDate:      posted,
	}, nil
}

// cleanList trims entries and drops blanks. Order and duplicates are kept.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = CleanText(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
