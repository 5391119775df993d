package domain

import (
	"fmt"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeFreelance  JobType = "Freelance"
)

type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "Entry-level"
	ExperienceMid       ExperienceLevel = "Mid-level"
	ExperienceSenior    ExperienceLevel = "Senior"
	ExperienceLead      ExperienceLevel = "Lead"
	ExperienceExecutive ExperienceLevel = "Executive"
)

type RemoteMode string

const (
	RemoteModeRemote RemoteMode = "Remote"
	RemoteModeHybrid RemoteMode = "Hybrid"
	RemoteModeOnsite RemoteMode = "On-site"
)

// DateLayout is the calendar-date format used for PostedDate in files and storage.
const DateLayout = "2006-01-02"

// JobRecord is one posting in the catalog. Records are treated as read-only
// once loaded.
type JobRecord struct {
	ID              string          `json:"id" yaml:"id"`
	Title           string          `json:"title" yaml:"title"`
	Company         string          `json:"company" yaml:"company"`
	Location        string          `json:"location" yaml:"location"`
	Type            JobType         `json:"type" yaml:"type"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel" yaml:"experience"`
	RemoteMode      RemoteMode      `json:"remoteMode" yaml:"remote"`
	SalaryRange     string          `json:"salaryRange" yaml:"salary"`
	Description     string          `json:"description" yaml:"description"`
	RequiredSkills  []string        `json:"requiredSkills" yaml:"requirements"`
	Benefits        []string        `json:"benefits,omitempty" yaml:"benefits"`
	PostedDate      time.Time       `json:"postedDate" yaml:"-"`
}

// DistinctSkills returns RequiredSkills with duplicates removed, first
// occurrence order kept.
func (j JobRecord) DistinctSkills() []string {
	seen := make(map[string]bool, len(j.RequiredSkills))
	out := make([]string, 0, len(j.RequiredSkills))
	for _, s := range j.RequiredSkills {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func ParseJobType(s string) (JobType, error) {
	t := JobType(s)
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance:
		return t, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	l := ExperienceLevel(s)
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLead, ExperienceExecutive:
		return l, nil
	}
	return "", fmt.Errorf("unknown experience level %q", s)
}

func ParseRemoteMode(s string) (RemoteMode, error) {
	m := RemoteMode(s)
	switch m {
	case RemoteModeRemote, RemoteModeHybrid, RemoteModeOnsite:
		return m, nil
	}
	return "", fmt.Errorf("unknown remote mode %q", s)
}

// PostedAgo renders the listing age the way the job list shows it.
func PostedAgo(posted, now time.Time) string {
	if posted.IsZero() {
		return ""
	}
	p := time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	days := int(n.Sub(p).Hours() / 24)
	if days < 0 {
		days = -days
	}
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days <= 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return posted.Format(DateLayout)
	}
}
