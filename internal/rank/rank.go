package rank

import (
	"sort"

	"jobmatch-engine/internal/domain"
)

type MatchResult struct {
	Job           domain.JobRecord `json:"job"`
	Score         int              `json:"score"`
	Label         string           `json:"label,omitempty"`
	MatchedSkills []string         `json:"matchedSkills"`
	MissingSkills []string         `json:"missingSkills"`
	RemoteFit     bool             `json:"remoteFit"`
}

// NewResult builds the derived view of one job for one profile.
func NewResult(profile *domain.UserProfile, job domain.JobRecord, score int) MatchResult {
	matched, missing := SplitSkills(profile, job)
	fit := true
	if profile != nil {
		fit = profile.RemotePreference.Accepts(job.RemoteMode)
	}
	return MatchResult{
		Job:           job,
		Score:         score,
		MatchedSkills: matched,
		MissingSkills: missing,
		RemoteFit:     fit,
	}
}

// ScoreAll scores jobs in input order.
func ScoreAll(s Scorer, profile *domain.UserProfile, jobs []domain.JobRecord) []MatchResult {
	out := make([]MatchResult, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewResult(profile, j, s.Score(profile, j)))
	}
	return out
}

// Rank orders by score descending. Equal scores keep their input order.
func Rank(scored []MatchResult) []MatchResult {
	out := make([]MatchResult, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out
}
