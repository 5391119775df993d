package rank

import (
	"math"

	"jobmatch-engine/internal/domain"
)

// Scorer computes a 0..100 compatibility score. A nil profile is valid.
type Scorer interface {
	Score(profile *domain.UserProfile, job domain.JobRecord) int
}

// SkillScorer scores by required-skill coverage.
type SkillScorer struct{}

func (SkillScorer) Score(profile *domain.UserProfile, job domain.JobRecord) int {
	return MatchScore(profile, job)
}

// MatchScore is round(100 * |skills ∩ required| / |required|), with required
// treated as a set. Jobs without required skills score 0.
func MatchScore(profile *domain.UserProfile, job domain.JobRecord) int {
	required := job.DistinctSkills()
	if len(required) == 0 {
		return 0
	}
	have := profile.SkillSet()

	hits := 0
	for _, s := range required {
		if _, ok := have[s]; ok {
			hits++
		}
	}
	return clamp(int(math.Round(100 * float64(hits) / float64(len(required)))))
}

// SplitSkills partitions the job's distinct required skills into the ones the
// profile holds and the ones it lacks, both in job order.
func SplitSkills(profile *domain.UserProfile, job domain.JobRecord) (matched, missing []string) {
	have := profile.SkillSet()
	for _, s := range job.DistinctSkills() {
		if _, ok := have[s]; ok {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	return matched, missing
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
