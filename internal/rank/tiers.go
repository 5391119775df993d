package rank

import (
	"sort"

	"jobmatch-engine/internal/config"
)

// Tiers maps a score to its display label. Checked highest threshold first.
type Tiers struct {
	tiers    []config.Tier
	fallback string
}

var DefaultTiers = []config.Tier{
	{Label: "Excellent Match", MinScore: 90},
	{Label: "Great Match", MinScore: 80},
	{Label: "Good Match", MinScore: 70},
	{Label: "Fair Match", MinScore: 0},
}

func NewTiers(in []config.Tier) Tiers {
	if len(in) == 0 {
		in = DefaultTiers
	}
	ts := make([]config.Tier, len(in))
	copy(ts, in)
	sort.SliceStable(ts, func(a, b int) bool { return ts[a].MinScore > ts[b].MinScore })

	return Tiers{tiers: ts, fallback: ts[len(ts)-1].Label}
}

func (t Tiers) Label(score int) string {
	for _, tier := range t.tiers {
		if score >= tier.MinScore {
			return tier.Label
		}
	}
	return t.fallback
}

// Apply fills Label on every result in place.
func (t Tiers) Apply(results []MatchResult) {
	for i := range results {
		results[i].Label = t.Label(results[i].Score)
	}
}
