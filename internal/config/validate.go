package config

import (
	"fmt"
	"sort"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus the findings.
// Hard errors come from Validate; warnings flag settings that are legal but
// probably unintended.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Catalog.File = strings.TrimSpace(out.Catalog.File)
	out.Catalog.RefreshCron = strings.TrimSpace(out.Catalog.RefreshCron)
	out.Postgres.URL = strings.TrimSpace(out.Postgres.URL)
	out.Redis.URL = strings.TrimSpace(out.Redis.URL)

	// Tiers: trim labels, drop blanks, highest threshold first.
	var tiers []Tier
	for _, t := range out.Scoring.Tiers {
		t.Label = strings.TrimSpace(t.Label)
		if t.Label == "" {
			continue
		}
		tiers = append(tiers, t)
	}
	sort.SliceStable(tiers, func(a, b int) bool { return tiers[a].MinScore > tiers[b].MinScore })
	out.Scoring.Tiers = tiers

	if err := Validate(out); err != nil {
		msg := strings.TrimPrefix(err.Error(), "config validation failed:\n- ")
		for _, line := range strings.Split(msg, "\n- ") {
			res.addErr("%s", line)
		}
	}

	// ---- Warnings ----

	if out.Catalog.File == "" && !out.Postgres.Enabled && !out.Catalog.SeedStore {
		res.addWarn("no catalog.file, no postgres and seed_store=false; the catalog may be empty.")
	}
	if out.Catalog.RefreshCron == "" {
		res.addWarn("catalog.refresh_cron is empty; the catalog only loads at startup and on POST /catalog/refresh.")
	}
	if len(tiers) > 0 && tiers[len(tiers)-1].MinScore > 0 {
		res.addWarn("lowest scoring tier starts at %d; lower scores reuse its label %q.", tiers[len(tiers)-1].MinScore, tiers[len(tiers)-1].Label)
	}
	seen := map[int]bool{}
	for _, t := range tiers {
		if seen[t.MinScore] {
			res.addWarn("more than one tier uses min_score %d; only the first is reachable.", t.MinScore)
		}
		seen[t.MinScore] = true
	}
	if out.RateLimit.RequestsPerSecond == 0 {
		res.addWarn("rate_limit.requests_per_second is 0; API rate limiting is off.")
	}

	return out, res
}
