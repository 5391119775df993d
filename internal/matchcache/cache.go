// Package matchcache caches match scores per (catalog version, profile skills, job).
//
// Keys embed the catalog content version and a fingerprint of the profile's
// skill set, so editing a profile or changing the catalog simply produces new
// keys; stale entries age out through the TTL.
package matchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"jobmatch-engine/internal/domain"
)

const keyPrefix = "jobmatch:score:"

// Cache failures must degrade to a miss; callers then recompute.
type Cache interface {
	Get(ctx context.Context, key string) (score int, ok bool)
	Set(ctx context.Context, key string, score int)
}

func Key(catalogVersion string, p *domain.UserProfile, jobID string) string {
	return keyPrefix + catalogVersion + ":" + Fingerprint(p) + ":" + jobID
}

// Fingerprint identifies the skill set that drives scoring; order and
// duplicates do not matter.
func Fingerprint(p *domain.UserProfile) string {
	if p == nil || len(p.Skills) == 0 {
		return "anon"
	}
	set := p.SkillSet()
	skills := make([]string, 0, len(set))
	for s := range set {
		skills = append(skills, s)
	}
	sort.Strings(skills)

	h := sha256.Sum256([]byte(strings.Join(skills, "\x00")))
	return hex.EncodeToString(h[:12])
}
