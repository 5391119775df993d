package domain

import "fmt"

type RemotePreference string

const (
	RemotePrefRemote   RemotePreference = "remote"
	RemotePrefHybrid   RemotePreference = "hybrid"
	RemotePrefOnsite   RemotePreference = "onsite"
	RemotePrefFlexible RemotePreference = "flexible"
)

// UserProfile is the read-only view of a user's profile the engine needs.
// A nil *UserProfile means anonymous or incomplete-profile browsing.
type UserProfile struct {
	UserID           string           `json:"userId"`
	Skills           []string         `json:"skills"`
	RemotePreference RemotePreference `json:"remotePreference,omitempty"` // empty = not stated
}

// SkillSet returns the profile skills as a set. Names are compared exactly.
func (p *UserProfile) SkillSet() map[string]struct{} {
	if p == nil {
		return map[string]struct{}{}
	}
	set := make(map[string]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		set[s] = struct{}{}
	}
	return set
}

// ParseRemotePreference accepts the stored values; "" means not stated.
func ParseRemotePreference(s string) (RemotePreference, error) {
	p := RemotePreference(s)
	switch p {
	case "", RemotePrefRemote, RemotePrefHybrid, RemotePrefOnsite, RemotePrefFlexible:
		return p, nil
	}
	return "", fmt.Errorf("unknown remote preference %q", s)
}

// Accepts reports whether a job's remote mode fits the preference.
// Flexible and unstated preferences accept every mode.
func (p RemotePreference) Accepts(m RemoteMode) bool {
	switch p {
	case RemotePrefRemote:
		return m == RemoteModeRemote
	case RemotePrefHybrid:
		return m == RemoteModeHybrid
	case RemotePrefOnsite:
		return m == RemoteModeOnsite
	default:
		return true
	}
}
