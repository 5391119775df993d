package search

import (
	"net/url"
	"strings"

	"jobmatch-engine/internal/domain"
)

// Query parameter keys understood by the job listing.
const (
	ParamQuery      = "q"
	ParamLocation   = "location"
	ParamType       = "type"
	ParamExperience = "experience"
	ParamRemote     = "remote"
)

// structuredKeys are the sidebar filters reset by a fresh search.
var structuredKeys = []string{ParamType, ParamExperience, ParamRemote}

// Parse maps raw request parameters to criteria. Unknown keys are ignored and
// empty values mean no constraint.
func Parse(raw map[string]string) FilterCriteria {
	return FilterCriteria{
		Query:           raw[ParamQuery],
		Location:        raw[ParamLocation],
		Type:            domain.JobType(raw[ParamType]),
		ExperienceLevel: domain.ExperienceLevel(raw[ParamExperience]),
		RemoteMode:      domain.RemoteMode(raw[ParamRemote]),
	}
}

// ParseValues is Parse over a URL query; the first value of each key wins.
func ParseValues(v url.Values) FilterCriteria {
	return Parse(Flatten(v))
}

// Flatten keeps the first value of every key.
func Flatten(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}

// ToParams is the inverse of Parse. Empty fields are omitted.
func ToParams(c FilterCriteria) map[string]string {
	out := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set(ParamQuery, c.Query)
	set(ParamLocation, c.Location)
	set(ParamType, string(c.Type))
	set(ParamExperience, string(c.ExperienceLevel))
	set(ParamRemote, string(c.RemoteMode))
	return out
}

// Encode renders criteria as a canonical query string (keys sorted).
func Encode(c FilterCriteria) string {
	return EncodeParams(ToParams(c))
}

func EncodeParams(p map[string]string) string {
	v := url.Values{}
	for k, val := range p {
		v.Set(k, val)
	}
	return v.Encode()
}

// FreshSearchParams builds the navigation parameters for a new free-text
// search: q and location are trimmed and set (or removed when blank), the
// structured filters are cleared, and any other keys are carried over.
func FreshSearchParams(current map[string]string, query, location string) map[string]string {
	out := clone(current)
	setOrDelete(out, ParamQuery, strings.TrimSpace(query))
	setOrDelete(out, ParamLocation, strings.TrimSpace(location))
	for _, k := range structuredKeys {
		delete(out, k)
	}
	return out
}

// WithFilter sets one parameter, or removes it when value is empty.
func WithFilter(current map[string]string, key, value string) map[string]string {
	out := clone(current)
	setOrDelete(out, key, value)
	return out
}

// ClearFilters drops the structured filters and keeps the text search.
func ClearFilters(current map[string]string) map[string]string {
	out := clone(current)
	for _, k := range structuredKeys {
		delete(out, k)
	}
	return out
}

func setOrDelete(m map[string]string, k, v string) {
	if v == "" {
		delete(m, k)
		return
	}
	m[k] = v
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
