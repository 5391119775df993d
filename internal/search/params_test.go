package search_test

import (
	"net/url"
	"testing"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/search"
)

func equalMaps(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// ── Parse ──────────────────────────────────────────────────────────────────

func TestParse_RecognizedKeys(t *testing.T) {
	got := search.Parse(map[string]string{
		"q": "go", "location": "NY", "type": "Contract",
		"experience": "Senior", "remote": "Hybrid",
	})
	want := search.FilterCriteria{
		Query: "go", Location: "NY", Type: domain.JobTypeContract,
		ExperienceLevel: domain.ExperienceSenior, RemoteMode: domain.RemoteModeHybrid,
	}
	if got != want {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestParse_IgnoresUnknownKeys(t *testing.T) {
	got := search.Parse(map[string]string{"page": "2", "sort": "date"})
	if !got.IsEmpty() {
		t.Errorf("Parse(unknown keys) = %+v, want empty", got)
	}
}

func TestParseValues_FirstValueWins(t *testing.T) {
	v := url.Values{"q": {"first", "second"}, "remote": {"Remote"}}
	got := search.ParseValues(v)
	if got.Query != "first" || got.RemoteMode != domain.RemoteModeRemote {
		t.Errorf("ParseValues = %+v", got)
	}
}

// ── ToParams ───────────────────────────────────────────────────────────────

func TestToParams_OmitsEmpty(t *testing.T) {
	got := search.ToParams(search.FilterCriteria{Query: "", Location: "NY"})
	want := map[string]string{"location": "NY"}
	if !equalMaps(got, want) {
		t.Errorf("ToParams = %v, want %v", got, want)
	}
}

func TestToParams_EmptyCriteria(t *testing.T) {
	if got := search.ToParams(search.FilterCriteria{}); len(got) != 0 {
		t.Errorf("ToParams(empty) = %v, want no keys", got)
	}
}

// ── Round trips ────────────────────────────────────────────────────────────

func TestRoundTrip_Criteria(t *testing.T) {
	cases := []search.FilterCriteria{
		{},
		{Query: "frontend"},
		{Location: "NY"},
		{Query: "a b", Location: "San Francisco, CA", Type: domain.JobTypeInternship},
		{ExperienceLevel: domain.ExperienceLead, RemoteMode: domain.RemoteModeOnsite},
		{Type: "Unknown"},
	}
	for _, c := range cases {
		if got := search.Parse(search.ToParams(c)); got != c {
			t.Errorf("Parse(ToParams(%+v)) = %+v", c, got)
		}
	}
}

func TestRoundTrip_RawParams(t *testing.T) {
	cases := []map[string]string{
		{},
		{"q": "", "location": "NY"},
		{"q": "go", "extra": "1"},
		{"type": "Full-time", "experience": "", "remote": "Remote"},
	}
	for _, p := range cases {
		once := search.Parse(p)
		if twice := search.Parse(search.ToParams(once)); twice != once {
			t.Errorf("Parse(ToParams(Parse(%v))) = %+v, want %+v", p, twice, once)
		}
	}
}

func TestEncode_Canonical(t *testing.T) {
	c := search.FilterCriteria{RemoteMode: domain.RemoteModeRemote, Query: "go dev", Location: "NY"}
	if got, want := search.Encode(c), "location=NY&q=go+dev&remote=Remote"; got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

// ── Navigation helpers ─────────────────────────────────────────────────────

func TestFreshSearchParams_ResetsStructuredFilters(t *testing.T) {
	current := map[string]string{
		"q": "old", "type": "Contract", "experience": "Senior",
		"remote": "Remote", "page": "3",
	}
	got := search.FreshSearchParams(current, "  react  ", "")
	want := map[string]string{"q": "react", "page": "3"}
	if !equalMaps(got, want) {
		t.Errorf("FreshSearchParams = %v, want %v", got, want)
	}
	if current["type"] != "Contract" {
		t.Error("FreshSearchParams modified its input")
	}
}

func TestFreshSearchParams_BlankQueryRemovesKey(t *testing.T) {
	got := search.FreshSearchParams(map[string]string{"q": "x", "location": "NY"}, " ", " Austin ")
	want := map[string]string{"location": "Austin"}
	if !equalMaps(got, want) {
		t.Errorf("FreshSearchParams = %v, want %v", got, want)
	}
}

func TestParse_DoesNotResetFilters(t *testing.T) {
	c := search.Parse(map[string]string{"q": "new", "type": "Contract"})
	if c.Type != domain.JobTypeContract {
		t.Error("Parse should keep structured filters alongside q")
	}
}

func TestWithFilter(t *testing.T) {
	cur := map[string]string{"q": "go"}
	got := search.WithFilter(cur, "remote", "Hybrid")
	if !equalMaps(got, map[string]string{"q": "go", "remote": "Hybrid"}) {
		t.Errorf("WithFilter(set) = %v", got)
	}
	got = search.WithFilter(got, "remote", "")
	if !equalMaps(got, map[string]string{"q": "go"}) {
		t.Errorf("WithFilter(clear) = %v", got)
	}
}

func TestClearFilters_KeepsTextSearch(t *testing.T) {
	got := search.ClearFilters(map[string]string{
		"q": "go", "location": "NY", "type": "Contract", "experience": "Lead", "remote": "Remote",
	})
	if !equalMaps(got, map[string]string{"q": "go", "location": "NY"}) {
		t.Errorf("ClearFilters = %v", got)
	}
}
