package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/httpapi"
	"jobmatch-engine/internal/rank"
	"jobmatch-engine/internal/search"
	"jobmatch-engine/internal/store"
)

type memProfiles struct {
	mu sync.Mutex
	m  map[string]domain.UserProfile
}

func (p *memProfiles) Profile(_ context.Context, id string) (*domain.UserProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.m[id]; ok {
		return &v, nil
	}
	return nil, nil
}

func (p *memProfiles) SaveProfile(_ context.Context, prof domain.UserProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[prof.UserID] = prof
	return nil
}

func testJobs() []domain.JobRecord {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return []domain.JobRecord{
		{
			ID: "1", Title: "Senior Software Engineer", Company: "TechCorp Inc.",
			Location: "San Francisco, CA", Type: domain.JobTypeFullTime,
			ExperienceLevel: domain.ExperienceSenior, RemoteMode: domain.RemoteModeHybrid,
			RequiredSkills: []string{"React", "Node.js", "TypeScript", "AWS"},
			PostedDate:     day,
		},
		{
			ID: "2", Title: "Frontend Developer", Company: "StartupXYZ",
			Location: "Remote", Type: domain.JobTypeFullTime,
			ExperienceLevel: domain.ExperienceMid, RemoteMode: domain.RemoteModeRemote,
			RequiredSkills: []string{"React", "Vue.js", "JavaScript", "CSS"},
			PostedDate:     day.AddDate(0, 0, -1),
		},
	}
}

func validConfig() config.Config {
	var c config.Config
	c.App.Port = 38472
	c.Catalog.File = "catalog.yml"
	c.Catalog.RefreshCron = "@every 1h"
	c.RateLimit.RequestsPerSecond = 20
	c.RateLimit.Burst = 40
	return c
}

type fixture struct {
	handler  http.Handler
	hub      *events.Hub
	engine   *search.Engine
	profiles *memProfiles
	cfgPath  string
	applied  atomic.Int32
}

func newFixture(t *testing.T, lim *httpapi.ClientLimiter) *fixture {
	t.Helper()

	snap := catalog.NewSnapshot()
	refresher := &catalog.Refresher{
		Sources:  []catalog.Source{catalog.Static{List: testJobs()}},
		Snapshot: snap,
	}
	if _, err := refresher.RefreshOnce(context.Background()); err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		hub: events.NewHub(),
		profiles: &memProfiles{m: map[string]domain.UserProfile{
			"u1": {UserID: "u1", Skills: []string{"React", "TypeScript"}},
		}},
		cfgPath: filepath.Join(t.TempDir(), "config.yml"),
	}
	f.engine = &search.Engine{Catalog: snap, Profiles: f.profiles, Tiers: rank.NewTiers(nil)}

	if err := config.SaveAtomic(f.cfgPath, validConfig()); err != nil {
		t.Fatal(err)
	}
	var cfgVal atomic.Value
	cfgVal.Store(validConfig())

	db, err := store.Open(filepath.Join(t.TempDir(), "jobmatch.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mux := httpapi.NewMux(httpapi.Deps{
		Engine:      f.engine,
		Profiles:    f.profiles,
		DB:          db,
		Hub:         f.hub,
		Refresher:   refresher,
		CfgVal:      &cfgVal,
		UserCfgPath: f.cfgPath,
		LoadCfg:     func() (config.Config, error) { return config.Load(f.cfgPath) },
		OnConfig:    func(config.Config) { f.applied.Add(1) },
	})
	f.handler = httpapi.Handler(mux, lim)
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

type listBody struct {
	Count   int    `json:"count"`
	Query   string `json:"query"`
	Results []struct {
		Job           domain.JobRecord `json:"job"`
		Score         int              `json:"score"`
		Label         string           `json:"label"`
		MatchedSkills []string         `json:"matchedSkills"`
		PostedAgo     string           `json:"postedAgo"`
	} `json:"results"`
}

// ── Jobs ───────────────────────────────────────────────────────────────────

func TestJobsList_ScoredForUser(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/jobs", "", map[string]string{httpapi.UserIDHeader: "u1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	var body listBody
	decode(t, rec, &body)
	if body.Count != 2 || body.Results[0].Job.ID != "1" || body.Results[0].Score != 50 || body.Results[1].Score != 25 {
		t.Errorf("body = %+v", body)
	}
	if body.Results[0].Label != "Fair Match" || len(body.Results[0].MatchedSkills) != 2 {
		t.Errorf("result 0 = %+v", body.Results[0])
	}
	if body.Results[0].PostedAgo == "" {
		t.Error("postedAgo missing")
	}
}

func TestJobsList_FiltersAndAnonymous(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/jobs?q=FRONTEND&page=3", "", nil)
	var body listBody
	decode(t, rec, &body)
	if body.Count != 1 || body.Results[0].Job.ID != "2" || body.Results[0].Score != 0 {
		t.Errorf("body = %+v", body)
	}
	if body.Query != "q=FRONTEND" {
		t.Errorf("query = %q", body.Query)
	}

	rec = f.do(t, http.MethodGet, "/jobs?type=Gig", "", nil)
	decode(t, rec, &body)
	if rec.Code != http.StatusOK || body.Count != 0 {
		t.Errorf("unknown type: status=%d count=%d", rec.Code, body.Count)
	}
}

func TestJobDetail(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/jobs/2", "", map[string]string{httpapi.UserIDHeader: "u1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var r struct {
		Job   domain.JobRecord `json:"job"`
		Score int              `json:"score"`
	}
	decode(t, rec, &r)
	if r.Job.ID != "2" || r.Score != 25 {
		t.Errorf("detail = %+v", r)
	}

	rec = f.do(t, http.MethodGet, "/jobs/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var apiErr httpapi.APIError
	decode(t, rec, &apiErr)
	if apiErr.Error.Code != "not_found" || apiErr.Error.RequestID == "" {
		t.Errorf("error = %+v", apiErr)
	}
	if rec.Header().Get("X-Request-ID") != apiErr.Error.RequestID {
		t.Error("request id header and body differ")
	}
}

// ── Search navigation ──────────────────────────────────────────────────────

func TestSearchNavigation(t *testing.T) {
	f := newFixture(t, nil)
	type nav struct {
		Params map[string]string `json:"params"`
		Query  string            `json:"query"`
	}

	rec := f.do(t, http.MethodPost, "/search/fresh",
		`{"params":{"q":"old","type":"Contract","page":"2"},"q":"  go dev ","location":""}`, nil)
	var got nav
	decode(t, rec, &got)
	if len(got.Params) != 2 || got.Params["q"] != "go dev" || got.Params["page"] != "2" {
		t.Errorf("fresh params = %v", got.Params)
	}
	if got.Query != "page=2&q=go+dev" {
		t.Errorf("fresh query = %q", got.Query)
	}

	rec = f.do(t, http.MethodPost, "/search/filter", `{"params":{"q":"go"},"key":"remote","value":"Remote"}`, nil)
	decode(t, rec, &got)
	if got.Params["remote"] != "Remote" || got.Params["q"] != "go" {
		t.Errorf("filter params = %v", got.Params)
	}

	rec = f.do(t, http.MethodPost, "/search/clear", `{"params":{"q":"go","remote":"Remote","experience":"Senior"}}`, nil)
	got = nav{}
	decode(t, rec, &got)
	if len(got.Params) != 1 || got.Params["q"] != "go" {
		t.Errorf("clear params = %v", got.Params)
	}

	if rec := f.do(t, http.MethodPost, "/search/filter", `{"key":"q","value":"x"}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("filter on q: status = %d, want 400", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/search/fresh", `{"bogus":1}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: status = %d, want 400", rec.Code)
	}
}

// ── Profiles ───────────────────────────────────────────────────────────────

func TestProfiles_PutGetAndEvent(t *testing.T) {
	f := newFixture(t, nil)
	ch := f.hub.Subscribe()
	defer f.hub.Unsubscribe(ch)

	rec := f.do(t, http.MethodPut, "/profiles/u2", `{"skills":["Docker"," AWS ",""],"remotePreference":"onsite"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d body=%s", rec.Code, rec.Body)
	}
	select {
	case msg := <-ch:
		if !strings.Contains(msg, `"type":"profile_updated"`) {
			t.Errorf("event = %s", msg)
		}
	case <-time.After(time.Second):
		t.Error("no profile_updated event")
	}

	rec = f.do(t, http.MethodGet, "/profiles/u2", "", nil)
	var p domain.UserProfile
	decode(t, rec, &p)
	if len(p.Skills) != 2 || p.Skills[1] != "AWS" || p.RemotePreference != domain.RemotePrefOnsite {
		t.Errorf("profile = %+v", p)
	}

	rec = f.do(t, http.MethodGet, "/jobs", "", map[string]string{httpapi.UserIDHeader: "u2"})
	var body listBody
	decode(t, rec, &body)
	if body.Results[0].Job.ID != "1" || body.Results[0].Score != 25 {
		t.Errorf("after profile update: %+v", body.Results[0])
	}
}

func TestProfiles_Errors(t *testing.T) {
	f := newFixture(t, nil)
	if rec := f.do(t, http.MethodGet, "/profiles/ghost", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing profile: status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, "/profiles/u3", `{"skills":[],"remotePreference":"moon"}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad preference: status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, "/profiles/u1", "", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE: status = %d", rec.Code)
	}
}

// ── Catalog ────────────────────────────────────────────────────────────────

func TestCatalogRefreshAndStatus(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/catalog/refresh?wait=true", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d body=%s", rec.Code, rec.Body)
	}

	rec = f.do(t, http.MethodGet, "/catalog/status", "", nil)
	var st catalog.Status
	decode(t, rec, &st)
	if st.LastCount != 2 || st.Version == "" || st.Running {
		t.Errorf("status = %+v", st)
	}

	rec = f.do(t, http.MethodGet, "/health", "", nil)
	var h map[string]any
	decode(t, rec, &h)
	if h["ok"] != true || h["catalog_version"] != st.Version {
		t.Errorf("health = %v", h)
	}
}

// ── Config ─────────────────────────────────────────────────────────────────

func TestConfigPut(t *testing.T) {
	f := newFixture(t, nil)

	bad := validConfig()
	bad.App.Port = 0
	b, _ := json.Marshal(bad)
	rec := f.do(t, http.MethodPut, "/config", string(b), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid config: status = %d", rec.Code)
	}
	var vr config.Validation
	decode(t, rec, &vr)
	if len(vr.Errors) == 0 {
		t.Error("expected validation errors")
	}

	good := validConfig()
	good.Scoring.Tiers = []config.Tier{{Label: "Top", MinScore: 50}, {Label: "Rest"}}
	b, _ = json.Marshal(good)
	rec = f.do(t, http.MethodPut, "/config", string(b), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid config: status = %d body=%s", rec.Code, rec.Body)
	}
	if f.applied.Load() != 1 {
		t.Errorf("OnConfig calls = %d, want 1", f.applied.Load())
	}
	saved, err := config.Load(f.cfgPath)
	if err != nil || len(saved.Scoring.Tiers) != 2 {
		t.Errorf("saved = %+v, %v", saved.Scoring, err)
	}

	rec = f.do(t, http.MethodGet, "/config/validate", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("validate status = %d", rec.Code)
	}
}

// ── Middleware and misc ────────────────────────────────────────────────────

func TestRateLimit(t *testing.T) {
	f := newFixture(t, httpapi.NewClientLimiter(0.001, 1))
	if rec := f.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	rec := f.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	var apiErr httpapi.APIError
	decode(t, rec, &apiErr)
	if apiErr.Error.Code != "rate_limited" {
		t.Errorf("error = %+v", apiErr)
	}
}

func TestClientLimiter_SetLimitDisables(t *testing.T) {
	cl := httpapi.NewClientLimiter(0.001, 1)
	if !cl.Allow("a") || cl.Allow("a") {
		t.Fatal("limiter should allow exactly one request")
	}
	cl.SetLimit(0, 0)
	for i := 0; i < 5; i++ {
		if !cl.Allow("a") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}

func TestRequestIDPassthroughAndCors(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/health", "", map[string]string{"X-Request-ID": "abc", "Origin": "http://localhost:3000"})
	if rec.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Error("missing CORS header")
	}
	if rec := f.do(t, http.MethodOptions, "/jobs", "", nil); rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d", rec.Code)
	}
}

func TestCheckpoint_LoopbackOnly(t *testing.T) {
	f := newFixture(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/db/checkpoint", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("remote caller: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/db/checkpoint", nil)
	req.RemoteAddr = "127.0.0.1:50000"
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("loopback caller: status = %d, want 204", rec.Code)
	}
}
