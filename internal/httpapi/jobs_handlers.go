package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/rank"
	"jobmatch-engine/internal/search"
)

// UserIDHeader names the profile a request is scored against. Requests
// without it browse anonymously.
const UserIDHeader = "X-User-ID"

type JobsHandler struct {
	Engine *search.Engine
	Now    func() time.Time // nil: time.Now
}

type resultView struct {
	rank.MatchResult
	PostedAgo string `json:"postedAgo,omitempty"`
}

type listResponse struct {
	Count    int                   `json:"count"`
	Query    string                `json:"query"`
	Criteria search.FilterCriteria `json:"criteria"`
	Results  []resultView          `json:"results"`
}

func (h JobsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h JobsHandler) view(r rank.MatchResult) resultView {
	return resultView{MatchResult: r, PostedAgo: domain.PostedAgo(r.Job.PostedDate, h.now())}
}

func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(UserIDHeader))
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria := search.ParseValues(r.URL.Query())

	res, err := h.Engine.Search(r.Context(), userID(r), criteria)
	if err != nil {
		log.Printf("level=error msg=\"search\" request_id=%s err=%v", RequestIDFrom(r.Context()), err)
		WriteError(w, r, http.StatusInternalServerError, "search_failed", err.Error())
		return
	}

	out := listResponse{
		Count:    res.Count,
		Query:    res.Query,
		Criteria: res.Criteria,
		Results:  make([]resultView, 0, len(res.Results)),
	}
	for _, m := range res.Results {
		out.Results = append(out.Results, h.view(m))
	}
	writeJSON(w, out)
}

func (h JobsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	res, err := h.Engine.Job(r.Context(), userID(r), id)
	if errors.Is(err, search.ErrJobNotFound) {
		WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "search_failed", err.Error())
		return
	}
	writeJSON(w, h.view(res))
}
