package httpapi

import (
	"net/http"
	"slices"

	"jobmatch-engine/internal/search"
)

// SearchHandler computes the next listing URL for the search box and the
// filter sidebar. It holds no state: the caller sends its current params.
type SearchHandler struct{}

type navRequest struct {
	Params   map[string]string `json:"params"`
	Query    string            `json:"q"`
	Location string            `json:"location"`
	Key      string            `json:"key"`
	Value    string            `json:"value"`
}

type navResponse struct {
	Params map[string]string `json:"params"`
	Query  string            `json:"query"`
}

var filterKeys = []string{search.ParamType, search.ParamExperience, search.ParamRemote}

func readNav(w http.ResponseWriter, r *http.Request) (navRequest, bool) {
	var req navRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return req, false
	}
	if req.Params == nil {
		req.Params = map[string]string{}
	}
	return req, true
}

func writeNav(w http.ResponseWriter, params map[string]string) {
	writeJSON(w, navResponse{Params: params, Query: search.EncodeParams(params)})
}

func (SearchHandler) Fresh(w http.ResponseWriter, r *http.Request) {
	req, ok := readNav(w, r)
	if !ok {
		return
	}
	writeNav(w, search.FreshSearchParams(req.Params, req.Query, req.Location))
}

func (SearchHandler) Filter(w http.ResponseWriter, r *http.Request) {
	req, ok := readNav(w, r)
	if !ok {
		return
	}
	if !slices.Contains(filterKeys, req.Key) {
		WriteError(w, r, http.StatusBadRequest, "invalid_key", "key must be one of type, experience, remote")
		return
	}
	writeNav(w, search.WithFilter(req.Params, req.Key, req.Value))
}

func (SearchHandler) Clear(w http.ResponseWriter, r *http.Request) {
	req, ok := readNav(w, r)
	if !ok {
		return
	}
	writeNav(w, search.ClearFilters(req.Params))
}
