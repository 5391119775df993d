package httpapi

import (
	"net/http"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/events"
)

type ProfilesHandler struct {
	Profiles ProfileStore
	Hub      *events.Hub
}

type profileBody struct {
	Skills           []string `json:"skills"`
	RemotePreference string   `json:"remotePreference"`
}

func profileID(r *http.Request) string {
	return strings.Trim(strings.TrimPrefix(r.URL.Path, "/profiles/"), "/")
}

func (h ProfilesHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "missing user id")
		return
	}
	p, err := h.Profiles.Profile(r.Context(), id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "profile_failed", err.Error())
		return
	}
	if p == nil {
		WriteError(w, r, http.StatusNotFound, "not_found", "no profile for "+id)
		return
	}
	writeJSON(w, p)
}

func (h ProfilesHandler) PutByPath(w http.ResponseWriter, r *http.Request) {
	id := profileID(r)
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "missing user id")
		return
	}
	var body profileBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	pref, err := domain.ParseRemotePreference(strings.TrimSpace(body.RemotePreference))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_profile", err.Error())
		return
	}

	skills := make([]string, 0, len(body.Skills))
	for _, s := range body.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	p := domain.UserProfile{UserID: id, Skills: skills, RemotePreference: pref}
	if err := h.Profiles.SaveProfile(r.Context(), p); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "profile_failed", err.Error())
		return
	}

	if h.Hub != nil {
		h.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), events.EventProfileUpdated, 1, map[string]any{"user_id": id}))
	}
	writeJSON(w, p)
}
