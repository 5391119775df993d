package httpapi

import (
	"net"
	"net/http"

	"jobmatch-engine/internal/store"
)

type DBHandler struct {
	DB *store.DB
}

// Checkpoint flushes the SQLite WAL. Loopback callers only.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "127.0.0.1" && host != "::1" && host != "localhost" {
		WriteError(w, r, http.StatusForbidden, "forbidden", "forbidden")
		return
	}
	if h.DB == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "no_database", "no local database")
		return
	}

	if err := h.DB.Checkpoint(r.Context()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "checkpoint_failed", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
