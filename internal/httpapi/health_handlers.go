package httpapi

import (
	"net/http"

	"jobmatch-engine/internal/catalog"
)

type HealthHandler struct {
	Refresher *catalog.Refresher
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"ok": true}
	if h.Refresher != nil && h.Refresher.Snapshot != nil {
		out["jobs"] = h.Refresher.Snapshot.Len()
		out["catalog_version"] = h.Refresher.Snapshot.Version()
	}
	writeJSON(w, out)
}
