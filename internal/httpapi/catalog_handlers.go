package httpapi

import (
	"context"
	"net/http"
	"time"

	"jobmatch-engine/internal/catalog"
)

type CatalogHandler struct {
	Refresher *catalog.Refresher
}

func (h CatalogHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Refresher.Status())
}

// Refresh starts a reload in the background. With ?wait=true it runs inline
// and answers with the resulting status.
func (h CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.Refresher.Status().Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		st, err := h.Refresher.RefreshOnce(r.Context())
		if err != nil {
			WriteError(w, r, http.StatusBadGateway, "refresh_failed", err.Error())
			return
		}
		writeJSON(w, map[string]any{"ok": true, "status": st})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_, _ = h.Refresher.RefreshOnce(ctx)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
