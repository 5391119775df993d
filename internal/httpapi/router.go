package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Jobs
	jh := JobsHandler{Engine: d.Engine}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.GetByPath, // expects /jobs/{id}
	}))

	// Search navigation
	nh := SearchHandler{}
	mux.HandleFunc("/search/fresh", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: nh.Fresh,
	}))
	mux.HandleFunc("/search/filter", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: nh.Filter,
	}))
	mux.HandleFunc("/search/clear", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: nh.Clear,
	}))

	// Profiles
	ph := ProfilesHandler{Profiles: d.Profiles, Hub: d.Hub}
	mux.HandleFunc("/profiles/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.GetByPath,
		http.MethodPut: ph.PutByPath,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		OnConfig:    d.OnConfig,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/postgres", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sh.SetPostgresPassword,
		http.MethodDelete: sh.DeletePostgresPassword,
	}))

	// Catalog
	cat := CatalogHandler{Refresher: d.Refresher}
	mux.HandleFunc("/catalog/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cat.Status,
	}))
	mux.HandleFunc("/catalog/refresh", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: cat.Refresh,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// DB
	dh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	hh := HealthHandler{Refresher: d.Refresher}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}

// Handler wraps the mux in the standard middleware chain.
func Handler(mux http.Handler, lim *ClientLimiter) http.Handler {
	return Chain(mux, RequestID, AccessLog, Recover, RateLimit(lim), Cors)
}
