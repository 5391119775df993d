package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/httpapi"
	"jobmatch-engine/internal/matchcache"
	"jobmatch-engine/internal/rank"
	"jobmatch-engine/internal/scheduler"
	"jobmatch-engine/internal/search"
	"jobmatch-engine/internal/secrets"
	"jobmatch-engine/internal/store"
)

func main() {
	// .env is optional; real environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[env] .env not loaded: %v", err)
	}

	dataDir := os.Getenv("JOBMATCH_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}
	unlock, err := lockDataDir(dataDir)
	if err != nil {
		log.Fatal(err)
	}
	defer unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		if err := config.OverlayEnv(&cfg); err != nil {
			return cfg, err
		}
		cfg, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		if !vr.OK() {
			return cfg, fmt.Errorf("invalid config: %v", vr.Errors)
		}
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := filepath.Join(dataDir, "jobmatch.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	hub := events.NewHub()

	// ---- Catalog sources and profiles ----

	var (
		sources  []catalog.Source
		profiles httpapi.ProfileStore = store.Profiles{DB: db.Pool}
		pool     *pgxpool.Pool
	)
	if cfg.Postgres.Enabled {
		pool, err = openPostgres(ctx, cfg)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		sources = append(sources, catalog.PostgresSource{Pool: pool})
		profiles = catalog.PostgresProfiles{Pool: pool}
	}
	switch {
	case cfg.Catalog.SeedStore:
		if cfg.Catalog.File != "" {
			seedStore(ctx, db, cfg.Catalog.File)
		}
		sources = append(sources, store.CatalogSource{DB: db.Pool})
	case cfg.Catalog.File != "":
		sources = append(sources, catalog.FileSource{Path: cfg.Catalog.File})
	}

	snapshot := catalog.NewSnapshot()
	refresher := &catalog.Refresher{
		Sources:  sources,
		Snapshot: snapshot,
		Timeout:  cfg.SourceTimeout(),
		OnRefresh: func(st catalog.Status) {
			hub.Publish(events.MakeEvent("", events.EventCatalogRefreshed, 1, map[string]any{
				"count":   st.LastCount,
				"version": st.Version,
			}))
		},
	}
	if _, err := refresher.RefreshOnce(ctx); err != nil {
		log.Printf("[catalog] starting with an empty catalog: %v", err)
	}

	// ---- Score cache ----

	var (
		cache matchcache.Cache
		mem   *matchcache.Memory
		rdb   *redis.Client
	)
	if cfg.Redis.Enabled {
		rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err = matchcache.NewRedisClient(rctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		cache = matchcache.NewRedis(rdb, cfg.RedisTTL())
	} else {
		mem = matchcache.NewMemory(cfg.CacheTTL())
		cache = mem
	}

	engine := &search.Engine{
		Catalog:  snapshot,
		Profiles: profiles,
		Tiers:    rank.NewTiers(cfg.Scoring.Tiers),
		Cache:    cache,
	}

	// ---- Background work ----

	sched := scheduler.New()
	if spec := cfg.Catalog.RefreshCron; spec != "" {
		if err := sched.Add(spec, "catalog", func(ctx context.Context) error {
			_, err := refresher.RefreshOnce(ctx)
			return err
		}); err != nil {
			log.Fatal(err)
		}
	}
	if mem != nil {
		if err := sched.Add("@every 5m", "cache", func(context.Context) error {
			if n := mem.Purge(); n > 0 {
				log.Printf("[cache] purged=%d live=%d", n, mem.Len())
			}
			return nil
		}); err != nil {
			log.Fatal(err)
		}
	}
	sched.Start(ctx)

	// ---- HTTP ----

	limiter := httpapi.NewClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	mux := httpapi.NewMux(httpapi.Deps{
		Engine:      engine,
		Profiles:    profiles,
		DB:          db,
		Hub:         hub,
		Refresher:   refresher,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		OnConfig: func(c config.Config) {
			engine.SetTiers(rank.NewTiers(c.Scoring.Tiers))
			limiter.SetLimit(c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
			log.Printf("[config] reloaded; catalog sources and backends apply on restart")
		},
	})

	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
	}

	token := os.Getenv("JOBMATCH_SHUTDOWN_TOKEN")
	if token == "" {
		if token, err = randomToken(16); err != nil {
			log.Fatal(err)
		}
		log.Printf("[engine] shutdown token: %s", token)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))
	srv.Handler = httpapi.Handler(mux, limiter)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s jobs=%d)", addr, dbPath, snapshot.Len())

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[engine] serve: %v", err)
		}
	}
	sched.Stop()
	log.Printf("[engine] stopped")
}

func openPostgres(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	password, err := secrets.GetPostgresPassword(cfg.Postgres.KeyringAccount)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		log.Printf("[secrets] keychain unavailable, using url credentials: %v", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return catalog.NewPostgresPool(pctx, cfg.Postgres.URL, password)
}

func seedStore(ctx context.Context, db *store.DB, path string) {
	jobs, err := catalog.FileSource{Path: path}.Load(ctx)
	if err != nil {
		log.Printf("[seed] %s: %v", path, err)
		return
	}
	n, err := store.SeedIfEmpty(ctx, db.Pool, jobs)
	if err != nil {
		log.Printf("[seed] error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[seed] added=%d from %s", n, path)
	}
}
