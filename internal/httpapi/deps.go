package httpapi

import (
	"context"
	"sync/atomic"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/search"
	"jobmatch-engine/internal/store"
)

// ProfileStore reads and writes user profiles (SQLite or Postgres).
type ProfileStore interface {
	search.ProfileProvider
	SaveProfile(ctx context.Context, p domain.UserProfile) error
}

type Deps struct {
	Engine   *search.Engine
	Profiles ProfileStore
	DB       *store.DB

	Hub *events.Hub

	Refresher *catalog.Refresher

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	// OnConfig runs after a saved config is reloaded.
	OnConfig func(config.Config)
}
