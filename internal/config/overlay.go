// internal/config/overlay.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OverlayEnv applies environment overrides on top of the YAML file.
// A set DATABASE_URL or REDIS_URL also enables the matching backend.
func OverlayEnv(cfg *Config) error {
	if s := strings.TrimSpace(os.Getenv("JOBMATCH_PORT")); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("JOBMATCH_PORT must be an integer, got %q", s)
		}
		cfg.App.Port = p
	}
	if s := strings.TrimSpace(os.Getenv("DATABASE_URL")); s != "" {
		cfg.Postgres.URL = s
		cfg.Postgres.Enabled = true
	}
	if s := strings.TrimSpace(os.Getenv("REDIS_URL")); s != "" {
		cfg.Redis.URL = s
		cfg.Redis.Enabled = true
	}
	return nil
}
