package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if spec := strings.TrimSpace(cfg.Catalog.RefreshCron); spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			errs = append(errs, fmt.Sprintf("catalog.refresh_cron %q: %v", spec, err))
		}
	}
	if cfg.Postgres.Enabled && strings.TrimSpace(cfg.Postgres.URL) == "" {
		errs = append(errs, "postgres.url is required when postgres.enabled=true")
	}
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.URL) == "" {
		errs = append(errs, "redis.url is required when redis.enabled=true")
	}
	if cfg.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, "rate_limit.requests_per_second must be >= 0")
	}
	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst < 1 {
		errs = append(errs, "rate_limit.burst must be >= 1 when rate limiting is on")
	}

	for i, t := range cfg.Scoring.Tiers {
		if strings.TrimSpace(t.Label) == "" {
			errs = append(errs, fmt.Sprintf("scoring.tiers[%d].label is required", i))
		}
		if t.MinScore < 0 || t.MinScore > 100 {
			errs = append(errs, fmt.Sprintf("scoring.tiers[%d].min_score must be 0..100", i))
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n- ")
}
