// internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Tier struct {
	Label    string `yaml:"label" json:"label"`
	MinScore int    `yaml:"min_score" json:"min_score"`
}

type Config struct {
	App struct {
		Port int `yaml:"port" json:"port"`
	} `yaml:"app" json:"app"`

	Catalog struct {
		File          string `yaml:"file" json:"file"`
		RefreshCron   string `yaml:"refresh_cron" json:"refresh_cron"`
		SeedStore     bool   `yaml:"seed_store" json:"seed_store"`
		SourceTimeout int    `yaml:"source_timeout_seconds" json:"source_timeout_seconds"`
	} `yaml:"catalog" json:"catalog"`

	Postgres struct {
		Enabled        bool   `yaml:"enabled" json:"enabled"`
		URL            string `yaml:"url" json:"url"`
		KeyringAccount string `yaml:"keyring_account" json:"keyring_account"`
	} `yaml:"postgres" json:"postgres"`

	Redis struct {
		Enabled    bool   `yaml:"enabled" json:"enabled"`
		URL        string `yaml:"url" json:"url"`
		TTLSeconds int    `yaml:"ttl_seconds" json:"ttl_seconds"`
	} `yaml:"redis" json:"redis"`

	Scoring struct {
		Tiers           []Tier `yaml:"tiers" json:"tiers"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds"`
	} `yaml:"scoring" json:"scoring"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
	} `yaml:"rate_limit" json:"rate_limit"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) SourceTimeout() time.Duration {
	if c.Catalog.SourceTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Catalog.SourceTimeout) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	if c.Scoring.CacheTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Scoring.CacheTTLSeconds) * time.Second
}

func (c Config) RedisTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return c.CacheTTL()
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}
