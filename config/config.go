package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	State   StateConfig   `yaml:"state"`
	Listing ListingConfig `yaml:"listing"`
}

// ServerConfig holds the view-layer HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// BackendConfig points at the storefront REST backend.
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// StateConfig holds the client-state database configuration.
type StateConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// ListingConfig tunes the filter controllers.
type ListingConfig struct {
	PageSize               int           `yaml:"page_size"`
	DebounceMillis         int           `yaml:"debounce_ms"`
	CategoryDebounceMillis int           `yaml:"category_debounce_ms"`
	Debounce               time.Duration `yaml:"-"`
	CategoryDebounce       time.Duration `yaml:"-"`
}

// Load reads the configuration from the given path and applies defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration usable without a config file; the backend
// base URL still has to come from the environment or flags.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = os.Getenv("BACKEND_BASE_URL")
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8080"
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 30
	}
	cfg.Backend.Timeout = time.Duration(cfg.Backend.TimeoutSeconds) * time.Second

	if cfg.State.Driver == "" {
		cfg.State.Driver = "sqlite"
	}
	if cfg.State.DSN == "" {
		cfg.State.DSN = "vitrine-state.db"
	}

	if cfg.Listing.PageSize <= 0 {
		cfg.Listing.PageSize = 10
	}
	if cfg.Listing.DebounceMillis <= 0 {
		cfg.Listing.DebounceMillis = 300
	}
	if cfg.Listing.CategoryDebounceMillis <= 0 {
		cfg.Listing.CategoryDebounceMillis = 500
	}
	cfg.Listing.Debounce = time.Duration(cfg.Listing.DebounceMillis) * time.Millisecond
	cfg.Listing.CategoryDebounce = time.Duration(cfg.Listing.CategoryDebounceMillis) * time.Millisecond
}
