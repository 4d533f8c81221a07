// Package config loads the galeria server configuration from a TOML
// file. Every field has a sensible default so a missing file yields a
// runnable dev setup backed by seed files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Backend names accepted in the [store] section.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Search SearchConfig `toml:"search"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8480".
	Addr string `toml:"addr"`

	// RateLimitPerSecond caps requests per client IP. Zero disables
	// rate limiting.
	RateLimitPerSecond float64 `toml:"rate_limit_per_second"`

	// RateLimitBurst is the per-client burst allowance.
	RateLimitBurst int `toml:"rate_limit_burst"`
}

// StoreConfig selects and configures the record backend.
type StoreConfig struct {
	// Backend is "sqlite" or "file".
	Backend string `toml:"backend"`

	// DataDir holds the sqlite database. Empty uses ~/.galeria/data.
	DataDir string `toml:"data_dir"`

	// SeedDir holds the JSON seed files for the file backend.
	SeedDir string `toml:"seed_dir"`
}

// SearchConfig tunes the discovery aggregator.
type SearchConfig struct {
	// PerSourceLimit caps each source's fetched slice.
	PerSourceLimit int `toml:"per_source_limit"`

	// SiteResultCap truncates the site-wide search result list.
	SiteResultCap int `toml:"site_result_cap"`

	// DirectoryResultCap truncates the artist directory result list.
	DirectoryResultCap int `toml:"directory_result_cap"`

	// SourceTimeoutMillis bounds each source's fetch within a fan-out.
	SourceTimeoutMillis int `toml:"source_timeout_millis"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:               ":8480",
			RateLimitPerSecond: 10,
			RateLimitBurst:     20,
		},
		Store: StoreConfig{
			Backend: BackendFile,
			SeedDir: "seed",
		},
		Search: SearchConfig{
			PerSourceLimit:      2000,
			SiteResultCap:       50,
			DirectoryResultCap:  24,
			SourceTimeoutMillis: 5000,
		},
	}
}

// Load reads the configuration file at path, layering it over the
// defaults. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".galeria", "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// SourceTimeout returns the configured per-source timeout as a duration.
func (c SearchConfig) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutMillis) * time.Millisecond
}
