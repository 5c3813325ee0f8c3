// Package config provides configuration management for lanpresence.
//
// Config file locations (priority order):
//  1. $LANPRESENCE_CONFIG
//  2. ./lanpresence.yaml
//  3. $XDG_CONFIG_HOME/lanpresence/config.yaml
//  4. ~/.config/lanpresence/config.yaml
//  5. /etc/lanpresence/config.yaml
//
// OpenShift-style environment variables are applied on
// top of the file (see ApplyEnv).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lanpresence/internal/domain"
	"lanpresence/internal/logger"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
			TrustProxy:   true,
		},
		Store: StoreConfig{
			Backend: BackendRedis,
			Redis: RedisConfig{
				Addr:         "localhost:6379",
				DialTimeout:  Duration(5 * time.Second),
				ReadTimeout:  Duration(3 * time.Second),
				WriteTimeout: Duration(3 * time.Second),
			},
			SQLite: SQLiteConfig{Path: "./lanpresence.db"},
		},
		Presence: PresenceConfig{
			FreshnessWindow: Duration(domain.FreshnessWindow),
		},
		Eviction: EvictionConfig{
			Async:   true,
			Timeout: Duration(5 * time.Second),
		},
		Log: logger.DefaultConfig(),
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = def.Store.Redis.Addr
	}
	if c.Store.SQLite.Path == "" {
		c.Store.SQLite.Path = def.Store.SQLite.Path
	}
	if c.Presence.FreshnessWindow <= 0 {
		c.Presence.FreshnessWindow = def.Presence.FreshnessWindow
	}
	if c.Eviction.Timeout <= 0 {
		c.Eviction.Timeout = def.Eviction.Timeout
	}
}

// Validate reports configuration that cannot be served
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	switch c.Store.Backend {
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required for the redis backend"))
		}
		if c.Store.Redis.DB < 0 {
			errs = append(errs, fmt.Errorf("store.redis.db must not be negative, got %d", c.Store.Redis.DB))
		}
	case BackendSQLite:
		if c.Store.SQLite.Path == "" {
			errs = append(errs, errors.New("store.sqlite.path is required for the sqlite backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q, must be redis, sqlite or memory", c.Store.Backend))
	}

	if c.Presence.FreshnessWindow <= 0 {
		errs = append(errs, errors.New("presence.freshness_window must be positive"))
	}
	if c.Eviction.Timeout <= 0 {
		errs = append(errs, errors.New("eviction.timeout must be positive"))
	}

	return errors.Join(errs...)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s, Store: %s", c.Server.Addr, c.Store.Backend)
	switch c.Store.Backend {
	case BackendRedis:
		summary += fmt.Sprintf(" (%s db %d)", c.Store.Redis.Addr, c.Store.Redis.DB)
	case BackendSQLite:
		summary += fmt.Sprintf(" (%s)", c.Store.SQLite.Path)
	}
	summary += fmt.Sprintf(", Freshness: %s, Async eviction: %v",
		c.Presence.FreshnessWindow.Duration(), c.Eviction.Async)
	return summary
}
