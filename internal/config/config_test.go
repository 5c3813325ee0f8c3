package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.TrustProxy)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 60*time.Minute, cfg.Presence.FreshnessWindow.Duration())
	assert.True(t, cfg.Eviction.Async)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanpresence.yaml")
	data := `
server:
  addr: ":9090"
  trust_proxy: false
store:
  backend: sqlite
  sqlite:
    path: /var/lib/lanpresence/presence.db
presence:
  freshness_window: 15m
eviction:
  async: false
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, gotPath, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, gotPath)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout.Duration(), "unset fields keep defaults")
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/var/lib/lanpresence/presence.db", cfg.Store.SQLite.Path)
	assert.Equal(t, 15*time.Minute, cfg.Presence.FreshnessWindow.Duration())
	assert.False(t, cfg.Eviction.Async)
	assert.Equal(t, 5*time.Second, cfg.Eviction.Timeout.Duration())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromPathErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("presence:\n  freshness_window: soon\n"), 0644))
		_, _, err := LoadFromPath(path)
		assert.Error(t, err)
	})
}

func TestApplyDefaultsRepairsZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.yaml")
	data := "version: 0\nserver:\n  addr: \"\"\nstore:\n  backend: \"\"\npresence:\n  freshness_window: 0s\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, 60*time.Minute, cfg.Presence.FreshnessWindow.Duration())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Store.Backend = BackendMemory
	cfg.Presence.FreshnessWindow = Duration(90 * time.Second)

	require.NoError(t, cfg.Save(path))

	loaded, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, loaded.Store.Backend)
	assert.Equal(t, 90*time.Second, loaded.Presence.FreshnessWindow.Duration())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"memory backend", func(c *Config) { c.Store.Backend = BackendMemory }, ""},
		{"unknown backend", func(c *Config) { c.Store.Backend = "etcd" }, "unknown store.backend"},
		{"redis without addr", func(c *Config) { c.Store.Redis.Addr = "" }, "store.redis.addr"},
		{"negative redis db", func(c *Config) { c.Store.Redis.DB = -1 }, "store.redis.db"},
		{"sqlite without path", func(c *Config) {
			c.Store.Backend = BackendSQLite
			c.Store.SQLite.Path = ""
		}, "store.sqlite.path"},
		{"no listen addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero window", func(c *Config) { c.Presence.FreshnessWindow = 0 }, "freshness_window"},
		{"zero eviction timeout", func(c *Config) { c.Eviction.Timeout = 0 }, "eviction.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSummary(t *testing.T) {
	cfg := DefaultConfig()
	summary := cfg.Summary()
	assert.Contains(t, summary, "127.0.0.1:8080")
	assert.Contains(t, summary, "redis")
	assert.Contains(t, summary, "localhost:6379")
}

func TestFindConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvConfigPath, "")

	t.Run("explicit env path", func(t *testing.T) {
		path := filepath.Join(dir, "explicit.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0644))
		t.Setenv(EnvConfigPath, path)
		assert.Equal(t, path, FindConfigPath())
	})

	t.Run("xdg config home", func(t *testing.T) {
		xdg := filepath.Join(dir, "xdg")
		path := filepath.Join(xdg, ConfigDirName, "config.yaml")
		require.NoError(t, EnsureConfigDir(path))
		require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0644))
		t.Setenv("XDG_CONFIG_HOME", xdg)
		assert.Equal(t, path, FindConfigPath())
	})

	t.Run("working directory wins over xdg", func(t *testing.T) {
		require.NoError(t, os.WriteFile(ConfigFileName, []byte("version: 1\n"), 0644))
		defer os.Remove(ConfigFileName)
		got := FindConfigPath()
		assert.Equal(t, ConfigFileName, filepath.Base(got))
	})
}

func TestDefaultConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	assert.Equal(t, filepath.Join(home, "xdg", ConfigDirName, "config.yaml"), DefaultConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Equal(t, filepath.Join(home, ".config", ConfigDirName, "config.yaml"), DefaultConfigPath())

	t.Setenv("HOME", "")
	assert.Equal(t, ConfigFileName, DefaultConfigPath())
}

func TestSavedConfigIsFound(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv(EnvConfigPath, "")

	cfg := DefaultConfig()
	cfg.Store.Backend = BackendSQLite
	path := DefaultConfigPath()
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.Equal(t, path, FindConfigPath())
	loaded, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, loaded.Store.Backend)
}
