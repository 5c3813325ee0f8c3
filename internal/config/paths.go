package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "LANPRESENCE_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "lanpresence.yaml"
	// ConfigDirName is the directory under the XDG and system config roots
	ConfigDirName = "lanpresence"
)

// searchPaths lists config locations from highest to lowest priority. Roots
// that are not set in the environment are skipped.
func searchPaths() []string {
	var paths []string

	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}

	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}

	if dir := userConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}

	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// userConfigDir is $XDG_CONFIG_HOME/lanpresence, or "" when unset
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, ConfigDirName)
	}
	return ""
}

// FindConfigPath returns the first existing file among:
//  1. $LANPRESENCE_CONFIG
//  2. ./lanpresence.yaml
//  3. $XDG_CONFIG_HOME/lanpresence/config.yaml
//  4. ~/.config/lanpresence/config.yaml
//  5. /etc/lanpresence/config.yaml
//
// It returns "" when none exists.
func FindConfigPath() string {
	for _, p := range searchPaths() {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// DefaultConfigPath is where `lanpresence config --write` saves when no path
// is given: the per-user config directory, else the working directory.
func DefaultConfigPath() string {
	if dir := userConfigDir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the directory that will hold configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
