// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// AppName names the per-user config and data directories.
const AppName = "wordcram"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDataPath returns the default progress file, relative to the
// working directory.
func DefaultDataPath() string {
	return filepath.Join("data", "learning_data.json")
}

// DefaultHistoryPath returns the default path for the SQLite history database.
func DefaultHistoryPath() string {
	return filepath.Join(XDGDataHome(), AppName, "history.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), AppName, "config.toml")
}
