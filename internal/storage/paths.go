// Package storage persists explorer settings, the last open game and play
// statistics in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "tensorchess"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/tensorchess/
// - Linux: ~/.local/share/tensorchess/
// - Windows: %APPDATA%/tensorchess/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Check XDG_DATA_HOME first
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	return ensureDir(filepath.Join(baseDir, appName))
}

// ResolveDataDir returns override when set, creating it if needed, and
// GetDataDir otherwise.
func ResolveDataDir(override string) (string, error) {
	if override != "" {
		return ensureDir(override)
	}
	return GetDataDir()
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return DatabaseDir(dataDir)
}

// DatabaseDir returns the database directory inside dataDir.
func DatabaseDir(dataDir string) (string, error) {
	return ensureDir(filepath.Join(dataDir, "db"))
}

// HistoryFile returns the REPL history path inside dataDir.
func HistoryFile(dataDir string) string {
	return filepath.Join(dataDir, "history")
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
