// Package config holds the global filesystem layout for postdash.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories
	DirPermissions = 0755
)

var (
	// ConfigDir is the global configuration directory (~/.postdash)
	ConfigDir string

	// DatabasePath is the SQLite database holding the stored credential
	// and the export history
	DatabasePath string

	// ExportsDir is where saved summary files land
	ExportsDir string
)

// Initialize sets up the configuration directories.
// It creates ~/.postdash/ and the exports directory if they don't exist.
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".postdash")
	DatabasePath = filepath.Join(ConfigDir, "postdash.db")
	ExportsDir = filepath.Join(ConfigDir, "exports")

	dirs := []string{ConfigDir, ExportsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
