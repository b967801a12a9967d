// ABOUTME: Standard filesystem paths for floatkit configuration and logs
// ABOUTME: Resolves ~/.floatkit/ with a cwd-relative fallback when HOME is unknown

package config

import (
	"os"
	"path/filepath"
)

const globalDirName = ".floatkit"

// GlobalDir returns the user config directory (~/.floatkit/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// DefaultConfigFile returns the config file read when --config is not set.
func DefaultConfigFile() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// DefaultLogFile returns the log file of the interactive demo.
func DefaultLogFile() string {
	return filepath.Join(GlobalDir(), "demo.log")
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
