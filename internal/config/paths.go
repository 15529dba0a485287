package config

import (
	"os"
	"path/filepath"

	"github.com/graphforge/forge/internal/cache"
)

// Paths contains standard filesystem paths for forge.
type Paths struct {
	// ConfigFile is the path to the config file (~/.forge/config.yaml).
	ConfigFile string

	// CacheDir is the path to the cache directory (~/.forge/cache).
	CacheDir string

	// HomeDir is the forge home directory (~/.forge).
	HomeDir string
}

// DefaultPaths returns the default paths for forge.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	forgeHome := filepath.Join(homeDir, ".forge")

	return &Paths{
		ConfigFile: filepath.Join(forgeHome, "config.yaml"),
		CacheDir:   filepath.Join(forgeHome, "cache"),
		HomeDir:    forgeHome,
	}, nil
}

// GetConfigFile returns the config file path.
// If FORGE_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv("FORGE_CONFIG"); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// GetCacheDir returns the cache directory path.
// If FORGE_CACHE_DIR is set, it takes precedence.
func GetCacheDir() (string, error) {
	if envPath := os.Getenv("FORGE_CACHE_DIR"); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.CacheDir, nil
}

// IndexFile returns the path of the cache entry index under cacheDir.
func IndexFile(cacheDir string) string {
	return filepath.Join(cacheDir, cache.IndexFileName)
}

// EnsureDir creates dir (after ~ expansion) if it doesn't exist and returns
// the expanded path.
func EnsureDir(dir string) (string, error) {
	expanded, err := ExpandPath(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return "", err
	}
	return expanded, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}
