package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err, "should get home directory")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no tilde", input: "/absolute/path", expected: "/absolute/path"},
		{name: "relative path without tilde", input: "relative/path", expected: "relative/path"},
		{name: "tilde only", input: "~", expected: homeDir},
		{name: "tilde with slash", input: "~/.forge/config.yaml", expected: filepath.Join(homeDir, ".forge", "config.yaml")},
		{name: "tilde username pattern (not expanded)", input: "~username/file", expected: "~username/file"},
		{name: "tilde in middle (not expanded)", input: "/path/~/file", expected: "/path/~/file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	paths, err := DefaultPaths()
	require.NoError(t, err)

	assert.Equal(t, ".forge", filepath.Base(paths.HomeDir))
	assert.Equal(t, filepath.Join(paths.HomeDir, "config.yaml"), paths.ConfigFile)
	assert.Equal(t, filepath.Join(paths.HomeDir, "cache"), paths.CacheDir)
}

func TestGetConfigFile_Env(t *testing.T) {
	t.Setenv("FORGE_CONFIG", "/etc/forge.yaml")

	path, err := GetConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "/etc/forge.yaml", path)
}

func TestGetCacheDir_Env(t *testing.T) {
	t.Setenv("FORGE_CACHE_DIR", "/var/cache/forge")

	dir, err := GetCacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/forge", dir)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "index.db"), IndexFile(dir))
}
