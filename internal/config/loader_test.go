package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")

		content := `
cacheDir: /custom/cache
workers: 6
defaultProfile: release
profiles:
  release:
    configuration: Release
    outputKind: xcframework
builders:
  framework: ["make", "{{.Target}}"]
remote:
  endpoint: localhost:9000
  bucket: forge
  accessKey: minio
  secretKey: minio123
graph:
  platforms: [ios]
  productTypes:
    - name: AlphaCore
      type: framework
log:
  timestamps: false
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		cfg, err := NewLoader().Load(configFile)
		require.NoError(t, err)

		assert.Equal(t, "/custom/cache", cfg.CacheDir)
		assert.Equal(t, 6, cfg.Workers)
		assert.Equal(t, "release", cfg.DefaultProfile)
		assert.Equal(t, ProfileConfig{Configuration: "Release", OutputKind: "xcframework"}, cfg.Profiles["release"])
		assert.Equal(t, []string{"make", "{{.Target}}"}, cfg.Builders.Framework)
		assert.Equal(t, "localhost:9000", cfg.Remote.Endpoint)
		assert.Equal(t, "minio", cfg.Remote.AccessKey)
		assert.Equal(t, "minio123", cfg.Remote.SecretKey)
		assert.Equal(t, []string{"ios"}, cfg.Graph.Platforms)
		require.Len(t, cfg.Graph.ProductTypes, 1)
		assert.Equal(t, "AlphaCore", cfg.Graph.ProductTypes[0].Name)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)
	})

	t.Run("returns empty config for missing file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "nonexistent.yaml")

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Empty(t, cfg.CacheDir)
		assert.Zero(t, cfg.Workers)
	})

	t.Run("loads from environment variables", func(t *testing.T) {
		t.Setenv("FORGE_CACHE_DIR", "/env/cache")
		t.Setenv("FORGE_WORKERS", "12")
		t.Setenv("FORGE_REMOTE_BUCKET", "env-bucket")

		cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))

		require.NoError(t, err)
		assert.Equal(t, "/env/cache", cfg.CacheDir)
		assert.Equal(t, 12, cfg.Workers)
		assert.Equal(t, "env-bucket", cfg.Remote.Bucket)
	})

	t.Run("env overrides file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("cacheDir: /file/cache\n"), 0o644))
		t.Setenv("FORGE_CACHE_DIR", "/env/cache")

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "/env/cache", cfg.CacheDir)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("workers: [\n"), 0o644))

		_, err := NewLoader().Load(configFile)
		assert.Error(t, err)
	})
}

func TestLoaderLoadWithDefaults(t *testing.T) {
	cfg, err := NewLoader().LoadWithDefaults(filepath.Join(t.TempDir(), "nonexistent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, "~/.forge/cache", cfg.CacheDir)
}

func TestConfigFileExists(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("workers: 1\n"), 0o644))

	ok, err := ConfigFileExists(existing)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ConfigFileExists(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, ok)
}
