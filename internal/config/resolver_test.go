package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FlagPrecedence(t *testing.T) {
	t.Setenv("FORGE_CACHE_DIR", "/env")

	result := Resolve(ResolveOptions{
		Key:          "cacheDir",
		FlagValue:    "/flag",
		EnvVar:       "FORGE_CACHE_DIR",
		ConfigValue:  "/config",
		DefaultValue: "/default",
	})

	assert.Equal(t, "/flag", result.Value)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, map[ConfigSource]string{
		SourceEnv:     "/env",
		SourceConfig:  "/config",
		SourceDefault: "/default",
	}, result.Shadowed)
}

func TestResolve_EnvPrecedence(t *testing.T) {
	t.Setenv("FORGE_CACHE_DIR", "/env")

	result := Resolve(ResolveOptions{
		Key:         "cacheDir",
		EnvVar:      "FORGE_CACHE_DIR",
		ConfigValue: "/config",
	})

	assert.Equal(t, "/env", result.Value)
	assert.Equal(t, SourceEnv, result.Source)
	assert.Equal(t, "/config", result.Shadowed[SourceConfig])
	assert.NotContains(t, result.Shadowed, SourceFlag)
}

func TestResolve_ConfigFallback(t *testing.T) {
	t.Setenv("FORGE_CACHE_DIR", "")

	result := Resolve(ResolveOptions{
		Key:         "cacheDir",
		EnvVar:      "FORGE_CACHE_DIR",
		ConfigValue: "/config",
	})

	assert.Equal(t, "/config", result.Value)
	assert.Equal(t, SourceConfig, result.Source)
	assert.Empty(t, result.Shadowed)
}

func TestResolve_Nothing(t *testing.T) {
	result := Resolve(ResolveOptions{Key: "cacheDir"})

	assert.Empty(t, result.Value)
	assert.Empty(t, result.Source)
}

func TestResolveConfigPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("FORGE_CONFIG", "/env/config.yaml")

		result, err := ResolveConfigPath("/flag/config.yaml")
		require.NoError(t, err)

		assert.Equal(t, "/flag/config.yaml", result.Value)
		assert.Equal(t, SourceFlag, result.Source)
		assert.Equal(t, "/env/config.yaml", result.Shadowed[SourceEnv])
		assert.Contains(t, result.Shadowed, SourceDefault)
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("FORGE_CONFIG", "")

		result, err := ResolveConfigPath("")
		require.NoError(t, err)

		assert.Equal(t, SourceDefault, result.Source)
		assert.Contains(t, result.Value, ".forge")
	})
}

func TestResolveConfig(t *testing.T) {
	t.Setenv("FORGE_CACHE_DIR", "")
	t.Setenv("FORGE_PROFILE", "")
	t.Setenv("FORGE_WORKERS", "")

	cfg := &Config{CacheDir: "/config/cache", Workers: 2}

	out, values := ResolveConfig(cfg, Flags{Workers: 9, Profile: "release"})

	assert.Equal(t, "/config/cache", out.CacheDir)
	assert.Equal(t, 9, out.Workers)
	assert.Equal(t, "release", out.DefaultProfile)
	require.Len(t, values, 3)
	assert.Equal(t, SourceConfig, values[0].Source)
	assert.Equal(t, SourceFlag, values[1].Source)
	assert.Equal(t, SourceFlag, values[2].Source)
	assert.Equal(t, "2", values[2].Shadowed[SourceConfig])

	// The input is not modified.
	assert.Equal(t, 2, cfg.Workers)
}
