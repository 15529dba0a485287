package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/graphforge/forge/internal/config"
)

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized")

	info, err := os.Stat(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := config.NewLoader().Load(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Profiles, cfg.Profiles)
	assert.Equal(t, config.DefaultConfig().Builders, cfg.Builders)
	require.NoError(t, config.Validate(cfg))
}

func TestConfigInit_ExistingRequiresForce(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "workers: 2\n")

	_, err := execute(t, "config", "init")
	requireExitCode(t, err, ExitValidationError)

	data, err := os.ReadFile(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, "workers: 2\n", string(data))

	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)

	data, err = os.ReadFile(env.configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "profiles:")
}

func TestConfigShow_RedactsSecret(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, `remote:
  endpoint: localhost:9000
  bucket: forge
  accessKey: admin
  secretKey: hunter2
`)

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, redacted)

	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, env.cacheDir, shown.CacheDir)
	assert.Equal(t, "forge", shown.Remote.Bucket)
	assert.Equal(t, config.DefaultWorkers, shown.Workers)
}

func TestConfigShow_WorkersFlag(t *testing.T) {
	newTestEnv(t)

	out, err := execute(t, "config", "show", "--workers", "9")
	require.NoError(t, err)

	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, 9, shown.Workers)
}

func TestConfigVet(t *testing.T) {
	env := newTestEnv(t)

	_, err := execute(t, "config", "vet")
	requireExitCode(t, err, ExitNotFound)

	env.writeConfig(t, "defaultProfile: release\n")
	out, err := execute(t, "config", "vet")
	require.NoError(t, err)
	assert.Contains(t, out, "Config is valid")

	env.writeConfig(t, "profiles:\n  nightly:\n    configuration: Debug\n    outputKind: dmg\n")
	_, err = execute(t, "config", "vet")
	requireExitCode(t, err, ExitValidationError)
}
