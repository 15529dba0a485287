package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphforge/forge/internal/testutil"
)

// fakeBuilderConfig makes every build write <OutputDir>/<Target>.framework/binary.
const fakeBuilderConfig = `builders:
  framework:
    - sh
    - -c
    - 'mkdir -p "$0/$1.framework" && echo built > "$0/$1.framework/binary"'
    - '{{.OutputDir}}'
    - '{{.Target}}'
`

// testEnv isolates a command run: config file, cache directory and home
// all live under a temporary directory.
type testEnv struct {
	dir        string
	configPath string
	cacheDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "forge", "config.yaml"),
		cacheDir:   filepath.Join(dir, "cache"),
	}
	t.Setenv("HOME", dir)
	t.Setenv("FORGE_CONFIG", env.configPath)
	t.Setenv("FORGE_CACHE_DIR", env.cacheDir)
	return env
}

func (e *testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	testutil.WriteFile(t, filepath.Dir(e.configPath), filepath.Base(e.configPath), content)
}

// workspace writes the sample workspace and returns its root.
func (e *testEnv) workspace(t *testing.T) string {
	t.Helper()
	root := filepath.Join(e.dir, "ws")
	testutil.WriteSampleWorkspace(t, root)
	return root
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, code, exitErr.Code)
}
