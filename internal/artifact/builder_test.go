package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphforge/forge/internal/cache"
	"github.com/graphforge/forge/internal/graph"
)

func request(t *testing.T) BuildRequest {
	t.Helper()
	return BuildRequest{
		Project:       t.TempDir(),
		Target:        "Core",
		Product:       graph.ProductFramework,
		Configuration: "Debug",
		OutputKind:    cache.OutputFramework,
		OutputDir:     t.TempDir(),
	}
}

func TestNewCommandBuilder_Errors(t *testing.T) {
	_, err := NewCommandBuilder(nil)
	assert.Error(t, err)

	_, err = NewCommandBuilder([]string{" "})
	assert.Error(t, err)

	_, err = NewCommandBuilder([]string{"tool", "{{.Target"})
	assert.Error(t, err)
}

func TestCommandBuilder_Args(t *testing.T) {
	b, err := NewCommandBuilder([]string{
		"xcodebuild", "-scheme", "{{.Target}}", "-configuration", "{{.Configuration}}",
		"CONFIGURATION_BUILD_DIR={{.OutputDir}}", "{{.Product}}/{{.OutputKind}}",
	})
	require.NoError(t, err)

	req := BuildRequest{Target: "Core", Configuration: "Release", OutputDir: "/tmp/out", Product: graph.ProductBundle, OutputKind: cache.OutputXCFramework}
	args, err := b.Args(req)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"xcodebuild", "-scheme", "Core", "-configuration", "Release",
		"CONFIGURATION_BUILD_DIR=/tmp/out", "bundle/xcframework",
	}, args)
}

func TestCommandBuilder_UnknownField(t *testing.T) {
	b, err := NewCommandBuilder([]string{"tool", "{{.Nope}}"})
	require.NoError(t, err)

	_, err = b.Args(BuildRequest{})
	assert.Error(t, err)
}

func TestCommandBuilder_Build(t *testing.T) {
	b, err := NewCommandBuilder([]string{"sh", "-c", "mkdir -p {{.OutputDir}}/{{.Target}}.framework && printf built > {{.OutputDir}}/{{.Target}}.framework/{{.Target}}"})
	require.NoError(t, err)

	req := request(t)
	require.NoError(t, b.Build(context.Background(), req))

	data, err := os.ReadFile(filepath.Join(req.OutputDir, "Core.framework", "Core"))
	require.NoError(t, err)
	assert.Equal(t, "built", string(data))
}

func TestCommandBuilder_RunsInProject(t *testing.T) {
	b, err := NewCommandBuilder([]string{"sh", "-c", "pwd > {{.OutputDir}}/pwd"})
	require.NoError(t, err)

	req := request(t)
	require.NoError(t, b.Build(context.Background(), req))

	data, err := os.ReadFile(filepath.Join(req.OutputDir, "pwd"))
	require.NoError(t, err)
	wantDir, err := filepath.EvalSymlinks(req.Project)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(string(data[:len(data)-1]))
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
}

func TestCommandBuilder_Failure(t *testing.T) {
	b, err := NewCommandBuilder([]string{"sh", "-c", "echo compile error in {{.Target}} >&2; exit 3"})
	require.NoError(t, err)

	err = b.Build(context.Background(), request(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile error in Core")
	assert.Contains(t, err.Error(), "exit status 3")
}

func TestFunc(t *testing.T) {
	var got BuildRequest
	b := Func(func(_ context.Context, req BuildRequest) error {
		got = req
		return nil
	})

	req := request(t)
	require.NoError(t, b.Build(context.Background(), req))
	assert.Equal(t, req, got)
}
