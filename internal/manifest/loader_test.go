package manifest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/testutil"
)

const alphaDump = `{
  "name": "Alpha",
  "toolsVersion": "5.9",
  "platforms": [{"name": "ios", "version": "15.0"}],
  "products": [
    {"name": "AlphaCore", "type": "library", "linkage": "dynamic", "targets": ["AlphaCore"]}
  ],
  "targets": [
    {"name": "AlphaCore", "dependencies": [{"kind": "target", "name": "AlphaSupport"}]},
    {"name": "AlphaSupport", "resources": ["Resources/data.json"]},
    {"name": "AlphaTests", "type": "test", "dependencies": [{"kind": "byName", "name": "AlphaCore"}]}
  ],
  "dependencies": [{"url": "https://example.com/extra"}]
}`

const alphaCUE = `
name: "Alpha"
products: [{name: "AlphaCore", targets: ["AlphaCore"]}]
targets: [{name: "AlphaCore", settings: {SWIFT_STRICT: "YES"}}]
`

func TestLoader_LoadJSONDump(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, DumpFileName, alphaDump)

	loader, err := NewLoader()
	require.NoError(t, err)

	m, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "Alpha", m.Name)
	assert.Equal(t, "5.9", m.ToolsVersion)
	require.Len(t, m.Products, 1)
	assert.Equal(t, LinkageDynamic, m.Products[0].Linkage)
	assert.Equal(t, ProductLibrary, m.Products[0].Kind)
	require.Len(t, m.Targets, 3)
	assert.Equal(t, TargetRegular, m.Targets[0].Kind, "type defaults to regular")
	assert.Equal(t, TargetTest, m.Targets[2].Kind)
	assert.Equal(t, []Dependency{{Kind: DependencyTarget, Name: "AlphaSupport"}}, m.Targets[0].Dependencies)
}

func TestLoader_LoadCUE(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, CUEFileName, alphaCUE)

	loader, err := NewLoader()
	require.NoError(t, err)

	m, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, ProductLibrary, m.Products[0].Kind, "product type defaults to library")
	assert.Equal(t, map[string]string{"SWIFT_STRICT": "YES"}, m.Targets[0].Settings)
}

func TestLoader_Missing(t *testing.T) {
	dir := t.TempDir()
	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), dir)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, dir, loadErr.Folder)
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
}

func TestLoader_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, DumpFileName, `{"name": "Bad", "targets": [{"name": "X", "dependencies": [{"kind": "weird", "name": "Y"}]}]}`)

	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestLoader_MissingName(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Parse("package.json", []byte(`{"targets": []}`))
	assert.Error(t, err)
}

type countingStore struct {
	calls int
	m     *Manifest
	err   error
}

func (s *countingStore) Load(context.Context, string) (*Manifest, error) {
	s.calls++
	return s.m, s.err
}

func TestCachedStore(t *testing.T) {
	next := &countingStore{m: &Manifest{Name: "Alpha"}}
	store, err := NewCachedStore(next, 0)
	require.NoError(t, err)

	for range 3 {
		m, err := store.Load(context.Background(), "/pkgs/alpha")
		require.NoError(t, err)
		assert.Equal(t, "Alpha", m.Name)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCachedStore_ErrorsNotCached(t *testing.T) {
	next := &countingStore{err: errors.New("boom")}
	store, err := NewCachedStore(next, 4)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "/pkgs/alpha")
	require.Error(t, err)
	_, err = store.Load(context.Background(), "/pkgs/alpha")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestMapStore(t *testing.T) {
	store := MapStore{"/a": {Name: "A"}}

	m, err := store.Load(context.Background(), "/a")
	require.NoError(t, err)
	assert.Equal(t, "A", m.Name)

	_, err = store.Load(context.Background(), "/b")
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestTarget_SourceDir(t *testing.T) {
	assert.Equal(t, "Sources/Core", (&Target{Name: "Core"}).SourceDir())
	assert.Equal(t, "Tests/CoreTests", (&Target{Name: "CoreTests", Kind: TargetTest}).SourceDir())
	assert.Equal(t, "lib/core", (&Target{Name: "Core", Path: "lib/core"}).SourceDir())
}
