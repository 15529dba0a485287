package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphforge/forge/internal/testutil"
)

const testHash = "sha256:ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12"

func buildOutput(t *testing.T) string {
	t.Helper()
	out := t.TempDir()
	testutil.WriteFile(t, out, "Core.framework/Core", "binary")
	testutil.WriteFile(t, out, "Core.framework/Info.plist", "<plist/>")
	require.NoError(t, os.Symlink("Core", filepath.Join(out, "Core.framework", "Current")))
	return out
}

func TestLocalStore_Path(t *testing.T) {
	s := NewLocalStore("/cache")
	assert.Equal(t, filepath.Join("/cache", "ab", key(testHash)), s.Path(testHash))
	assert.Equal(t, filepath.Join("/cache", "a"), s.Path("a"))
}

func TestLocalStore_StoreAndExists(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())
	out := buildOutput(t)

	ok, err := s.Exists(ctx, testHash)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Store(ctx, testHash, []string{filepath.Join(out, "Core.framework")}))

	ok, err = s.Exists(ctx, testHash)
	require.NoError(t, err)
	assert.True(t, ok)

	entry := s.Path(testHash)
	data, err := os.ReadFile(filepath.Join(entry, "Core.framework", "Core"))
	require.NoError(t, err)
	assert.Equal(t, "binary", string(data))

	link, err := os.Readlink(filepath.Join(entry, "Core.framework", "Current"))
	require.NoError(t, err)
	assert.Equal(t, "Core", link)
}

func TestLocalStore_StoreExistingIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	first := t.TempDir()
	testutil.WriteFile(t, first, "A.framework/A", "first")
	require.NoError(t, s.Store(ctx, testHash, []string{filepath.Join(first, "A.framework")}))

	second := t.TempDir()
	testutil.WriteFile(t, second, "A.framework/A", "second")
	require.NoError(t, s.Store(ctx, testHash, []string{filepath.Join(second, "A.framework")}))

	data, err := os.ReadFile(filepath.Join(s.Path(testHash), "A.framework", "A"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestLocalStore_FailedStoreLeavesNoEntry(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStore(root)

	err := s.Store(ctx, testHash, []string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)

	ok, err := s.Exists(ctx, testHash)
	require.NoError(t, err)
	assert.False(t, ok)

	leftovers, err := os.ReadDir(filepath.Dir(s.Path(testHash)))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary entry is removed")
}

func TestSizeOf(t *testing.T) {
	out := buildOutput(t)
	size, err := SizeOf([]string{filepath.Join(out, "Core.framework")})
	require.NoError(t, err)
	assert.Equal(t, int64(len("binary")+len("<plist/>")), size)
}

type memStore struct {
	entries map[string][]string
	err     error
}

func (m *memStore) Exists(_ context.Context, hash string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.entries[hash]
	return ok, nil
}

func (m *memStore) Store(_ context.Context, hash string, paths []string) error {
	if m.err != nil {
		return m.err
	}
	if m.entries == nil {
		m.entries = make(map[string][]string)
	}
	m.entries[hash] = paths
	return nil
}

func TestChainStore(t *testing.T) {
	ctx := context.Background()
	local := &memStore{}
	remote := &memStore{entries: map[string][]string{"sha256:remote": nil}}
	chain := NewChain(local, remote)

	ok, err := chain.Exists(ctx, "sha256:remote")
	require.NoError(t, err)
	assert.True(t, ok, "found in any store")

	ok, err = chain.Exists(ctx, "sha256:none")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, chain.Store(ctx, "sha256:new", []string{"/out"}))
	assert.Contains(t, local.entries, "sha256:new")
	assert.Contains(t, remote.entries, "sha256:new")
}

func TestChainStore_Error(t *testing.T) {
	chain := NewChain(&memStore{}, &memStore{err: assert.AnError})

	_, err := chain.Exists(context.Background(), "sha256:x")
	assert.ErrorIs(t, err, assert.AnError)
}
