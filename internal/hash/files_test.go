package hash

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphforge/forge/internal/testutil"
)

func TestFileDigester_Digest(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a.txt", "hello")
	b := testutil.WriteFile(t, dir, "b.txt", "hello")

	d, err := NewFileDigester(8, 2)
	require.NoError(t, err)

	sumA, err := d.Digest(a)
	require.NoError(t, err)
	sumB, err := d.Digest(b)
	require.NoError(t, err)

	assert.Equal(t, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sumA)
	assert.Equal(t, sumA, sumB, "only content matters")
}

func TestFileDigester_MemoizesWithinRun(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "a.txt", "one")

	d, err := NewFileDigester(8, 2)
	require.NoError(t, err)

	before, err := d.Digest(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	again, err := d.Digest(path)
	require.NoError(t, err)
	assert.Equal(t, before, again)
}

func TestFileDigester_NewDigesterSeesSameSizeRewrite(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "A.swift", "struct A {}")
	info, err := os.Stat(path)
	require.NoError(t, err)

	d, err := NewFileDigester(8, 2)
	require.NoError(t, err)
	before, err := d.Digest(path)
	require.NoError(t, err)

	// Same size, same modification time, as after cp -p or rsync -a.
	require.NoError(t, os.WriteFile(path, []byte("struct B {}"), 0o644))
	mtime := info.ModTime().Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	next, err := NewFileDigester(8, 2)
	require.NoError(t, err)
	after, err := next.Digest(path)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestFileDigester_DigestAll(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "src/a.swift", "a")
	testutil.WriteFile(t, dir, "src/nested/b.swift", "b")
	testutil.WriteFile(t, dir, "src/.hidden", "ignored")
	testutil.WriteFile(t, dir, "src/.git/config", "ignored")
	single := testutil.WriteFile(t, dir, "extra.txt", "c")

	d, err := NewFileDigester(0, 0)
	require.NoError(t, err)

	sums, err := d.DigestAll(context.Background(), []string{filepath.Join(dir, "src"), single})
	require.NoError(t, err)
	assert.Len(t, sums, 3)
	assert.IsIncreasing(t, sums)
}
