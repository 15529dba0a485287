package hash

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	oerrors "github.com/graphforge/forge/internal/errors"
)

// DefaultDigestCacheSize bounds the number of memoized file digests.
const DefaultDigestCacheSize = 4096

// FileDigester computes content digests of input files. Digests are memoized
// by path, so a digester must not outlive one hashing run: a file rewritten
// in place between runs can keep its size and modification time.
type FileDigester struct {
	cache   *lru.Cache[string, string]
	workers int
}

// NewFileDigester creates a FileDigester. Zero values select defaults.
func NewFileDigester(cacheSize, workers int) (*FileDigester, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultDigestCacheSize
	}
	if workers <= 0 {
		workers = 8
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating digest cache: %w", err)
	}
	return &FileDigester{cache: cache, workers: workers}, nil
}

// Digest returns the sha256 digest of a file's content.
func (d *FileDigester) Digest(path string) (string, error) {
	if sum, ok := d.cache.Get(path); ok {
		return sum, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	sum := fmt.Sprintf("sha256:%x", h.Sum(nil))

	d.cache.Add(path, sum)
	return sum, nil
}

// DigestAll expands paths (files or directories, walked recursively) and
// returns the content digests of every file, sorted. Paths do not contribute,
// so renaming a file leaves the result unchanged.
func (d *FileDigester) DigestAll(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		expanded, err := expand(p)
		if err != nil {
			return nil, err
		}
		files = append(files, expanded...)
	}

	sums := make([]string, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, f := range files {
		g.Go(func() error {
			sum, err := d.Digest(f)
			if err != nil {
				return fmt.Errorf("digesting %s: %w", f, err)
			}
			sums[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.Sort(sums)
	return sums, nil
}

// expand lists the regular files under path. Hidden entries are skipped.
func expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("input path does not exist", path, "")
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != path && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}
	return files, nil
}
