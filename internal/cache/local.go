package cache

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps entries in a directory tree: <root>/<hex[:2]>/<hex>/.
// Entries are written into a temporary directory next to their final
// location and renamed into place, so a visible entry is always complete.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at root.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Root returns the store's root directory.
func (s *LocalStore) Root() string {
	return s.root
}

// Path returns the directory of the entry for hash.
func (s *LocalStore) Path(hash string) string {
	k := key(hash)
	if len(k) < 2 {
		return filepath.Join(s.root, k)
	}
	return filepath.Join(s.root, k[:2], k)
}

// Exists implements Store.
func (s *LocalStore) Exists(_ context.Context, hash string) (bool, error) {
	_, err := os.Stat(s.Path(hash))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking cache entry: %w", err)
}

// Store implements Store. Each path is copied into the entry under its base name.
func (s *LocalStore) Store(ctx context.Context, hash string, paths []string) error {
	if ok, err := s.Exists(ctx, hash); err != nil || ok {
		return err
	}

	entryDir := s.Path(hash)
	parentDir := filepath.Dir(entryDir)
	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmpDir, err := os.MkdirTemp(parentDir, "tmp-"+key(hash)+"-")
	if err != nil {
		return fmt.Errorf("creating temp cache entry: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(tmpDir)
		}
	}()

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := copyTree(p, filepath.Join(tmpDir, filepath.Base(p))); err != nil {
			return fmt.Errorf("copying %s into cache: %w", p, err)
		}
	}

	if err := os.Rename(tmpDir, entryDir); err != nil {
		// Lost a race with another writer of the same hash.
		if ok, _ := s.Exists(ctx, hash); ok {
			return nil
		}
		return fmt.Errorf("committing cache entry: %w", err)
	}
	committed = true
	return nil
}

// copyTree copies a file, symlink or directory tree from src to dst.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(p)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case entry.IsDir():
			return os.MkdirAll(target, 0o755)
		default:
			info, err := entry.Info()
			if err != nil {
				return err
			}
			return copyFile(p, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// SizeOf returns the total size in bytes of the regular files under paths.
func SizeOf(paths []string) (int64, error) {
	var total int64
	for _, p := range paths {
		err := filepath.WalkDir(p, func(_ string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.Type().IsRegular() {
				return nil
			}
			info, err := entry.Info()
			if err != nil {
				return err
			}
			total += info.Size()
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
