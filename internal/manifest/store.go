package manifest

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of memoized manifests.
const DefaultCacheSize = 256

// CachedStore memoizes manifests per folder.
// Only successful loads are cached.
type CachedStore struct {
	next  Store
	cache *lru.Cache[string, *Manifest]
}

// NewCachedStore wraps next with an LRU memo of the given size.
func NewCachedStore(next Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *Manifest](size)
	if err != nil {
		return nil, fmt.Errorf("creating manifest cache: %w", err)
	}
	return &CachedStore{next: next, cache: cache}, nil
}

// Load implements Store.
func (s *CachedStore) Load(ctx context.Context, folder string) (*Manifest, error) {
	if m, ok := s.cache.Get(folder); ok {
		return m, nil
	}
	m, err := s.next.Load(ctx, folder)
	if err != nil {
		return nil, err
	}
	s.cache.Add(folder, m)
	return m, nil
}

// MapStore serves manifests from memory, keyed by folder.
type MapStore map[string]*Manifest

// Load implements Store.
func (s MapStore) Load(_ context.Context, folder string) (*Manifest, error) {
	m, ok := s[folder]
	if !ok {
		return nil, &LoadError{Folder: folder, Cause: fmt.Errorf("no manifest registered")}
	}
	return m, nil
}
