package cache

import (
	"context"
	"strings"
)

// Store holds build outputs keyed by content hash. Both operations are
// idempotent; storing a hash that already exists succeeds without changes.
type Store interface {
	Exists(ctx context.Context, hash string) (bool, error)
	Store(ctx context.Context, hash string, paths []string) error
}

// key returns the storage key of a hash: the hex digest without its algorithm
// prefix.
func key(hash string) string {
	if i := strings.IndexByte(hash, ':'); i >= 0 {
		return hash[i+1:]
	}
	return hash
}

// ChainStore combines stores, typically local then remote. A hash exists if
// any store has it; Store writes to every store.
type ChainStore struct {
	stores []Store
}

// NewChain creates a ChainStore. Order matters for Exists: earlier stores are
// asked first.
func NewChain(stores ...Store) *ChainStore {
	return &ChainStore{stores: stores}
}

// Exists implements Store.
func (c *ChainStore) Exists(ctx context.Context, hash string) (bool, error) {
	for _, s := range c.stores {
		ok, err := s.Exists(ctx, hash)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Store implements Store.
func (c *ChainStore) Store(ctx context.Context, hash string, paths []string) error {
	for _, s := range c.stores {
		if err := s.Store(ctx, hash, paths); err != nil {
			return err
		}
	}
	return nil
}
