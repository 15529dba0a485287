// Package hash computes content hashes of build targets.
//
// A target's hash combines the digests of its own inputs, its build settings,
// the cache profile and the hashes of its direct dependencies, so any change
// anywhere below a target changes its hash.
package hash

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/graphforge/forge/internal/buildgraph"
	"github.com/graphforge/forge/internal/cache"
)

// formatVersion is mixed into every hash; bump it to invalidate all entries.
const formatVersion = "forge-content-hash-v1"

// Hasher computes and memoizes content hashes of the targets of one graph.
// Memoization lasts for the lifetime of the Hasher, which is one run.
type Hasher struct {
	graph *buildgraph.Graph
	files *FileDigester

	mu   sync.Mutex
	memo map[memoKey]string
}

type memoKey struct {
	target  buildgraph.GraphTarget
	profile cache.Profile
}

// New creates a Hasher over g.
func New(g *buildgraph.Graph, files *FileDigester) *Hasher {
	return &Hasher{
		graph: g,
		files: files,
		memo:  make(map[memoKey]string),
	}
}

// Hash returns the content hash of target under profile.
func (h *Hasher) Hash(ctx context.Context, target buildgraph.GraphTarget, profile cache.Profile) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	w := &walk{hasher: h, ctx: ctx, profile: profile, visiting: make(map[buildgraph.GraphTarget]bool)}
	return w.hash(target)
}

// HashAll returns the content hash of every given target.
func (h *Hasher) HashAll(ctx context.Context, targets []buildgraph.GraphTarget, profile cache.Profile) (map[buildgraph.GraphTarget]string, error) {
	out := make(map[buildgraph.GraphTarget]string, len(targets))
	for _, t := range targets {
		sum, err := h.Hash(ctx, t, profile)
		if err != nil {
			return nil, err
		}
		out[t] = sum
	}
	return out, nil
}

// walk is one depth-first traversal. The path is kept to report cycles.
type walk struct {
	hasher   *Hasher
	ctx      context.Context
	profile  cache.Profile
	visiting map[buildgraph.GraphTarget]bool
	path     []buildgraph.GraphTarget
}

func (w *walk) hash(id buildgraph.GraphTarget) (string, error) {
	key := memoKey{target: id, profile: w.profile}
	if sum, ok := w.hasher.memo[key]; ok {
		return sum, nil
	}
	if w.visiting[id] {
		return "", &buildgraph.CyclicDependencyError{Cycle: w.cycleFrom(id)}
	}
	if err := w.ctx.Err(); err != nil {
		return "", err
	}

	target, ok := w.hasher.graph.Target(id)
	if !ok {
		return "", fmt.Errorf("target %s is not in the graph", id)
	}

	w.visiting[id] = true
	w.path = append(w.path, id)

	depHashes := make([]string, 0, len(target.Dependencies))
	for _, dep := range w.hasher.graph.Dependencies(id) {
		sum, err := w.hash(dep)
		if err != nil {
			return "", err
		}
		depHashes = append(depHashes, sum)
	}

	w.path = w.path[:len(w.path)-1]
	delete(w.visiting, id)

	sum, err := w.hasher.own(w.ctx, target, w.profile, depHashes)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", id, err)
	}
	w.hasher.memo[key] = sum
	return sum, nil
}

func (w *walk) cycleFrom(id buildgraph.GraphTarget) []buildgraph.GraphTarget {
	for i, p := range w.path {
		if p == id {
			return slices.Clone(w.path[i:])
		}
	}
	return []buildgraph.GraphTarget{id}
}

// own combines the target's inputs with its dependency hashes, in a fixed
// field order.
func (h *Hasher) own(ctx context.Context, t *buildgraph.Target, profile cache.Profile, depHashes []string) (string, error) {
	sum := sha256.New()
	writeField(sum, formatVersion)
	writeField(sum, string(t.Product))

	// The product name ends up in the artifact, so it is an implicit setting.
	settings := maps.Clone(t.Settings)
	if settings == nil {
		settings = make(map[string]string, 1)
	}
	if _, ok := settings["PRODUCT_NAME"]; !ok {
		settings["PRODUCT_NAME"] = t.Name
	}

	for _, group := range []struct {
		name  string
		paths []string
	}{
		{"sources", t.Sources},
		{"resources", t.Resources},
		{"artifacts", t.Artifacts},
	} {
		digests, err := h.files.DigestAll(ctx, resolve(t.Project, group.paths))
		if err != nil {
			return "", err
		}
		writeList(sum, group.name, digests)
	}

	keys := slices.Sorted(maps.Keys(settings))
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + settings[k]
	}
	writeList(sum, "settings", pairs)

	writeField(sum, "profile")
	writeField(sum, profile.Configuration)
	writeField(sum, string(profile.OutputKind))

	sorted := slices.Clone(depHashes)
	slices.Sort(sorted)
	writeList(sum, "dependencies", sorted)

	return fmt.Sprintf("sha256:%x", sum.Sum(nil)), nil
}

func resolve(project string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			out[i] = p
		} else {
			out[i] = filepath.Join(project, p)
		}
	}
	return out
}

// writeField writes a length-prefixed field so adjacent fields cannot be
// confused with each other.
func writeField(h hash.Hash, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}

func writeList(h hash.Hash, name string, items []string) {
	writeField(h, name)
	writeField(h, strconv.Itoa(len(items)))
	for _, item := range items {
		writeField(h, item)
	}
}
