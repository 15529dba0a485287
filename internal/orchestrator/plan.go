// Package orchestrator warms the cache: it hashes the targets of a build
// graph, skips those already cached and builds and stores the rest in
// dependency order.
package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/graphforge/forge/internal/buildgraph"
	"github.com/graphforge/forge/internal/cache"
	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/graph"
	"github.com/graphforge/forge/internal/hash"
)

// Options select what a run covers.
type Options struct {
	Profile cache.Profile

	// Targets names the requested targets. Empty means every target.
	Targets []string

	// DependenciesOnly builds only the dependencies of the requested targets.
	DependenciesOnly bool
}

// Plan is the outcome of hashing and cache lookups, before any build.
type Plan struct {
	// Order lists every cacheable target in scope, dependencies first.
	Order []buildgraph.GraphTarget

	Hashes map[buildgraph.GraphTarget]string
	Cached map[buildgraph.GraphTarget]bool

	// Excluded holds requested targets left out by DependenciesOnly.
	Excluded map[buildgraph.GraphTarget]bool

	// Build lists the targets to build, dependencies first.
	Build []buildgraph.GraphTarget
}

// Cacheable reports whether a product type produces cacheable outputs.
func Cacheable(p graph.ProductType) bool {
	switch p {
	case graph.ProductFramework, graph.ProductStaticFramework, graph.ProductBundle:
		return true
	}
	return false
}

// Plan hashes the targets in scope, sorts them and checks the cache.
func (o *Orchestrator) Plan(ctx context.Context, g *buildgraph.Graph, opts Options) (*Plan, error) {
	requested, err := resolveTargets(g, opts.Targets)
	if err != nil {
		return nil, err
	}

	sorted, err := g.TopologicalSort(requested)
	if err != nil {
		return nil, err
	}

	// Dependencies precede dependents in sorted, so one pass settles cacheability.
	cacheable := make(map[buildgraph.GraphTarget]bool, len(sorted))
	plan := &Plan{
		Hashes:   make(map[buildgraph.GraphTarget]string),
		Cached:   make(map[buildgraph.GraphTarget]bool),
		Excluded: make(map[buildgraph.GraphTarget]bool),
	}
	for _, id := range sorted {
		t, _ := g.Target(id)
		ok := Cacheable(t.Product)
		for _, dep := range g.Dependencies(id) {
			ok = ok && cacheable[dep]
		}
		cacheable[id] = ok
		if ok {
			plan.Order = append(plan.Order, id)
		}
	}

	// File digests are memoized for this plan only.
	files, err := hash.NewFileDigester(o.digestCache, o.workers)
	if err != nil {
		return nil, err
	}
	hasher := hash.New(g, files)
	for _, id := range plan.Order {
		sum, err := hasher.Hash(ctx, id, opts.Profile)
		if err != nil {
			return nil, err
		}
		plan.Hashes[id] = sum
	}

	cached := make([]bool, len(plan.Order))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for i, id := range plan.Order {
		eg.Go(func() error {
			ok, err := o.store.Exists(ectx, plan.Hashes[id])
			if err != nil {
				return fmt.Errorf("checking cache for %s: %w", id, err)
			}
			cached[i] = ok
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	explicit := make(map[buildgraph.GraphTarget]bool, len(requested))
	if opts.DependenciesOnly {
		for _, id := range requested {
			explicit[id] = true
		}
	}

	for i, id := range plan.Order {
		if cached[i] {
			plan.Cached[id] = true
			continue
		}
		if explicit[id] {
			plan.Excluded[id] = true
			continue
		}
		plan.Build = append(plan.Build, id)
	}

	return plan, nil
}

// resolveTargets maps target names to graph targets. A name matches every
// target with that name across projects.
func resolveTargets(g *buildgraph.Graph, names []string) ([]buildgraph.GraphTarget, error) {
	var out []buildgraph.GraphTarget
	for _, name := range names {
		found := g.Find(name)
		if len(found) == 0 {
			return nil, oerrors.NewNotFoundError(fmt.Sprintf("target %q is not in the graph", name), "", "Run 'forge cache hashes' to list targets")
		}
		out = append(out, found...)
	}
	return out, nil
}
