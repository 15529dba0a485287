package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/graphforge/forge/internal/artifact"
	"github.com/graphforge/forge/internal/buildgraph"
	"github.com/graphforge/forge/internal/cache"
	"github.com/graphforge/forge/internal/graph"
	"github.com/graphforge/forge/internal/output"
)

// Recorder records stored entries, for example in the cache index.
type Recorder interface {
	Record(ctx context.Context, e cache.Entry) error
}

// Config wires an Orchestrator.
type Config struct {
	Store cache.Store

	// Builder builds every target except bundles.
	Builder artifact.Builder

	// BundleBuilder builds bundle targets.
	BundleBuilder artifact.Builder

	// DigestCacheSize bounds the file digests memoized during one plan. Zero
	// selects hash.DefaultDigestCacheSize.
	DigestCacheSize int

	// Workers bounds concurrent builds, cache lookups and file digests. Zero
	// means 1.
	Workers int

	// Recorder is optional.
	Recorder Recorder

	// TempDir is where per-build output directories are created. Empty means
	// the system default.
	TempDir string
}

// Orchestrator warms a cache store from a build graph.
type Orchestrator struct {
	store         cache.Store
	builder       artifact.Builder
	bundleBuilder artifact.Builder
	digestCache   int
	workers       int
	recorder      Recorder
	tempDir       string
}

// New creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Store == nil {
		return nil, errors.New("orchestrator: cache store is required")
	}
	if cfg.Builder == nil || cfg.BundleBuilder == nil {
		return nil, errors.New("orchestrator: framework and bundle builders are required")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Orchestrator{
		store:         cfg.Store,
		builder:       cfg.Builder,
		bundleBuilder: cfg.BundleBuilder,
		digestCache:   cfg.DigestCacheSize,
		workers:       workers,
		recorder:      cfg.Recorder,
		tempDir:       cfg.TempDir,
	}, nil
}

// Result summarizes a run.
type Result struct {
	// Built counts targets built and stored.
	Built int

	// Skipped lists cache hits in dependency order.
	Skipped []buildgraph.GraphTarget

	// Order lists targets scheduled for building, dependencies first.
	Order []buildgraph.GraphTarget

	Hashes map[buildgraph.GraphTarget]string
	States States
}

type buildResult struct {
	target buildgraph.GraphTarget
	err    error
}

// Run plans and executes a cache warm. A target is built only after all its
// direct dependencies reached a terminal state; independent targets build
// concurrently up to the worker limit. The first failure stops scheduling,
// lets in-flight builds finish and is returned as a *BuildError together with
// the partial Result.
func (o *Orchestrator) Run(ctx context.Context, g *buildgraph.Graph, opts Options) (*Result, error) {
	plan, err := o.Plan(ctx, g, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Order:  plan.Build,
		Hashes: plan.Hashes,
		States: make(States, len(plan.Order)),
	}
	for _, id := range plan.Order {
		res.States[id] = StatePending
		if err := res.States.Transition(id, StateHashed); err != nil {
			return nil, err
		}
	}

	for _, id := range plan.Order {
		if !plan.Cached[id] {
			continue
		}
		output.TargetLogger(id.Name).Info("already in the cache, skipping", "hash", output.FormatHash(plan.Hashes[id]))
		if err := res.States.Transition(id, StateSkipped); err != nil {
			return nil, err
		}
		res.Skipped = append(res.Skipped, id)
	}

	if len(plan.Build) == 0 {
		output.Info("all targets are cached", "profile", opts.Profile.Name)
		return res, nil
	}

	position := make(map[buildgraph.GraphTarget]int, len(plan.Build))
	for i, id := range plan.Build {
		position[id] = i
	}

	remaining := make(map[buildgraph.GraphTarget]int, len(plan.Build))
	dependents := make(map[buildgraph.GraphTarget][]buildgraph.GraphTarget)
	var ready []int
	for i, id := range plan.Build {
		for _, dep := range g.Dependencies(id) {
			if _, scheduled := position[dep]; scheduled {
				remaining[id]++
				dependents[dep] = append(dependents[dep], id)
			}
		}
		if remaining[id] == 0 {
			ready = append(ready, i)
		}
	}

	// Buffered so in-flight builds never block once the loop has returned.
	results := make(chan buildResult, len(plan.Build))
	running, started := 0, 0
	var firstErr error

	for {
		for firstErr == nil && running < o.workers && len(ready) > 0 {
			id := plan.Build[ready[0]]
			ready = ready[1:]
			if err := res.States.Transition(id, StateBuilding); err != nil {
				return res, err
			}

			started++
			target, _ := g.Target(id)
			output.TargetLogger(id.Name).Info(fmt.Sprintf("building, %d out of %d", started, len(plan.Build)))

			running++
			go func() {
				results <- buildResult{target: id, err: o.buildOne(ctx, target, plan.Hashes[id], opts.Profile)}
			}()
		}

		if running == 0 {
			break
		}

		r := <-results
		running--

		if r.err != nil {
			if err := res.States.Transition(r.target, StateFailed); err != nil {
				return res, err
			}
			output.TargetLogger(r.target.Name).Error("build failed", "err", r.err)
			if firstErr == nil {
				firstErr = &BuildError{Target: r.target, Cause: r.err}
			}
			continue
		}

		if err := res.States.Transition(r.target, StateStored); err != nil {
			return res, err
		}
		res.Built++
		output.TargetLogger(r.target.Name).Info(output.StatusStyle(output.StatusStored).Render(output.StatusStored),
			"hash", output.FormatHash(plan.Hashes[r.target]))

		for _, d := range dependents[r.target] {
			remaining[d]--
			if remaining[d] == 0 {
				i := position[d]
				at, _ := slices.BinarySearch(ready, i)
				ready = slices.Insert(ready, at, i)
			}
		}
	}

	return res, firstErr
}

// buildOne builds a target into a scoped temporary directory and stores its
// outputs. The directory is removed on every path once the store returns.
func (o *Orchestrator) buildOne(ctx context.Context, t *buildgraph.Target, sum string, profile cache.Profile) error {
	dir, err := os.MkdirTemp(o.tempDir, "forge-build-")
	if err != nil {
		return fmt.Errorf("creating build directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			output.Warn("removing build directory", "dir", dir, "err", err)
		}
	}()

	req := artifact.BuildRequest{
		Project:       t.Project,
		Target:        t.Name,
		Product:       t.Product,
		Configuration: profile.Configuration,
		OutputKind:    profile.OutputKind,
		OutputDir:     dir,
	}
	if err := o.builderFor(t.Product).Build(ctx, req); err != nil {
		return err
	}

	outputs, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return fmt.Errorf("listing build outputs: %w", err)
	}
	if len(outputs) == 0 {
		output.TargetLogger(t.Name).Warn("builder produced no outputs")
	}

	if err := o.store.Store(ctx, sum, outputs); err != nil {
		return fmt.Errorf("storing outputs: %w", err)
	}

	if o.recorder != nil {
		size, err := cache.SizeOf(outputs)
		if err != nil {
			output.Debug("measuring outputs", "err", err)
		}
		entry := cache.Entry{
			Hash:     sum,
			Project:  t.Project,
			Target:   t.Name,
			Profile:  profile.Name,
			Size:     size,
			StoredAt: time.Now(),
		}
		if err := o.recorder.Record(ctx, entry); err != nil {
			output.Warn("recording cache entry", "target", t.Name, "err", err)
		}
	}
	return nil
}

// builderFor selects the builder by product type alone.
func (o *Orchestrator) builderFor(p graph.ProductType) artifact.Builder {
	if p == graph.ProductBundle {
		return o.bundleBuilder
	}
	return o.builder
}
