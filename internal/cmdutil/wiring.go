package cmdutil

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/graphforge/forge/internal/artifact"
	"github.com/graphforge/forge/internal/buildgraph"
	"github.com/graphforge/forge/internal/cache"
	"github.com/graphforge/forge/internal/config"
	"github.com/graphforge/forge/internal/graph"
	"github.com/graphforge/forge/internal/manifest"
	"github.com/graphforge/forge/internal/output"
)

// NewGenerator builds a dependencies graph generator from configuration,
// with command-line graph flags taking precedence.
func NewGenerator(cfg *config.Config, gf GraphFlags) (*graph.Generator, error) {
	loader, err := manifest.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("creating manifest loader: %w", err)
	}
	store, err := manifest.NewCachedStore(loader, manifest.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating manifest cache: %w", err)
	}

	opts := cfg.Graph.Options()
	if len(gf.Platforms) > 0 {
		opts.Platforms = gf.Platforms
	}
	if gf.ToolsVersion != "" {
		opts.ToolsVersion = gf.ToolsVersion
	}
	if gf.ArtifactsDir != "" {
		opts.ArtifactsDir = gf.ArtifactsDir
	}

	return graph.NewGenerator(store, cfg.Workers, opts), nil
}

// Generate runs the generator for the workspace at root behind a spinner.
func Generate(ctx context.Context, gen *graph.Generator, root string) (*graph.DependenciesGraph, error) {
	var dg *graph.DependenciesGraph
	err := output.RunWithSpinner(ctx, "Resolving packages", func(ctx context.Context) error {
		var err error
		dg, err = gen.Generate(ctx, root)
		return err
	})
	return dg, err
}

// LoadBuildGraph loads the build graph named by the source flags: a graph
// file when --graph is set, otherwise a graph generated from the workspace.
func LoadBuildGraph(ctx context.Context, cfg *config.Config, sf SourceFlags) (*buildgraph.Graph, error) {
	if err := sf.Validate(); err != nil {
		return nil, err
	}

	if sf.GraphFile != "" {
		output.Debug("loading build graph", "file", sf.GraphFile)
		return buildgraph.Load(sf.GraphFile)
	}

	root := sf.Workspace
	if root == "" {
		root = "."
	}
	gen, err := NewGenerator(cfg, GraphFlags{})
	if err != nil {
		return nil, err
	}
	dg, err := Generate(ctx, gen, root)
	if err != nil {
		return nil, err
	}
	return buildgraph.FromDependencies(dg)
}

// Cache bundles the stores a cache command works with.
type Cache struct {
	// Store is the local store, chained with the remote store when one is
	// configured.
	Store cache.Store

	Local *cache.LocalStore
	Index *cache.Index
}

// Close releases the index.
func (c *Cache) Close() error {
	if c.Index == nil {
		return nil
	}
	return c.Index.Close()
}

// OpenCache opens the local cache directory, its index and, when configured,
// the remote store.
func OpenCache(cfg *config.Config) (*Cache, error) {
	dir, err := config.EnsureDir(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	local := cache.NewLocalStore(filepath.Join(dir, "entries"))
	index, err := cache.OpenIndex(config.IndexFile(dir))
	if err != nil {
		return nil, err
	}

	c := &Cache{Store: local, Local: local, Index: index}
	if cfg.Remote.Enabled() {
		remote, err := cache.NewS3Store(cfg.Remote.S3())
		if err != nil {
			index.Close()
			return nil, err
		}
		output.Debug("remote cache enabled", "endpoint", cfg.Remote.Endpoint, "bucket", cfg.Remote.Bucket)
		c.Store = cache.NewChain(local, remote)
	}
	return c, nil
}

// NewBuilders creates the framework and bundle builders from configuration.
func NewBuilders(cfg *config.Config) (framework, bundle artifact.Builder, err error) {
	fb, err := artifact.NewCommandBuilder(cfg.Builders.Framework)
	if err != nil {
		return nil, nil, fmt.Errorf("framework builder: %w", err)
	}
	bb, err := artifact.NewCommandBuilder(cfg.Builders.Bundle)
	if err != nil {
		return nil, nil, fmt.Errorf("bundle builder: %w", err)
	}
	return fb, bb, nil
}
