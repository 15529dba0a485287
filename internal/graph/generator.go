package graph

import (
	"context"
	"path/filepath"

	"github.com/graphforge/forge/internal/manifest"
	"github.com/graphforge/forge/internal/output"
)

// ArtifactsDir is the default directory under the resolution root holding
// binary target artifacts.
const ArtifactsDir = "artifacts"

// Generator produces the dependencies graph of a resolution root.
type Generator struct {
	resolver *Resolver
	opts     Options
}

// NewGenerator creates a Generator loading manifests from store.
func NewGenerator(store manifest.Store, workers int, opts Options) *Generator {
	return &Generator{
		resolver: &Resolver{Store: store, Workers: workers},
		opts:     opts,
	}
}

// Generate resolves every package under root and projects the graph.
// Any resolution error aborts the whole generation.
func (g *Generator) Generate(ctx context.Context, root string) (*DependenciesGraph, error) {
	pkgs, err := g.resolver.Resolve(ctx, root)
	if err != nil {
		return nil, err
	}

	idx, err := BuildIndices(pkgs)
	if err != nil {
		return nil, err
	}

	opts := g.opts
	if opts.ArtifactsDir == "" {
		opts.ArtifactsDir = filepath.Join(root, ArtifactsDir)
	}

	pre, err := Preprocess(pkgs, idx, opts.ArtifactsDir)
	if err != nil {
		return nil, err
	}

	result, err := ProjectPackages(pkgs, idx, pre, opts)
	if err != nil {
		return nil, err
	}

	output.Debug("generated dependencies graph",
		"packages", len(result.ExternalProjects),
		"products", len(result.ExternalDependencies))
	return result, nil
}
