package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/buildgraph"
	"github.com/graphforge/forge/internal/cache"
	"github.com/graphforge/forge/internal/cmdutil"
	"github.com/graphforge/forge/internal/config"
	"github.com/graphforge/forge/internal/hash"
	"github.com/graphforge/forge/internal/orchestrator"
)

// NewCacheCmd creates the cache command group.
func NewCacheCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Build cache operations",
		Long:  `Commands for hashing build targets and warming the content-addressable cache.`,
	}

	cmd.AddCommand(
		NewCacheWarmCmd(gc),
		NewCacheHashesCmd(gc),
		NewCacheLsCmd(gc),
	)

	return cmd
}

// cacheSession is what cache warm and cache hashes operate on.
type cacheSession struct {
	graph   *buildgraph.Graph
	cache   *cmdutil.Cache
	orch    *orchestrator.Orchestrator
	options orchestrator.Options
}

func (s *cacheSession) Close() error {
	return s.cache.Close()
}

// openCacheSession resolves the profile, loads the build graph and wires an
// orchestrator against the configured stores and builders.
func openCacheSession(ctx context.Context, cfg *config.Config, sf cmdutil.SourceFlags, cf cmdutil.CacheFlags) (*cacheSession, error) {
	profile, ok := cfg.Profile(cf.Profile)
	if !ok {
		return nil, &ExitError{
			Code: ExitValidationError,
			Err:  fmt.Errorf("unknown profile %q (configured: %v)", cf.Profile, cfg.ProfileNames()),
		}
	}

	g, err := cmdutil.LoadBuildGraph(ctx, cfg, sf)
	if err != nil {
		return nil, err
	}

	c, err := cmdutil.OpenCache(cfg)
	if err != nil {
		return nil, err
	}

	framework, bundle, err := cmdutil.NewBuilders(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Store:           c.Store,
		Builder:         framework,
		BundleBuilder:   bundle,
		DigestCacheSize: hash.DefaultDigestCacheSize,
		Workers:         cfg.Workers,
		Recorder:        c.Index,
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	return &cacheSession{
		graph: g,
		cache: c,
		orch:  orch,
		options: orchestrator.Options{
			Profile:          profile,
			Targets:          cf.Targets,
			DependenciesOnly: cf.DependenciesOnly,
		},
	}, nil
}

var _ orchestrator.Recorder = (*cache.Index)(nil)
