package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/cmdutil"
	"github.com/graphforge/forge/internal/orchestrator"
	"github.com/graphforge/forge/internal/output"
)

// NewCacheWarmCmd creates the cache warm command.
func NewCacheWarmCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	var (
		sf cmdutil.SourceFlags
		cf cmdutil.CacheFlags
	)

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Build missing targets and store them in the cache",
		Long: `Warm the cache: hash every cacheable target, skip the ones whose hash
is already stored, then build the rest in dependency order and store their
outputs under their content hash.

Only framework, static framework and bundle targets are cached, and only when
all their dependencies are cacheable. Bundles are built with the bundle
builder, everything else with the framework builder (see 'builders' in the
config file).

Examples:
  # Warm the cache for the workspace in the current directory
  forge cache warm

  # Warm only what AppFeature depends on, with the release profile
  forge cache warm -t AppFeature --dependencies-only -p release

  # Warm from a graph written by 'forge deps generate'
  forge cache warm --graph graph.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheWarm(cmd, gc, sf, cf)
		},
	}

	sf.AddTo(cmd)
	cf.AddTo(cmd)

	return cmd
}

func runCacheWarm(cmd *cobra.Command, gc *cmdutil.GlobalConfig, sf cmdutil.SourceFlags, cf cmdutil.CacheFlags) error {
	cfg, err := gc.Require()
	if err != nil {
		return cmdutil.ExitError("invalid configuration", err)
	}

	ctx := cmd.Context()
	session, err := openCacheSession(ctx, cfg, sf, cf)
	if err != nil {
		return cmdutil.ExitError("preparing cache warm failed", err)
	}
	defer session.Close()

	output.Debug("warming cache",
		"profile", session.options.Profile.String(),
		"targets", len(cf.Targets),
		"workers", cfg.Workers,
	)

	result, runErr := session.orch.Run(ctx, session.graph, session.options)
	if result != nil {
		writeWarmSummary(cmd, result)
	}
	if runErr != nil {
		return cmdutil.ExitError("cache warm failed", runErr)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark(
		fmt.Sprintf("%d built, %d already cached", result.Built, len(result.Skipped))))
	return nil
}

// writeWarmSummary prints one line per target that reached a terminal state.
func writeWarmSummary(cmd *cobra.Command, result *orchestrator.Result) {
	w := cmd.OutOrStdout()
	for _, id := range result.Skipped {
		fmt.Fprintln(w, output.FormatTargetLine(projectName(id.Project), id.Name, output.StatusSkipped))
	}
	for _, id := range result.Order {
		var status string
		switch result.States[id] {
		case orchestrator.StateStored:
			status = output.StatusBuilt
		case orchestrator.StateFailed:
			status = output.StatusFailed
		default:
			continue
		}
		fmt.Fprintln(w, output.FormatTargetLine(projectName(id.Project), id.Name, status))
	}
}
