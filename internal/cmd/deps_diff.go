package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/graphforge/forge/internal/cmdutil"
	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/output"
)

// NewDepsDiffCmd creates the deps diff command.
func NewDepsDiffCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	var gf cmdutil.GraphFlags

	cmd := &cobra.Command{
		Use:   "diff <previous> [workspace]",
		Short: "Compare a previous graph with a fresh one",
		Long: `Compare a previously generated dependencies graph with the graph the
workspace produces now, using a semantic YAML diff (via dyff).

Arguments:
  previous     Graph file written by 'forge deps generate' (YAML or JSON)
  workspace    Workspace root (default: current directory)

Examples:
  # Show what changed since graph.yaml was written
  forge deps diff graph.yaml

  # Compare against another workspace
  forge deps diff graph.yaml ./deps --platform ios`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsDiff(cmd, args, gc, gf)
		},
	}

	gf.AddTo(cmd)

	return cmd
}

func runDepsDiff(cmd *cobra.Command, args []string, gc *cmdutil.GlobalConfig, gf cmdutil.GraphFlags) error {
	previousPath := args[0]
	previous, err := os.ReadFile(previousPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cmdutil.ExitError("reading previous graph failed",
				oerrors.NewNotFoundError("previous graph file does not exist", previousPath, "Write one with 'forge deps generate --out-file'."))
		}
		return &ExitError{Code: ExitGeneralError, Err: fmt.Errorf("reading %s: %w", previousPath, err)}
	}

	cfg, err := gc.Require()
	if err != nil {
		return cmdutil.ExitError("invalid configuration", err)
	}

	root := cmdutil.ResolveWorkspacePath(args[1:])
	gen, err := cmdutil.NewGenerator(cfg, gf)
	if err != nil {
		return &ExitError{Code: ExitGeneralError, Err: err}
	}

	dg, err := cmdutil.Generate(cmd.Context(), gen, root)
	if err != nil {
		return cmdutil.ExitError("generating dependencies graph failed", err)
	}

	current, err := yaml.Marshal(dg)
	if err != nil {
		return &ExitError{Code: ExitGeneralError, Err: fmt.Errorf("encoding graph: %w", err)}
	}

	report, err := output.DiffYAML(previousPath, previous, "generated", current, output.IsTTY())
	if err != nil {
		return &ExitError{Code: ExitValidationError, Err: err}
	}
	if report == "" {
		output.Info(output.FormatCheckmark("no changes"))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), report)
	return nil
}
