package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/cmdutil"
	"github.com/graphforge/forge/internal/output"
)

// NewDepsGenerateCmd creates the deps generate command.
func NewDepsGenerateCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	var gf cmdutil.GraphFlags

	var (
		outputFlag  string
		outFileFlag string
	)

	cmd := &cobra.Command{
		Use:   "generate [workspace]",
		Short: "Generate the dependencies graph",
		Long: `Generate the dependencies graph of a resolved workspace.

The workspace root holds workspace-state.json, which lists the resolved
packages. Remote packages are read from checkouts/<subpath>, local packages
from their declared path. Each package manifest (package.json or package.cue)
becomes one generated project; every product becomes an entry of
externalDependencies.

Arguments:
  workspace    Workspace root (default: current directory)

Examples:
  # Generate the graph of the current workspace as YAML
  forge deps generate

  # Generate for iOS only, as JSON, into a file
  forge deps generate ./deps --platform ios -o json --out-file graph.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsGenerate(cmd, args, gc, gf, outputFlag, outFileFlag)
		},
	}

	gf.AddTo(cmd)
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "yaml",
		"Output format: yaml, json")
	cmd.Flags().StringVar(&outFileFlag, "out-file", "",
		"Write the graph to this file instead of stdout")

	return cmd
}

func runDepsGenerate(cmd *cobra.Command, args []string, gc *cmdutil.GlobalConfig, gf cmdutil.GraphFlags, outputFmt, outFile string) error {
	format, err := cmdutil.ParseFormat(outputFmt, output.ValidDocumentFormats())
	if err != nil {
		return &ExitError{Code: ExitValidationError, Err: err}
	}

	cfg, err := gc.Require()
	if err != nil {
		return cmdutil.ExitError("invalid configuration", err)
	}

	root := cmdutil.ResolveWorkspacePath(args)
	gen, err := cmdutil.NewGenerator(cfg, gf)
	if err != nil {
		return &ExitError{Code: ExitGeneralError, Err: err}
	}

	dg, err := cmdutil.Generate(cmd.Context(), gen, root)
	if err != nil {
		return cmdutil.ExitError("generating dependencies graph failed", err)
	}

	if outFile != "" {
		err = writeDocumentFile(outFile, dg, format)
	} else {
		err = output.WriteDocument(cmd.OutOrStdout(), dg, format)
	}
	if err != nil {
		return &ExitError{Code: ExitGeneralError, Err: fmt.Errorf("writing graph: %w", err)}
	}

	output.Info(output.FormatCheckmark(fmt.Sprintf("generated %d projects exposing %d products",
		len(dg.ExternalProjects), len(dg.ExternalDependencies))))
	return nil
}

// writeDocumentFile writes v to path. A failed close is reported, since it
// can mean the document was not fully written.
func writeDocumentFile(path string, v any, format output.Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return output.WriteDocument(f, v, format)
}
