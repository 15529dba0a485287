// Package cmdutil provides shared command utilities for the forge commands.
// It centralizes flag groups, wiring of the graph generator, cache stores
// and builders from configuration, and error reporting.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/output"
)

// GraphFlags holds flags that select the platforms and tools version of a
// generated dependencies graph (deps generate, deps diff).
type GraphFlags struct {
	Platforms    []string
	ToolsVersion string
	ArtifactsDir string
}

// AddTo registers the graph flags on the given cobra command.
func (f *GraphFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.Platforms, "platform", nil,
		"Platforms to generate for (default: from config, else all declared)")
	cmd.Flags().StringVar(&f.ToolsVersion, "tools-version", "",
		"Tools version of the generated projects (default: from config)")
	cmd.Flags().StringVar(&f.ArtifactsDir, "artifacts-dir", "",
		"Directory holding binary target artifacts (default: <workspace>/artifacts)")
}

// SourceFlags holds flags that select where the build graph of a cache
// command comes from (cache warm, cache hashes).
type SourceFlags struct {
	GraphFile string
	Workspace string
}

// AddTo registers the source flags on the given cobra command.
func (f *SourceFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.GraphFile, "graph", "g", "",
		"Build graph file (YAML or JSON); mutually exclusive with --workspace")
	cmd.Flags().StringVarP(&f.Workspace, "workspace", "w", "",
		"Workspace root to generate the graph from (default: current directory)")
}

// Validate checks that at most one source is provided.
func (f *SourceFlags) Validate() error {
	if f.GraphFile != "" && f.Workspace != "" {
		return fmt.Errorf("--graph and --workspace are mutually exclusive")
	}
	return nil
}

// CacheFlags holds flags common to commands that hash targets
// (cache warm, cache hashes).
type CacheFlags struct {
	Profile          string
	Targets          []string
	DependenciesOnly bool
}

// AddTo registers the cache flags on the given cobra command.
func (f *CacheFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Profile, "profile", "p", "",
		"Cache profile (default: from config)")
	cmd.Flags().StringArrayVarP(&f.Targets, "target", "t", nil,
		"Target to process (can be repeated; default: all targets)")
	cmd.Flags().BoolVar(&f.DependenciesOnly, "dependencies-only", false,
		"Process only the dependencies of the selected targets")
}

// ParseFormat validates a --output value against the allowed formats.
func ParseFormat(value string, allowed []string) (output.Format, error) {
	format, ok := output.ParseFormat(value)
	if ok {
		for _, a := range allowed {
			if string(format) == a {
				return format, nil
			}
		}
	}
	return "", fmt.Errorf("invalid output format %q (valid: %s)", value, strings.Join(allowed, ", "))
}

// ResolveWorkspacePath returns the workspace path from command args,
// defaulting to the current directory.
func ResolveWorkspacePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
