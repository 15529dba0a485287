package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/cache"
	"github.com/graphforge/forge/internal/cmdutil"
	"github.com/graphforge/forge/internal/config"
	"github.com/graphforge/forge/internal/output"
)

// NewCacheLsCmd creates the cache ls command.
func NewCacheLsCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List entries stored in the local cache",
		Long: `List the entries recorded in the local cache index, oldest first.

Examples:
  forge cache ls
  forge cache ls -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheLs(cmd, gc, outputFlag)
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "table",
		"Output format: table, json, yaml")

	return cmd
}

func runCacheLs(cmd *cobra.Command, gc *cmdutil.GlobalConfig, outputFmt string) error {
	format, err := cmdutil.ParseFormat(outputFmt, output.ValidListFormats())
	if err != nil {
		return &ExitError{Code: ExitValidationError, Err: err}
	}

	cfg, err := gc.Require()
	if err != nil {
		return cmdutil.ExitError("invalid configuration", err)
	}

	dir, err := config.EnsureDir(cfg.CacheDir)
	if err != nil {
		return &ExitError{Code: ExitGeneralError, Err: fmt.Errorf("creating cache directory: %w", err)}
	}
	index, err := cache.OpenIndex(config.IndexFile(dir))
	if err != nil {
		return &ExitError{Code: ExitGeneralError, Err: err}
	}
	defer index.Close()

	entries, err := index.Entries(cmd.Context())
	if err != nil {
		return &ExitError{Code: ExitGeneralError, Err: err}
	}

	if format != output.FormatTable {
		if entries == nil {
			entries = []cache.Entry{}
		}
		if err := output.WriteDocument(cmd.OutOrStdout(), entries, format); err != nil {
			return &ExitError{Code: ExitGeneralError, Err: err}
		}
		return nil
	}

	if len(entries) == 0 {
		output.Info("cache is empty", "dir", dir)
		return nil
	}

	rows := make([]output.EntryRow, len(entries))
	for i, e := range entries {
		rows[i] = output.EntryRow{
			Hash:     e.Hash,
			Project:  projectName(e.Project),
			Target:   e.Target,
			Profile:  e.Profile,
			Size:     e.Size,
			StoredAt: e.StoredAt,
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.RenderEntryTable(rows))
	return nil
}
