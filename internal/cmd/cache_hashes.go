package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/cmdutil"
	"github.com/graphforge/forge/internal/orchestrator"
	"github.com/graphforge/forge/internal/output"
)

// targetHash is one row of `cache hashes`.
type targetHash struct {
	Project string `json:"project"`
	Target  string `json:"target"`
	Product string `json:"product"`
	Hash    string `json:"hash"`
	Status  string `json:"status"`
}

// NewCacheHashesCmd creates the cache hashes command.
func NewCacheHashesCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	var (
		sf         cmdutil.SourceFlags
		cf         cmdutil.CacheFlags
		outputFlag string
	)

	cmd := &cobra.Command{
		Use:   "hashes",
		Short: "Print the content hash of every cacheable target",
		Long: `Print the content hash of every cacheable target, in dependency order,
and whether the cache already holds it. Nothing is built.

Examples:
  # Hashes for the workspace in the current directory
  forge cache hashes

  # Hashes of AppFeature and its dependencies as JSON
  forge cache hashes -t AppFeature -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheHashes(cmd, gc, sf, cf, outputFlag)
		},
	}

	sf.AddTo(cmd)
	cf.AddTo(cmd)
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "table",
		"Output format: table, json, yaml")

	return cmd
}

func runCacheHashes(cmd *cobra.Command, gc *cmdutil.GlobalConfig, sf cmdutil.SourceFlags, cf cmdutil.CacheFlags, outputFmt string) error {
	format, err := cmdutil.ParseFormat(outputFmt, output.ValidListFormats())
	if err != nil {
		return &ExitError{Code: ExitValidationError, Err: err}
	}

	cfg, err := gc.Require()
	if err != nil {
		return cmdutil.ExitError("invalid configuration", err)
	}

	ctx := cmd.Context()
	session, err := openCacheSession(ctx, cfg, sf, cf)
	if err != nil {
		return cmdutil.ExitError("preparing cache lookup failed", err)
	}
	defer session.Close()

	var plan *orchestrator.Plan
	err = output.RunWithSpinner(ctx, "Hashing targets", func(ctx context.Context) error {
		var err error
		plan, err = session.orch.Plan(ctx, session.graph, session.options)
		return err
	})
	if err != nil {
		return cmdutil.ExitError("hashing targets failed", err)
	}

	rows := hashRows(session, plan)
	if format != output.FormatTable {
		if err := output.WriteDocument(cmd.OutOrStdout(), rows, format); err != nil {
			return &ExitError{Code: ExitGeneralError, Err: err}
		}
		return nil
	}

	tableRows := make([]output.HashRow, len(rows))
	for i, r := range rows {
		tableRows[i] = output.HashRow{
			Project: projectName(r.Project),
			Target:  r.Target,
			Product: r.Product,
			Hash:    r.Hash,
			Status:  r.Status,
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.RenderHashTable(tableRows))
	return nil
}

func hashRows(session *cacheSession, plan *orchestrator.Plan) []targetHash {
	rows := make([]targetHash, 0, len(plan.Order))
	for _, id := range plan.Order {
		t, _ := session.graph.Target(id)
		status := output.StatusMissing
		switch {
		case plan.Cached[id]:
			status = output.StatusCached
		case plan.Excluded[id]:
			status = output.StatusExcluded
		}
		rows = append(rows, targetHash{
			Project: id.Project,
			Target:  id.Name,
			Product: string(t.Product),
			Hash:    plan.Hashes[id],
			Status:  status,
		})
	}
	return rows
}

func projectName(path string) string {
	return filepath.Base(path)
}
