package cmd

import (
	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/cmdutil"
)

// NewDepsCmd creates the deps command group.
func NewDepsCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Dependencies graph operations",
		Long:  `Commands for generating and comparing the dependencies graph of a workspace.`,
	}

	cmd.AddCommand(
		NewDepsGenerateCmd(gc),
		NewDepsDiffCmd(gc),
	)

	return cmd
}
