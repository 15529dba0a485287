package cmd

import (
	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/cmdutil"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the forge CLI.`,
	}

	cmd.AddCommand(
		NewConfigInitCmd(gc),
		NewConfigShowCmd(gc),
		NewConfigVetCmd(gc),
	)

	return cmd
}
