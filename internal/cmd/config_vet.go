package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/cmdutil"
	"github.com/graphforge/forge/internal/config"
	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the configuration file",
		Long: `Validate the forge configuration file.

Checks that profiles name a known output kind, the default profile exists,
the worker count is not negative, product type overrides are valid and a
remote cache, when configured, has an endpoint, bucket and credentials.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigVet(cmd, gc)
		},
	}
}

func runConfigVet(cmd *cobra.Command, gc *cmdutil.GlobalConfig) error {
	exists, err := config.ConfigFileExists(gc.ConfigPath)
	if err != nil {
		return err
	}
	if !exists {
		return cmdutil.ExitError("config vet failed", oerrors.NewNotFoundError(
			"configuration file does not exist",
			gc.ConfigPath,
			"Run 'forge config init' to create one.",
		))
	}

	if err := config.ValidateFile(gc.ConfigPath); err != nil {
		return cmdutil.ExitError("config vet failed", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Config is valid: "+gc.ConfigPath))
	return nil
}
