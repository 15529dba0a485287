package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/graphforge/forge/internal/cmdutil"
)

const redacted = "********"

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long: `Print the configuration forge runs with, after applying flags,
FORGE_* environment variables, the config file and built-in defaults.
The remote secret key is redacted. With --verbose the source of every
flag-backed value is logged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, gc)
		},
	}
}

func runConfigShow(cmd *cobra.Command, gc *cmdutil.GlobalConfig) error {
	cfg, err := gc.Require()
	if err != nil {
		return cmdutil.ExitError("invalid configuration", err)
	}

	shown := *cfg
	if shown.Remote.SecretKey != "" {
		shown.Remote.SecretKey = redacted
	}

	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", gc.ConfigPath)
	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(&shown); err != nil {
		return &ExitError{Code: ExitGeneralError, Err: fmt.Errorf("encoding config: %w", err)}
	}
	return encoder.Close()
}
