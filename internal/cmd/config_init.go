package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/graphforge/forge/internal/cmdutil"
	"github.com/graphforge/forge/internal/config"
	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(gc *cmdutil.GlobalConfig) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the forge CLI configuration.

Writes ~/.forge/config.yaml (or the file named by --config / FORGE_CONFIG)
with the default cache directory, profiles and builder commands.

Examples:
  # Initialize configuration
  forge config init

  # Overwrite existing configuration
  forge config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, gc, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, gc *cmdutil.GlobalConfig, force bool) error {
	configFile := gc.ConfigPath
	if configFile == "" {
		var err error
		if configFile, err = config.GetConfigFile(); err != nil {
			return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
		}
	}
	configFile, err := config.ExpandPath(configFile)
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
	}

	exists, err := config.ConfigFileExists(configFile)
	if err != nil {
		return err
	}
	if exists && !force {
		return cmdutil.ExitError("config init failed", oerrors.NewValidationError(
			"configuration already exists",
			configFile,
			"Use --force to overwrite existing configuration.",
		))
	}

	// Directory 0700 and file 0600: the file may hold remote credentials.
	if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not create "+filepath.Dir(configFile))
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(config.DefaultConfig()); err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.WriteFile(configFile, buf.Bytes(), 0o600); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not write "+configFile)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Configuration initialized at "+configFile))
	fmt.Fprintln(cmd.OutOrStdout(), "Validate with: forge config vet")
	return nil
}
