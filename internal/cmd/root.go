// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/graphforge/forge/internal/cmdutil"
	"github.com/graphforge/forge/internal/config"
	"github.com/graphforge/forge/internal/output"
	"github.com/graphforge/forge/internal/version"
)

// rootFlags are the persistent flags of the root command.
type rootFlags struct {
	config     string
	verbose    bool
	timestamps bool
	cacheDir   string
	workers    int
}

// NewRootCmd creates the root command for the forge CLI.
func NewRootCmd() *cobra.Command {
	var rf rootFlags
	gc := &cmdutil.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "forge",
		Short: "Package graph generator and build cache",
		Long: `forge turns a resolved package workspace into a dependencies graph of
generated projects, and warms a content-addressable cache of prebuilt targets.

It provides commands to:
  - Generate and diff the dependencies graph of a workspace
  - Compute content hashes of build targets
  - Build missing targets and store them in a local or remote cache`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(cmd, gc, &rf)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&rf.config, "config", "c", "", "Path to config file (env: FORGE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&rf.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&rf.timestamps, "timestamps", true, "Show timestamps in log output")
	rootCmd.PersistentFlags().StringVar(&rf.cacheDir, "cache-dir", "", "Cache directory (env: FORGE_CACHE_DIR)")
	rootCmd.PersistentFlags().IntVar(&rf.workers, "workers", 0, "Concurrent workers (env: FORGE_WORKERS)")

	rootCmd.AddCommand(
		NewDepsCmd(gc),
		NewCacheCmd(gc),
		NewConfigCmd(gc),
		NewVersionCmd(),
	)

	return rootCmd
}

// initializeGlobals loads configuration, applies flag precedence and sets up
// logging. A broken config file does not fail here so that commands which do
// not need it (config init, version) keep working; see GlobalConfig.Require.
func initializeGlobals(cmd *cobra.Command, gc *cmdutil.GlobalConfig, rf *rootFlags) error {
	configPath, err := config.ResolveConfigPath(rf.config)
	if err != nil {
		return err
	}
	gc.ConfigPath = configPath.Value
	gc.Verbose = rf.verbose

	loaded, err := config.NewLoader().Load(configPath.Value)
	if err != nil {
		gc.ConfigErr = err
		loaded = &config.Config{}
	}

	resolved, values := config.ResolveConfig(loaded, config.Flags{
		CacheDir: rf.cacheDir,
		Workers:  rf.workers,
	})
	gc.Config = resolved.WithDefaults()
	gc.Resolved = append([]config.ResolvedValue{configPath}, values...)

	if gc.ConfigErr == nil {
		gc.ConfigErr = config.Validate(gc.Config)
	}

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: rf.verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(rf.timestamps)
	} else if gc.Config.Log.Timestamps != nil {
		logCfg.Timestamps = gc.Config.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if rf.verbose {
		info := version.Get()
		output.Debug("forge started", "version", info.Version, "cue_sdk", info.CUESDKVersion)
		config.LogResolvedValues(gc.Resolved)
	}
	if gc.ConfigErr != nil {
		output.Debug("configuration problem", "config", gc.ConfigPath, "error", gc.ConfigErr)
	}

	return nil
}
