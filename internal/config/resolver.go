package config

import (
	"os"
	"strconv"

	"github.com/graphforge/forge/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records how one configuration key was resolved.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource

	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveOptions contains the candidate values for one key.
type ResolveOptions struct {
	// Key is the config key, used for logging.
	Key string
	// FlagValue is the flag value (empty if not set).
	FlagValue string
	// EnvVar is the environment variable consulted after the flag.
	EnvVar string
	// ConfigValue is the value from the config file (empty if not set).
	ConfigValue string
	// DefaultValue is the built-in default.
	DefaultValue string
}

// Resolve resolves a value using precedence:
// (1) flag, (2) environment variable, (3) config file, (4) default.
func Resolve(opts ResolveOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      opts.Key,
		Shadowed: make(map[ConfigSource]string),
	}

	var envValue string
	if opts.EnvVar != "" {
		envValue = os.Getenv(opts.EnvVar)
	}

	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, opts.FlagValue},
		{SourceEnv, envValue},
		{SourceConfig, opts.ConfigValue},
		{SourceDefault, opts.DefaultValue},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}

	return result
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) FORGE_CONFIG env, (3) ~/.forge/config.yaml default
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}

	return Resolve(ResolveOptions{
		Key:          "config",
		FlagValue:    flagValue,
		EnvVar:       "FORGE_CONFIG",
		DefaultValue: paths.ConfigFile,
	}), nil
}

// Flags carries the command-line values that override configuration.
type Flags struct {
	CacheDir string
	Profile  string
	Workers  int
}

// ResolveConfig applies flag > env > config > default precedence to the
// keys that have flags and returns the resulting config with the trail of
// resolved values. The env layer is read directly because viper already
// folded it into cfg.
func ResolveConfig(cfg *Config, flags Flags) (*Config, []ResolvedValue) {
	defaults := DefaultConfig()
	out := *cfg

	cacheDir := Resolve(ResolveOptions{
		Key:          "cacheDir",
		FlagValue:    flags.CacheDir,
		EnvVar:       "FORGE_CACHE_DIR",
		ConfigValue:  cfg.CacheDir,
		DefaultValue: defaults.CacheDir,
	})
	out.CacheDir = cacheDir.Value

	profile := Resolve(ResolveOptions{
		Key:          "defaultProfile",
		FlagValue:    flags.Profile,
		EnvVar:       "FORGE_PROFILE",
		ConfigValue:  cfg.DefaultProfile,
		DefaultValue: defaults.DefaultProfile,
	})
	out.DefaultProfile = profile.Value

	workers := Resolve(ResolveOptions{
		Key:          "workers",
		FlagValue:    itoa(flags.Workers),
		EnvVar:       "FORGE_WORKERS",
		ConfigValue:  itoa(cfg.Workers),
		DefaultValue: itoa(defaults.Workers),
	})
	if n, err := strconv.Atoi(workers.Value); err == nil {
		out.Workers = n
	}

	return &out, []ResolvedValue{cacheDir, profile, workers}
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
