// Package config provides configuration loading and management.
package config

import (
	"sort"
	"strings"

	"github.com/graphforge/forge/internal/cache"
	"github.com/graphforge/forge/internal/graph"
)

// ProfileConfig describes one named cache profile.
type ProfileConfig struct {
	// Configuration is the build configuration passed to the builder (e.g. Debug).
	Configuration string `mapstructure:"configuration" yaml:"configuration" json:"configuration"`

	// OutputKind is the artifact kind produced: framework or xcframework.
	OutputKind string `mapstructure:"outputKind" yaml:"outputKind" json:"outputKind"`
}

// BuildersConfig holds the argv templates of the artifact builders.
// Every argument is a text/template over artifact.BuildRequest.
type BuildersConfig struct {
	// Framework builds every cacheable target that is not a bundle.
	Framework []string `mapstructure:"framework" yaml:"framework" json:"framework"`

	// Bundle builds resource bundle targets.
	Bundle []string `mapstructure:"bundle" yaml:"bundle" json:"bundle"`
}

// RemoteConfig configures the optional S3-compatible cache store.
// Env: FORGE_REMOTE_ENDPOINT, FORGE_REMOTE_BUCKET, FORGE_REMOTE_ACCESS_KEY, ...
type RemoteConfig struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket,omitempty" json:"bucket,omitempty"`
	Region    string `mapstructure:"region" yaml:"region,omitempty" json:"region,omitempty"`
	AccessKey string `mapstructure:"accessKey" yaml:"accessKey,omitempty" json:"accessKey,omitempty"`
	SecretKey string `mapstructure:"secretKey" yaml:"secretKey,omitempty" json:"secretKey,omitempty"`
	UseSSL    bool   `mapstructure:"useSSL" yaml:"useSSL,omitempty" json:"useSSL,omitempty"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix,omitempty" json:"prefix,omitempty"`
}

// Enabled reports whether any remote setting is present.
func (r RemoteConfig) Enabled() bool {
	return r.Endpoint != "" || r.Bucket != ""
}

// S3 converts the remote settings to a cache.S3Config.
func (r RemoteConfig) S3() cache.S3Config {
	return cache.S3Config{
		Endpoint:  r.Endpoint,
		Region:    r.Region,
		AccessKey: r.AccessKey,
		SecretKey: r.SecretKey,
		Bucket:    r.Bucket,
		UseSSL:    r.UseSSL,
		Prefix:    r.Prefix,
	}
}

// ProductTypeOverride forces the product type of a product or target.
type ProductTypeOverride struct {
	Name string `mapstructure:"name" yaml:"name" json:"name"`
	Type string `mapstructure:"type" yaml:"type" json:"type"`
}

// DeploymentTarget is the minimum OS version for a platform.
type DeploymentTarget struct {
	Platform string `mapstructure:"platform" yaml:"platform" json:"platform"`
	Version  string `mapstructure:"version" yaml:"version" json:"version"`
}

// GraphConfig contains options for `deps generate`.
//
// Overrides and deployment targets are lists rather than maps because viper
// lowercases map keys and product names are case-sensitive.
type GraphConfig struct {
	Platforms         []string              `mapstructure:"platforms" yaml:"platforms,omitempty" json:"platforms,omitempty"`
	DeploymentTargets []DeploymentTarget    `mapstructure:"deploymentTargets" yaml:"deploymentTargets,omitempty" json:"deploymentTargets,omitempty"`
	ProductTypes      []ProductTypeOverride `mapstructure:"productTypes" yaml:"productTypes,omitempty" json:"productTypes,omitempty"`
	ToolsVersion      string                `mapstructure:"toolsVersion" yaml:"toolsVersion,omitempty" json:"toolsVersion,omitempty"`
	ArtifactsDir      string                `mapstructure:"artifactsDir" yaml:"artifactsDir,omitempty" json:"artifactsDir,omitempty"`
}

// Options converts the graph settings to graph.Options.
func (g GraphConfig) Options() graph.Options {
	opts := graph.Options{
		ArtifactsDir: g.ArtifactsDir,
		Platforms:    g.Platforms,
		ToolsVersion: g.ToolsVersion,
	}
	if len(g.ProductTypes) > 0 {
		opts.ProductTypes = make(map[string]graph.ProductType, len(g.ProductTypes))
		for _, o := range g.ProductTypes {
			opts.ProductTypes[o.Name] = graph.ProductType(o.Type)
		}
	}
	if len(g.DeploymentTargets) > 0 {
		opts.DeploymentTargets = make(map[string]string, len(g.DeploymentTargets))
		for _, d := range g.DeploymentTargets {
			opts.DeploymentTargets[d.Platform] = d.Version
		}
	}
	return opts
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty" json:"timestamps,omitempty"`
}

// Config represents the forge CLI configuration.
// Loaded from ~/.forge/config.yaml.
type Config struct {
	// CacheDir is the root of the local cache store and its index.
	// Env: FORGE_CACHE_DIR, Default: ~/.forge/cache
	CacheDir string `mapstructure:"cacheDir" yaml:"cacheDir,omitempty" json:"cacheDir,omitempty"`

	// Workers bounds concurrent builds, manifest loads and file digests.
	// Env: FORGE_WORKERS, Default: 4
	Workers int `mapstructure:"workers" yaml:"workers,omitempty" json:"workers,omitempty"`

	// DefaultProfile names the profile used when --profile is not given.
	// Env: FORGE_PROFILE
	DefaultProfile string `mapstructure:"defaultProfile" yaml:"defaultProfile,omitempty" json:"defaultProfile,omitempty"`

	// Profiles maps profile names to their settings. Names are case-insensitive.
	Profiles map[string]ProfileConfig `mapstructure:"profiles" yaml:"profiles,omitempty" json:"profiles,omitempty"`

	Builders BuildersConfig `mapstructure:"builders" yaml:"builders" json:"builders"`

	Remote RemoteConfig `mapstructure:"remote" yaml:"remote,omitempty" json:"remote,omitempty"`

	Graph GraphConfig `mapstructure:"graph" yaml:"graph,omitempty" json:"graph,omitempty"`

	Log LogConfig `mapstructure:"log" yaml:"log,omitempty" json:"log,omitempty"`
}

// DefaultWorkers is the worker count when none is configured.
const DefaultWorkers = 4

// DefaultConfig returns a Config with all default values populated.
// Used by `forge config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:       "~/.forge/cache",
		Workers:        DefaultWorkers,
		DefaultProfile: cache.DefaultProfileName,
		Profiles: map[string]ProfileConfig{
			cache.DefaultProfileName: {Configuration: "Debug", OutputKind: string(cache.OutputFramework)},
			"release":                {Configuration: "Release", OutputKind: string(cache.OutputXCFramework)},
		},
		Builders: BuildersConfig{
			Framework: []string{
				"xcodebuild", "build",
				"-project", "{{.Project}}",
				"-target", "{{.Target}}",
				"-configuration", "{{.Configuration}}",
				"CONFIGURATION_BUILD_DIR={{.OutputDir}}",
			},
			Bundle: []string{
				"xcodebuild", "build",
				"-project", "{{.Project}}",
				"-target", "{{.Target}}",
				"-configuration", "{{.Configuration}}",
				"CONFIGURATION_BUILD_DIR={{.OutputDir}}",
				"WRAPPER_EXTENSION=bundle",
			},
		},
	}
}

// WithDefaults returns a copy of c with unset fields taken from DefaultConfig.
func (c *Config) WithDefaults() *Config {
	d := DefaultConfig()
	out := *c
	if out.CacheDir == "" {
		out.CacheDir = d.CacheDir
	}
	if out.Workers == 0 {
		out.Workers = d.Workers
	}
	if out.DefaultProfile == "" {
		out.DefaultProfile = d.DefaultProfile
	}
	if len(out.Profiles) == 0 {
		out.Profiles = d.Profiles
	}
	if len(out.Builders.Framework) == 0 {
		out.Builders.Framework = d.Builders.Framework
	}
	if len(out.Builders.Bundle) == 0 {
		out.Builders.Bundle = d.Builders.Bundle
	}
	return &out
}

// Profile returns the named cache profile. An empty name selects DefaultProfile.
func (c *Config) Profile(name string) (cache.Profile, bool) {
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		name = cache.DefaultProfileName
	}
	key := strings.ToLower(name)
	p, ok := c.Profiles[key]
	if !ok {
		if key == cache.DefaultProfileName {
			return cache.DefaultProfile(), true
		}
		return cache.Profile{}, false
	}
	return cache.Profile{
		Name:          key,
		Configuration: p.Configuration,
		OutputKind:    cache.OutputKind(p.OutputKind),
	}, true
}

// ProfileNames returns the configured profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
