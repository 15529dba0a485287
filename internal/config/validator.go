package config

import (
	"fmt"
	"strings"

	"github.com/graphforge/forge/internal/cache"
	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/graph"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap classifies every validation failure as oerrors.ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validate checks cfg for values the commands cannot work with.
// It returns ValidationErrors listing every problem, or nil.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Workers < 0 {
		errs = append(errs, ValidationError{
			Field:   "workers",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Workers),
		})
	}

	if cfg.CacheDir != "" && strings.TrimSpace(cfg.CacheDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "cacheDir",
			Message: "must not be empty or whitespace only",
		})
	}

	for _, name := range cfg.ProfileNames() {
		p := cfg.Profiles[name]
		if !cache.OutputKind(p.OutputKind).Valid() {
			errs = append(errs, ValidationError{
				Field:   "profiles." + name + ".outputKind",
				Message: fmt.Sprintf("unknown output kind %q (want %q or %q)", p.OutputKind, cache.OutputFramework, cache.OutputXCFramework),
			})
		}
		if strings.TrimSpace(p.Configuration) == "" {
			errs = append(errs, ValidationError{
				Field:   "profiles." + name + ".configuration",
				Message: "is required",
			})
		}
	}

	if cfg.DefaultProfile != "" {
		if _, ok := cfg.Profile(cfg.DefaultProfile); !ok {
			errs = append(errs, ValidationError{
				Field:   "defaultProfile",
				Message: fmt.Sprintf("profile %q is not defined", cfg.DefaultProfile),
			})
		}
	}

	if cfg.Remote.Enabled() {
		if cfg.Remote.Endpoint == "" {
			errs = append(errs, ValidationError{Field: "remote.endpoint", Message: "is required when a remote cache is configured"})
		}
		if cfg.Remote.Bucket == "" {
			errs = append(errs, ValidationError{Field: "remote.bucket", Message: "is required when a remote cache is configured"})
		}
		if cfg.Remote.AccessKey == "" {
			errs = append(errs, ValidationError{Field: "remote.accessKey", Message: "is required when a remote cache is configured"})
		}
		if cfg.Remote.SecretKey == "" {
			errs = append(errs, ValidationError{Field: "remote.secretKey", Message: "is required when a remote cache is configured"})
		}
	}

	for i, o := range cfg.Graph.ProductTypes {
		if o.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("graph.productTypes[%d].name", i),
				Message: "is required",
			})
		}
		if !graph.ProductType(o.Type).Valid() {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("graph.productTypes[%d].type", i),
				Message: fmt.Sprintf("unknown product type %q", o.Type),
			})
		}
	}

	for i, d := range cfg.Graph.DeploymentTargets {
		if d.Platform == "" || d.Version == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("graph.deploymentTargets[%d]", i),
				Message: "platform and version are required",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateFile validates a configuration file at the given path, with
// defaults applied the way commands see it.
func ValidateFile(path string) error {
	cfg, err := NewLoader().LoadWithDefaults(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}

	return Validate(cfg)
}
