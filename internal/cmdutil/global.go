package cmdutil

import (
	"github.com/graphforge/forge/internal/config"
	oerrors "github.com/graphforge/forge/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the loaded configuration after flag/env/default resolution.
	Config *config.Config

	// ConfigPath is the resolved --config path.
	ConfigPath string

	// ConfigErr is the load or validation error, if any. Commands that need
	// a valid configuration call Require.
	ConfigErr error

	// Resolved records where each flag-backed value came from.
	Resolved []config.ResolvedValue

	Verbose bool
}

// Require returns the configuration or a validation exit error when it
// could not be loaded or is invalid.
func (g *GlobalConfig) Require() (*config.Config, error) {
	if g.ConfigErr != nil {
		return nil, &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: g.ConfigErr}
	}
	if g.Config == nil {
		return config.DefaultConfig(), nil
	}
	return g.Config, nil
}
