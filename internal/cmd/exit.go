package cmd

import (
	oerrors "github.com/graphforge/forge/internal/errors"
)

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitGeneralError    = oerrors.ExitGeneralError
	ExitValidationError = oerrors.ExitValidationError
	ExitNotFound        = oerrors.ExitNotFound
	ExitBuildError      = oerrors.ExitBuildError
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
