package orchestrator

import (
	"fmt"

	"github.com/graphforge/forge/internal/buildgraph"
	oerrors "github.com/graphforge/forge/internal/errors"
)

// BuildError reports a target whose build or store failed.
type BuildError struct {
	Target buildgraph.GraphTarget
	Cause  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building %s: %v", e.Target, e.Cause)
}

// Unwrap exposes both oerrors.ErrBuild and the cause.
func (e *BuildError) Unwrap() []error {
	return []error{oerrors.ErrBuild, e.Cause}
}
