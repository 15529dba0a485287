package cmdutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/graphforge/forge/internal/buildgraph"
	"github.com/graphforge/forge/internal/config"
	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/orchestrator"
	"github.com/graphforge/forge/internal/output"
)

// PrintError prints err in a user-friendly format, prefixed by msg.
// Build failures print the builder output as plain text below the summary
// line; cycles list their participants; config problems list every field.
func PrintError(msg string, err error) {
	var buildErr *orchestrator.BuildError
	var cycleErr *buildgraph.CyclicDependencyError
	var validationErrs config.ValidationErrors
	var detailErr *oerrors.DetailError

	switch {
	case errors.As(err, &buildErr):
		summary, details, _ := strings.Cut(buildErr.Cause.Error(), "\n")
		output.TargetLogger(buildErr.Target.Name).Error(fmt.Sprintf("%s: %s", msg, summary))
		if details != "" {
			output.Details(details)
		}
	case errors.As(err, &cycleErr):
		output.Error(fmt.Sprintf("%s: %s", msg, cycleErr.Error()))
	case errors.As(err, &validationErrs):
		output.Error(msg)
		for _, e := range validationErrs {
			output.Error(fmt.Sprintf("  %s: %s", e.Field, e.Message))
		}
	case errors.As(err, &detailErr):
		output.Error(msg)
		output.Details(detailErr.Error())
	default:
		output.Error(msg, "error", err)
	}
}

// ExitError prints err and wraps it with the exit code of its category.
// The result is marked as printed so main does not report it again.
func ExitError(msg string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) && exitErr.Printed {
		return err
	}
	PrintError(msg, err)
	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
}
