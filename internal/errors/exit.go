package errors

import "errors"

// Exit codes returned by the forge binary.
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitValidationError   = 2
	ExitConnectivityError = 3
	ExitPermissionDenied  = 4
	ExitNotFound          = 5
	ExitResolutionError   = 6
	ExitCycleError        = 7
	ExitBuildError        = 8
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error

	// Printed is set when the command layer already reported the error,
	// so main must not print it a second time.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the exit code for an error.
// An explicit ExitError wins; otherwise the first matching sentinel decides.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrValidation):
		return ExitValidationError
	case errors.Is(err, ErrConnectivity):
		return ExitConnectivityError
	case errors.Is(err, ErrPermission):
		return ExitPermissionDenied
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrResolution):
		return ExitResolutionError
	case errors.Is(err, ErrCycle):
		return ExitCycleError
	case errors.Is(err, ErrBuild):
		return ExitBuildError
	default:
		return ExitGeneralError
	}
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitConnectivityError:
		return "Connectivity Error"
	case ExitPermissionDenied:
		return "Permission Denied"
	case ExitNotFound:
		return "Not Found"
	case ExitResolutionError:
		return "Resolution Error"
	case ExitCycleError:
		return "Cyclic Dependency"
	case ExitBuildError:
		return "Build Error"
	default:
		return "Unknown"
	}
}
