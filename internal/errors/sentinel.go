package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid configuration or command input.
	ErrValidation = errors.New("validation error")

	// ErrConnectivity indicates a remote cache store could not be reached.
	ErrConnectivity = errors.New("connectivity error")

	// ErrPermission indicates insufficient permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a manifest, workspace state, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrResolution indicates the package graph could not be resolved.
	ErrResolution = errors.New("resolution error")

	// ErrCycle indicates a dependency cycle in a target graph.
	ErrCycle = errors.New("cyclic dependency")

	// ErrBuild indicates the artifact builder failed for a target.
	ErrBuild = errors.New("build error")
)
