package graph

import (
	"fmt"
	"strings"

	oerrors "github.com/graphforge/forge/internal/errors"
)

// ResolutionError is implemented by every error that aborts graph generation.
// All of them match oerrors.ErrResolution.
type ResolutionError interface {
	error

	// Package returns the package where resolution failed.
	Package() string
}

// UnsupportedDependencyKindError indicates a package reference with an origin
// kind other than remote or local.
type UnsupportedDependencyKindError struct {
	PackageName string
	Kind        string
}

func (e *UnsupportedDependencyKindError) Error() string {
	return fmt.Sprintf("package %q: unsupported dependency kind %q", e.PackageName, e.Kind)
}

func (e *UnsupportedDependencyKindError) Package() string {
	return e.PackageName
}

func (e *UnsupportedDependencyKindError) Unwrap() error {
	return oerrors.ErrResolution
}

// MissingLocalPathError indicates a local package reference without a path.
type MissingLocalPathError struct {
	PackageName string
}

func (e *MissingLocalPathError) Error() string {
	return fmt.Sprintf("package %q: local package reference has no path", e.PackageName)
}

func (e *MissingLocalPathError) Package() string {
	return e.PackageName
}

func (e *MissingLocalPathError) Unwrap() error {
	return oerrors.ErrResolution
}

// DuplicatePackageError indicates two package references with the same name.
type DuplicatePackageError struct {
	PackageName string
}

func (e *DuplicatePackageError) Error() string {
	return fmt.Sprintf("package %q: declared more than once in the workspace state", e.PackageName)
}

func (e *DuplicatePackageError) Package() string {
	return e.PackageName
}

func (e *DuplicatePackageError) Unwrap() error {
	return oerrors.ErrResolution
}

// DuplicateProductError indicates a product name claimed by two packages.
type DuplicateProductError struct {
	Product string
	First   string
	Second  string
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("product %q: declared by both %q and %q", e.Product, e.First, e.Second)
}

func (e *DuplicateProductError) Package() string {
	return e.Second
}

func (e *DuplicateProductError) Unwrap() error {
	return oerrors.ErrResolution
}

// UnknownTargetError indicates a reference to a target that the package does
// not declare.
type UnknownTargetError struct {
	PackageName string

	// Referrer is the target or product holding the reference.
	Referrer string

	// Name is the missing target.
	Name string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("package %q, %q: unknown target %q", e.PackageName, e.Referrer, e.Name)
}

func (e *UnknownTargetError) Package() string {
	return e.PackageName
}

func (e *UnknownTargetError) Unwrap() error {
	return oerrors.ErrResolution
}

// UnknownProductError indicates a product dependency no resolved package declares.
type UnknownProductError struct {
	PackageName string
	Target      string
	Product     string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("package %q, target %q: no resolved package declares product %q",
		e.PackageName, e.Target, e.Product)
}

func (e *UnknownProductError) Package() string {
	return e.PackageName
}

func (e *UnknownProductError) Unwrap() error {
	return oerrors.ErrResolution
}

// NoSupportedPlatformsError indicates a package whose declared platforms do not
// intersect the configured ones.
type NoSupportedPlatformsError struct {
	PackageName string
	Configured  []string
	Declared    []string
}

func (e *NoSupportedPlatformsError) Error() string {
	return fmt.Sprintf("package %q: declares platforms [%s], none of the configured platforms [%s]",
		e.PackageName, strings.Join(e.Declared, ", "), strings.Join(e.Configured, ", "))
}

func (e *NoSupportedPlatformsError) Package() string {
	return e.PackageName
}

func (e *NoSupportedPlatformsError) Unwrap() error {
	return oerrors.ErrResolution
}
