// Package cache stores build outputs keyed by content hash.
package cache

import "fmt"

// OutputKind is the kind of artifact a profile produces.
type OutputKind string

const (
	OutputFramework   OutputKind = "framework"
	OutputXCFramework OutputKind = "xcframework"
)

// Valid reports whether k is a known output kind.
func (k OutputKind) Valid() bool {
	return k == OutputFramework || k == OutputXCFramework
}

// DefaultProfileName is the profile used when none is selected.
const DefaultProfileName = "development"

// Profile selects the build configuration and output kind. It is part of
// every content hash.
type Profile struct {
	Name          string     `json:"name" yaml:"name"`
	Configuration string     `json:"configuration" yaml:"configuration"`
	OutputKind    OutputKind `json:"outputKind" yaml:"outputKind"`
}

// DefaultProfile returns the built-in development profile.
func DefaultProfile() Profile {
	return Profile{Name: DefaultProfileName, Configuration: "Debug", OutputKind: OutputFramework}
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%s, %s)", p.Name, p.Configuration, p.OutputKind)
}
