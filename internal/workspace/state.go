// Package workspace reads the package manager's persisted resolution state.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	oerrors "github.com/graphforge/forge/internal/errors"
)

// StateFileName is the resolution state document inside the dependencies root.
const StateFileName = "workspace-state.json"

// Origin kinds understood by the resolver.
const (
	KindRemote = "remote"
	KindLocal  = "local"
)

// PackageReference identifies one resolved package.
type PackageReference struct {
	// Name is the package identity.
	Name string

	// Kind is the origin kind as written in the state file ("remote" or "local").
	// Other values are kept verbatim so the resolver can report them.
	Kind string

	// Path is the on-disk location of a local package. Empty for remote packages.
	Path string

	// Subpath is the checkout directory name of a remote package.
	Subpath string
}

// state mirrors the on-disk JSON shape:
//
//	{"object": {"dependencies": [{"packageRef": {"name", "kind", "path"}, "subpath"}]}}
type state struct {
	Object struct {
		Dependencies []dependency `json:"dependencies"`
	} `json:"object"`
}

type dependency struct {
	PackageRef struct {
		Name string  `json:"name"`
		Kind string  `json:"kind"`
		Path *string `json:"path,omitempty"`
	} `json:"packageRef"`
	Subpath string `json:"subpath"`
}

// ReadState parses <root>/workspace-state.json and returns the declared
// package references in document order.
func ReadState(root string) ([]PackageReference, error) {
	path := filepath.Join(root, StateFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError(
				"workspace state file does not exist",
				path,
				"Resolve the package dependencies before generating the graph",
			)
		}
		return nil, fmt.Errorf("reading workspace state: %w", err)
	}

	return ParseState(data)
}

// ParseState decodes a workspace state document.
func ParseState(data []byte) ([]PackageReference, error) {
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding workspace state: %w", err)
	}

	refs := make([]PackageReference, 0, len(s.Object.Dependencies))
	for _, d := range s.Object.Dependencies {
		ref := PackageReference{
			Name:    d.PackageRef.Name,
			Kind:    d.PackageRef.Kind,
			Subpath: d.Subpath,
		}
		if d.PackageRef.Path != nil {
			ref.Path = *d.PackageRef.Path
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
