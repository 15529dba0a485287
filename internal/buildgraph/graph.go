// Package buildgraph holds the graph of buildable targets that content
// hashing and cache warming operate on.
package buildgraph

import (
	"fmt"
	"path/filepath"
	"slices"

	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/graph"
)

// GraphTarget identifies a buildable unit across all projects.
type GraphTarget struct {
	Project string `json:"project"`
	Name    string `json:"name"`
}

// String renders the target as <project base name>/<target name>.
func (t GraphTarget) String() string {
	return filepath.Base(t.Project) + "/" + t.Name
}

// Target is a buildable unit with its inputs.
type Target struct {
	Project string            `json:"project"`
	Name    string            `json:"name"`
	Product graph.ProductType `json:"product"`

	// Sources, Resources and Artifacts are file or directory paths. Relative
	// paths are resolved against Project.
	Sources   []string `json:"sources,omitempty"`
	Resources []string `json:"resources,omitempty"`
	Artifacts []string `json:"artifacts,omitempty"`

	Settings     map[string]string `json:"settings,omitempty"`
	Dependencies []GraphTarget     `json:"dependencies,omitempty"`
}

// ID returns the identity of the target.
func (t *Target) ID() GraphTarget {
	return GraphTarget{Project: t.Project, Name: t.Name}
}

// Graph is an immutable arena of targets addressed by index. Index order is
// the order targets were given in and is used to break ties deterministically.
type Graph struct {
	targets []*Target
	index   map[GraphTarget]int
	deps    [][]int
}

// UnknownDependencyError indicates a dependency on a target missing from the graph.
type UnknownDependencyError struct {
	Target     GraphTarget
	Dependency GraphTarget
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("target %s: depends on unknown target %s", e.Target, e.Dependency)
}

func (e *UnknownDependencyError) Unwrap() error { return oerrors.ErrResolution }

// New validates targets and builds a Graph. Duplicate dependency edges are
// collapsed; unknown dependencies and duplicate targets are rejected.
func New(targets []Target) (*Graph, error) {
	g := &Graph{
		targets: make([]*Target, len(targets)),
		index:   make(map[GraphTarget]int, len(targets)),
		deps:    make([][]int, len(targets)),
	}

	for i := range targets {
		t := targets[i]
		id := t.ID()
		if t.Name == "" {
			return nil, oerrors.NewValidationError("target name is required", t.Project, "")
		}
		if _, ok := g.index[id]; ok {
			return nil, oerrors.NewValidationError(fmt.Sprintf("duplicate target %s", id), t.Project, "")
		}
		g.targets[i] = &t
		g.index[id] = i
	}

	for i, t := range g.targets {
		for _, d := range t.Dependencies {
			j, ok := g.index[d]
			if !ok {
				return nil, &UnknownDependencyError{Target: t.ID(), Dependency: d}
			}
			if !slices.Contains(g.deps[i], j) {
				g.deps[i] = append(g.deps[i], j)
			}
		}
	}

	return g, nil
}

// Len returns the number of targets.
func (g *Graph) Len() int { return len(g.targets) }

// Targets returns every target identity in index order.
func (g *Graph) Targets() []GraphTarget {
	out := make([]GraphTarget, len(g.targets))
	for i, t := range g.targets {
		out[i] = t.ID()
	}
	return out
}

// Target returns the target with the given identity.
func (g *Graph) Target(id GraphTarget) (*Target, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.targets[i], true
}

// Dependencies returns the direct dependencies of a target.
func (g *Graph) Dependencies(id GraphTarget) []GraphTarget {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]GraphTarget, len(g.deps[i]))
	for k, j := range g.deps[i] {
		out[k] = g.targets[j].ID()
	}
	return out
}

// Find returns the targets named name, in index order.
func (g *Graph) Find(name string) []GraphTarget {
	var out []GraphTarget
	for _, t := range g.targets {
		if t.Name == name {
			out = append(out, t.ID())
		}
	}
	return out
}
