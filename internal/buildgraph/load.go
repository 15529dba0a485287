package buildgraph

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"sigs.k8s.io/yaml"

	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/graph"
)

// Document is the on-disk form of a build graph.
type Document struct {
	Targets []Target `json:"targets"`
}

// Document returns the graph in its on-disk form.
func (g *Graph) Document() Document {
	doc := Document{Targets: make([]Target, len(g.targets))}
	for i, t := range g.targets {
		doc.Targets[i] = *t
	}
	return doc
}

// document accepts either a build graph or a generated dependencies graph.
type document struct {
	Targets []Target `json:"targets,omitempty"`
	graph.DependenciesGraph
}

// Load reads a build graph from a YAML or JSON file. The file may also hold a
// dependencies graph as written by `deps generate`, which is converted.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("build graph file does not exist", path, "")
		}
		return nil, fmt.Errorf("reading build graph: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("parsing build graph: %v", err), path, "")
	}

	if len(doc.ExternalProjects) > 0 {
		return FromDependencies(&doc.DependenciesGraph)
	}
	return New(doc.Targets)
}

// FromDependencies converts a generated dependencies graph into a build graph.
// Projects are visited in path order so the result is deterministic.
func FromDependencies(dg *graph.DependenciesGraph) (*Graph, error) {
	var targets []Target

	for _, path := range slices.Sorted(maps.Keys(dg.ExternalProjects)) {
		project := dg.ExternalProjects[path]
		for _, pt := range project.Targets {
			t := Target{
				Project:   path,
				Name:      pt.Name,
				Product:   pt.Product,
				Sources:   pt.Sources,
				Resources: pt.Resources,
				Settings:  pt.Settings,
			}
			for _, d := range pt.Dependencies {
				switch d.Kind {
				case graph.DependencyTarget:
					t.Dependencies = append(t.Dependencies, GraphTarget{Project: path, Name: d.Name})
				case graph.DependencyProject:
					t.Dependencies = append(t.Dependencies, GraphTarget{Project: d.Path, Name: d.Name})
				case graph.DependencyXCFramework:
					t.Artifacts = append(t.Artifacts, d.Path)
				}
			}
			targets = append(targets, t)
		}
	}

	return New(targets)
}
