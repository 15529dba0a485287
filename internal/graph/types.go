// Package graph turns a package manager's resolved dependency state into a
// graph of generated projects and the external dependencies they expose.
//
// Generation runs in three phases:
//
//  1. Resolve: read the workspace state, load every manifest, build indices.
//  2. Preprocess: resolve each target's declared dependencies against the
//     global product index.
//  3. Project: map each package to one generated project keyed by folder.
package graph

import (
	"github.com/graphforge/forge/internal/manifest"
)

// Package is a resolved package. Created once per resolution pass.
type Package struct {
	Name     string
	Folder   string
	Manifest *manifest.Manifest
}

// Indices are the global lookup tables built from all resolved packages.
// They are built once and never mutated afterwards.
type Indices struct {
	// ProductToPackage maps a product name to the package declaring it.
	ProductToPackage map[string]string

	// PackageToFolder maps a package name to its folder.
	PackageToFolder map[string]string

	// PackageInfos maps a package name to its manifest.
	PackageInfos map[string]*manifest.Manifest
}

// LinkKind is how a product dependency is linked.
type LinkKind string

const (
	LinkAutomatic LinkKind = "automatic"
	LinkStatic    LinkKind = "static"
	LinkDynamic   LinkKind = "dynamic"
)

// ResolvedDependency is a declared dependency after resolution. The set of
// implementations is closed: TargetDependency, ProductDependency and
// BinaryDependency.
type ResolvedDependency interface {
	resolvedDependency()
}

// TargetDependency references a target of the same package.
type TargetDependency struct {
	Name string
}

// ProductDependency references a product of another package.
type ProductDependency struct {
	Product string
	Package string
	Link    LinkKind
}

// BinaryDependency references a prebuilt binary artifact.
type BinaryDependency struct {
	Path string
}

func (TargetDependency) resolvedDependency()  {}
func (ProductDependency) resolvedDependency() {}
func (BinaryDependency) resolvedDependency()  {}

// TargetKey identifies a target across all packages.
type TargetKey struct {
	Package string
	Target  string
}

// ProductType is the type of a generated target.
type ProductType string

const (
	ProductFramework       ProductType = "framework"
	ProductStaticFramework ProductType = "staticFramework"
	ProductStaticLibrary   ProductType = "staticLibrary"
	ProductDynamicLibrary  ProductType = "dynamicLibrary"
	ProductCommandLineTool ProductType = "commandLineTool"
	ProductBundle          ProductType = "bundle"
)

// Valid reports whether t is a known product type.
func (t ProductType) Valid() bool {
	switch t {
	case ProductFramework, ProductStaticFramework, ProductStaticLibrary,
		ProductDynamicLibrary, ProductCommandLineTool, ProductBundle:
		return true
	}
	return false
}

// DependencyKind discriminates a Dependency in the generated graph.
type DependencyKind string

const (
	// DependencyTarget references a target of the same project.
	DependencyTarget DependencyKind = "target"
	// DependencyProject references a target of another project.
	DependencyProject DependencyKind = "project"
	// DependencyXCFramework references a prebuilt binary artifact.
	DependencyXCFramework DependencyKind = "xcframework"
)

// Dependency is a dependency descriptor in the generated graph.
// Which fields are set depends on Kind:
//
//	target:      Name
//	project:     Path, Name
//	xcframework: Path
type Dependency struct {
	Kind DependencyKind `json:"kind"`
	Name string         `json:"name,omitempty"`
	Path string         `json:"path,omitempty"`
}

// LocalTarget returns a same-project target dependency.
func LocalTarget(name string) Dependency {
	return Dependency{Kind: DependencyTarget, Name: name}
}

// ProjectTarget returns a dependency on a target of the project at path.
func ProjectTarget(path, name string) Dependency {
	return Dependency{Kind: DependencyProject, Path: path, Name: name}
}

// XCFramework returns a dependency on a prebuilt artifact.
func XCFramework(path string) Dependency {
	return Dependency{Kind: DependencyXCFramework, Path: path}
}

// DependenciesGraph is the result of graph generation.
type DependenciesGraph struct {
	// ExternalDependencies maps a product name to what consuming it links.
	ExternalDependencies map[string][]Dependency `json:"externalDependencies"`

	// ExternalProjects maps a package folder to its generated project.
	ExternalProjects map[string]*Project `json:"externalProjects"`
}

// Project is the generated project of one package.
type Project struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	ToolsVersion string    `json:"toolsVersion,omitempty"`
	Targets      []*Target `json:"targets"`
}

// Target returns the project target with the given name.
func (p *Project) Target(name string) (*Target, bool) {
	for _, t := range p.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Target is a generated project target.
type Target struct {
	Name         string            `json:"name"`
	Product      ProductType       `json:"product"`
	Platforms    []Platform        `json:"platforms,omitempty"`
	Sources      []string          `json:"sources,omitempty"`
	Resources    []string          `json:"resources,omitempty"`
	Settings     map[string]string `json:"settings,omitempty"`
	Dependencies []Dependency      `json:"dependencies,omitempty"`
}

// Platform is a supported platform with its deployment target.
type Platform struct {
	Name             string `json:"name"`
	DeploymentTarget string `json:"deploymentTarget,omitempty"`
}
