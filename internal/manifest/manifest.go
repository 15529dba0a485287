// Package manifest loads package manifests: the products, targets and
// declared dependencies of one package.
package manifest

// ProductKind is the declared kind of a product.
type ProductKind string

const (
	ProductLibrary    ProductKind = "library"
	ProductExecutable ProductKind = "executable"
	ProductPlugin     ProductKind = "plugin"
)

// Linkage is the declared linkage of a library product.
type Linkage string

const (
	LinkageAutomatic Linkage = "automatic"
	LinkageStatic    Linkage = "static"
	LinkageDynamic   Linkage = "dynamic"
)

// TargetKind is the declared kind of a target.
type TargetKind string

const (
	TargetRegular    TargetKind = "regular"
	TargetExecutable TargetKind = "executable"
	TargetTest       TargetKind = "test"
	TargetBinary     TargetKind = "binary"
	TargetPlugin     TargetKind = "plugin"
	TargetMacro      TargetKind = "macro"
)

// DependencyKind discriminates a declared dependency descriptor.
type DependencyKind string

const (
	// DependencyTarget names a target of the same package.
	DependencyTarget DependencyKind = "target"
	// DependencyProduct names a product, optionally qualified by package.
	DependencyProduct DependencyKind = "product"
	// DependencyByName names either a same-package target or a product.
	DependencyByName DependencyKind = "byName"
	// DependencyBinary names a binary target of the same package.
	DependencyBinary DependencyKind = "binary"
)

// Manifest is a parsed package manifest. It is immutable once loaded.
type Manifest struct {
	Name         string     `json:"name"`
	ToolsVersion string     `json:"toolsVersion,omitempty"`
	Platforms    []Platform `json:"platforms,omitempty"`
	Products     []Product  `json:"products,omitempty"`
	Targets      []Target   `json:"targets,omitempty"`
}

// Platform is a minimum supported platform declared by a package.
type Platform struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Product is a named, externally consumable group of targets.
type Product struct {
	Name    string      `json:"name"`
	Kind    ProductKind `json:"type"`
	Linkage Linkage     `json:"linkage,omitempty"`
	Targets []string    `json:"targets"`
}

// Target is a buildable unit declared in a manifest.
type Target struct {
	Name         string            `json:"name"`
	Kind         TargetKind        `json:"type"`
	Path         string            `json:"path,omitempty"`
	Dependencies []Dependency      `json:"dependencies,omitempty"`
	Sources      []string          `json:"sources,omitempty"`
	Resources    []string          `json:"resources,omitempty"`
	Settings     map[string]string `json:"settings,omitempty"`
}

// Dependency is a declared dependency descriptor of a target.
type Dependency struct {
	Kind DependencyKind `json:"kind"`
	Name string         `json:"name"`

	// Package qualifies a product dependency. Informational only: ownership
	// is always taken from the global product index.
	Package string `json:"package,omitempty"`
}

// Target returns the target with the given name.
func (m *Manifest) Target(name string) (*Target, bool) {
	for i := range m.Targets {
		if m.Targets[i].Name == name {
			return &m.Targets[i], true
		}
	}
	return nil, false
}

// SourceDir returns the directory of the target relative to the package root.
func (t *Target) SourceDir() string {
	if t.Path != "" {
		return t.Path
	}
	if t.Kind == TargetTest {
		return "Tests/" + t.Name
	}
	return "Sources/" + t.Name
}
