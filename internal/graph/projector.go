package graph

import (
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/graphforge/forge/internal/manifest"
)

// Options configure projection.
type Options struct {
	// ArtifactsDir is the root of binary target artifacts.
	ArtifactsDir string

	// ProductTypes overrides the product type of targets, keyed by target
	// name or by the name of a product exposing the target. Target name wins.
	ProductTypes map[string]ProductType

	// Platforms is the set of platforms to generate for. Empty means every
	// platform the package declares.
	Platforms []string

	// DeploymentTargets holds the minimum deployment target per platform.
	DeploymentTargets map[string]string

	// ToolsVersion overrides the tools version declared by manifests.
	ToolsVersion string
}

// ProjectPackages maps every package to a generated project keyed by its folder and
// collects what each product exposes. The result does not depend on the
// order of pkgs.
func ProjectPackages(pkgs []Package, idx *Indices, pre *Preprocessed, opts Options) (*DependenciesGraph, error) {
	g := &DependenciesGraph{
		ExternalDependencies: make(map[string][]Dependency),
		ExternalProjects:     make(map[string]*Project, len(pkgs)),
	}

	for _, pkg := range pkgs {
		project, err := projectPackage(pkg, idx, pre, opts)
		if err != nil {
			return nil, err
		}
		g.ExternalProjects[pkg.Folder] = project

		for _, product := range pkg.Manifest.Products {
			if product.Kind == manifest.ProductPlugin {
				continue
			}
			g.ExternalDependencies[product.Name] = productDependencies(pkg.Manifest, pkg.Name, pkg.Folder, product.Name, opts.ArtifactsDir)
		}
	}

	return g, nil
}

// projected reports whether a manifest target becomes a project target.
func projected(t *manifest.Target) bool {
	switch t.Kind {
	case manifest.TargetTest, manifest.TargetBinary, manifest.TargetPlugin:
		return false
	}
	return true
}

// productDependencies lists what linking a product pulls in.
func productDependencies(m *manifest.Manifest, pkgName, folder, product, artifactsDir string) []Dependency {
	deps := []Dependency{}
	for _, p := range m.Products {
		if p.Name != product {
			continue
		}
		for _, name := range p.Targets {
			t, ok := m.Target(name)
			if !ok {
				continue
			}
			switch {
			case t.Kind == manifest.TargetBinary:
				deps = append(deps, XCFramework(BinaryArtifactPath(artifactsDir, pkgName, name)))
			case projected(t):
				deps = append(deps, ProjectTarget(folder, name))
			}
		}
	}
	return deps
}

func projectPackage(pkg Package, idx *Indices, pre *Preprocessed, opts Options) (*Project, error) {
	m := pkg.Manifest

	platforms, err := resolvePlatforms(pkg, opts)
	if err != nil {
		return nil, err
	}

	toolsVersion := m.ToolsVersion
	if opts.ToolsVersion != "" {
		toolsVersion = opts.ToolsVersion
	}

	project := &Project{
		Name:         pkg.Name,
		Path:         pkg.Folder,
		ToolsVersion: toolsVersion,
		Targets:      []*Target{},
	}

	for i := range m.Targets {
		mt := &m.Targets[i]
		if !projected(mt) {
			continue
		}
		key := TargetKey{Package: pkg.Name, Target: mt.Name}
		dir := mt.SourceDir()

		target := &Target{
			Name:      mt.Name,
			Product:   productType(mt, pre.TargetProducts[key], m, opts.ProductTypes),
			Platforms: platforms,
			Sources:   sourcePaths(dir, mt.Sources),
			Settings:  maps.Clone(mt.Settings),
		}

		for _, d := range pre.TargetDependencies[key] {
			for _, dep := range projectDependency(d, m, idx, opts.ArtifactsDir) {
				if !slices.Contains(target.Dependencies, dep) {
					target.Dependencies = append(target.Dependencies, dep)
				}
			}
		}

		project.Targets = append(project.Targets, target)

		if len(mt.Resources) > 0 {
			bundle := &Target{
				Name:      BundleName(pkg.Name, mt.Name),
				Product:   ProductBundle,
				Platforms: platforms,
				Resources: joinAll(dir, mt.Resources),
			}
			target.Dependencies = append(target.Dependencies, LocalTarget(bundle.Name))
			project.Targets = append(project.Targets, bundle)
		}
	}

	return project, nil
}

// BundleName is the name of the resource bundle target generated for a target.
func BundleName(pkg, target string) string {
	return pkg + "_" + target
}

func projectDependency(d ResolvedDependency, m *manifest.Manifest, idx *Indices, artifactsDir string) []Dependency {
	switch d := d.(type) {
	case TargetDependency:
		if t, ok := m.Target(d.Name); ok && projected(t) {
			return []Dependency{LocalTarget(d.Name)}
		}
		return nil
	case ProductDependency:
		owner := idx.PackageInfos[d.Package]
		return productDependencies(owner, d.Package, idx.PackageToFolder[d.Package], d.Product, artifactsDir)
	case BinaryDependency:
		return []Dependency{XCFramework(d.Path)}
	}
	return nil
}

func productType(t *manifest.Target, products []string, m *manifest.Manifest, overrides map[string]ProductType) ProductType {
	if pt, ok := overrides[t.Name]; ok {
		return pt
	}
	for _, name := range products {
		if pt, ok := overrides[name]; ok {
			return pt
		}
	}

	if t.Kind == manifest.TargetExecutable || t.Kind == manifest.TargetMacro {
		return ProductCommandLineTool
	}
	for _, p := range m.Products {
		if !slices.Contains(products, p.Name) {
			continue
		}
		if p.Kind == manifest.ProductExecutable {
			return ProductCommandLineTool
		}
		if p.Linkage == manifest.LinkageDynamic {
			return ProductFramework
		}
	}
	return ProductStaticFramework
}

func sourcePaths(dir string, sources []string) []string {
	if len(sources) == 0 {
		return []string{dir}
	}
	return joinAll(dir, sources)
}

func joinAll(dir string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Join(dir, p)
	}
	return out
}

// resolvePlatforms intersects the configured platforms with the ones the
// package declares, raising each deployment target to the larger of the
// configured and declared versions.
func resolvePlatforms(pkg Package, opts Options) ([]Platform, error) {
	declared := make(map[string]string, len(pkg.Manifest.Platforms))
	declaredNames := make([]string, 0, len(pkg.Manifest.Platforms))
	for _, p := range pkg.Manifest.Platforms {
		declared[p.Name] = p.Version
		declaredNames = append(declaredNames, p.Name)
	}

	var out []Platform
	if len(opts.Platforms) == 0 {
		for _, name := range declaredNames {
			out = append(out, Platform{Name: name, DeploymentTarget: maxVersion(opts.DeploymentTargets[name], declared[name])})
		}
		return out, nil
	}

	for _, name := range opts.Platforms {
		version, ok := declared[name]
		if len(declared) > 0 && !ok {
			continue
		}
		out = append(out, Platform{Name: name, DeploymentTarget: maxVersion(opts.DeploymentTargets[name], version)})
	}
	if len(out) == 0 {
		return nil, &NoSupportedPlatformsError{
			PackageName: pkg.Name,
			Configured:  opts.Platforms,
			Declared:    declaredNames,
		}
	}
	return out, nil
}

func maxVersion(a, b string) string {
	if compareVersions(a, b) >= 0 {
		return a
	}
	return b
}

// compareVersions compares dotted numeric versions; missing components are zero.
// An empty version sorts before any other.
func compareVersions(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := range max(len(as), len(bs)) {
		var x, y string
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		xn, xerr := strconv.Atoi(orZero(x))
		yn, yerr := strconv.Atoi(orZero(y))
		if xerr != nil || yerr != nil {
			if c := strings.Compare(x, y); c != 0 {
				return c
			}
			continue
		}
		if xn != yn {
			if xn < yn {
				return -1
			}
			return 1
		}
	}
	return 0
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
