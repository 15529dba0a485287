package graph

import (
	"path/filepath"
	"slices"

	"github.com/graphforge/forge/internal/manifest"
)

// Preprocessed holds the per-target results of dependency resolution.
type Preprocessed struct {
	// TargetProducts lists, per target, the products exposing it.
	TargetProducts map[TargetKey][]string

	// TargetDependencies lists, per target, its resolved dependencies in
	// declaration order without duplicates.
	TargetDependencies map[TargetKey][]ResolvedDependency
}

// BinaryArtifactPath returns where the artifact of a binary target lives.
func BinaryArtifactPath(artifactsDir, pkg, target string) string {
	return filepath.Join(artifactsDir, pkg, target+".xcframework")
}

// Preprocess resolves the declared dependencies of every target in every
// package. It needs the complete indices: a product dependency may point at
// any resolved package. Manifests are not modified.
func Preprocess(pkgs []Package, idx *Indices, artifactsDir string) (*Preprocessed, error) {
	out := &Preprocessed{
		TargetProducts:     make(map[TargetKey][]string),
		TargetDependencies: make(map[TargetKey][]ResolvedDependency),
	}

	for _, pkg := range pkgs {
		m := pkg.Manifest

		for _, product := range m.Products {
			for _, name := range product.Targets {
				if _, ok := m.Target(name); !ok {
					return nil, &UnknownTargetError{PackageName: pkg.Name, Referrer: product.Name, Name: name}
				}
				key := TargetKey{Package: pkg.Name, Target: name}
				out.TargetProducts[key] = append(out.TargetProducts[key], product.Name)
			}
		}

		r := &dependencyResolver{pkg: pkg, idx: idx, artifactsDir: artifactsDir}
		for i := range m.Targets {
			target := &m.Targets[i]
			deps, err := r.resolveAll(target)
			if err != nil {
				return nil, err
			}
			out.TargetDependencies[TargetKey{Package: pkg.Name, Target: target.Name}] = deps
		}
	}

	return out, nil
}

type dependencyResolver struct {
	pkg          Package
	idx          *Indices
	artifactsDir string
}

func (r *dependencyResolver) resolveAll(target *manifest.Target) ([]ResolvedDependency, error) {
	var deps []ResolvedDependency
	add := func(d ResolvedDependency) {
		if !slices.Contains(deps, d) {
			deps = append(deps, d)
		}
	}

	for _, decl := range target.Dependencies {
		switch decl.Kind {
		case manifest.DependencyTarget, manifest.DependencyBinary:
			d, err := r.localTarget(target.Name, decl.Name)
			if err != nil {
				return nil, err
			}
			add(d)

		case manifest.DependencyProduct:
			resolved, err := r.product(target.Name, decl.Name)
			if err != nil {
				return nil, err
			}
			for _, d := range resolved {
				add(d)
			}

		case manifest.DependencyByName:
			if _, ok := r.pkg.Manifest.Target(decl.Name); ok {
				d, err := r.localTarget(target.Name, decl.Name)
				if err != nil {
					return nil, err
				}
				add(d)
				continue
			}
			resolved, err := r.product(target.Name, decl.Name)
			if err != nil {
				return nil, err
			}
			for _, d := range resolved {
				add(d)
			}
		}
	}

	return deps, nil
}

// localTarget resolves a reference to a target of the same package.
func (r *dependencyResolver) localTarget(referrer, name string) (ResolvedDependency, error) {
	t, ok := r.pkg.Manifest.Target(name)
	if !ok {
		return nil, &UnknownTargetError{PackageName: r.pkg.Name, Referrer: referrer, Name: name}
	}
	if t.Kind == manifest.TargetBinary {
		return BinaryDependency{Path: BinaryArtifactPath(r.artifactsDir, r.pkg.Name, name)}, nil
	}
	return TargetDependency{Name: name}, nil
}

// product resolves a product reference through the global index. A product of
// the same package becomes references to its targets.
func (r *dependencyResolver) product(referrer, name string) ([]ResolvedDependency, error) {
	owner, ok := r.idx.ProductToPackage[name]
	if !ok {
		return nil, &UnknownProductError{PackageName: r.pkg.Name, Target: referrer, Product: name}
	}

	if owner != r.pkg.Name {
		return []ResolvedDependency{ProductDependency{
			Product: name,
			Package: owner,
			Link:    linkKind(r.idx.PackageInfos[owner], name),
		}}, nil
	}

	var deps []ResolvedDependency
	for _, p := range r.pkg.Manifest.Products {
		if p.Name != name {
			continue
		}
		for _, t := range p.Targets {
			d, err := r.localTarget(referrer, t)
			if err != nil {
				return nil, err
			}
			deps = append(deps, d)
		}
	}
	return deps, nil
}

func linkKind(m *manifest.Manifest, product string) LinkKind {
	for _, p := range m.Products {
		if p.Name != product {
			continue
		}
		switch p.Linkage {
		case manifest.LinkageDynamic:
			return LinkDynamic
		case manifest.LinkageStatic:
			return LinkStatic
		}
	}
	return LinkAutomatic
}
