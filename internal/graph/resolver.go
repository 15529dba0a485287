package graph

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/graphforge/forge/internal/manifest"
	"github.com/graphforge/forge/internal/output"
	"github.com/graphforge/forge/internal/workspace"
)

// CheckoutsDir is the directory under the resolution root holding remote checkouts.
const CheckoutsDir = "checkouts"

// Resolver turns the workspace state into resolved packages.
type Resolver struct {
	Store manifest.Store

	// Workers bounds concurrent manifest loads. Zero means 4.
	Workers int
}

// Resolve reads <root>/workspace-state.json and loads the manifest of every
// declared package. The result preserves the order of the state file.
func (r *Resolver) Resolve(ctx context.Context, root string) ([]Package, error) {
	refs, err := workspace.ReadState(root)
	if err != nil {
		return nil, err
	}

	pkgs := make([]Package, len(refs))
	seen := make(map[string]bool, len(refs))
	for i, ref := range refs {
		if seen[ref.Name] {
			return nil, &DuplicatePackageError{PackageName: ref.Name}
		}
		seen[ref.Name] = true

		folder, err := PackageFolder(root, ref)
		if err != nil {
			return nil, err
		}
		pkgs[i] = Package{Name: ref.Name, Folder: folder}
	}

	workers := r.Workers
	if workers <= 0 {
		workers = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range pkgs {
		g.Go(func() error {
			m, err := r.Store.Load(gctx, pkgs[i].Folder)
			if err != nil {
				return err
			}
			pkgs[i].Manifest = m
			output.PackageLogger(pkgs[i].Name).Debug("resolved", "folder", pkgs[i].Folder)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pkgs, nil
}

// PackageFolder returns where a referenced package lives on disk.
func PackageFolder(root string, ref workspace.PackageReference) (string, error) {
	switch ref.Kind {
	case workspace.KindRemote:
		return filepath.Join(root, CheckoutsDir, ref.Subpath), nil
	case workspace.KindLocal:
		if ref.Path == "" {
			return "", &MissingLocalPathError{PackageName: ref.Name}
		}
		return ref.Path, nil
	default:
		return "", &UnsupportedDependencyKindError{PackageName: ref.Name, Kind: ref.Kind}
	}
}

// BuildIndices builds the global product, folder and manifest indices.
// A product declared by two packages is an error.
func BuildIndices(pkgs []Package) (*Indices, error) {
	idx := &Indices{
		ProductToPackage: make(map[string]string),
		PackageToFolder:  make(map[string]string, len(pkgs)),
		PackageInfos:     make(map[string]*manifest.Manifest, len(pkgs)),
	}

	for _, pkg := range pkgs {
		if _, ok := idx.PackageToFolder[pkg.Name]; ok {
			return nil, &DuplicatePackageError{PackageName: pkg.Name}
		}
		idx.PackageToFolder[pkg.Name] = pkg.Folder
		idx.PackageInfos[pkg.Name] = pkg.Manifest

		for _, product := range pkg.Manifest.Products {
			if owner, ok := idx.ProductToPackage[product.Name]; ok {
				return nil, &DuplicateProductError{Product: product.Name, First: owner, Second: pkg.Name}
			}
			idx.ProductToPackage[product.Name] = pkg.Name
		}
	}

	return idx, nil
}
