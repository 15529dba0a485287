package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/manifest"
)

func dep(kind manifest.DependencyKind, name string) manifest.Dependency {
	return manifest.Dependency{Kind: kind, Name: name}
}

// fixturePackages returns Alpha (remote, dynamic AlphaCore product with a
// binary target) and App (local, consuming AlphaCore).
func fixturePackages() []Package {
	alpha := &manifest.Manifest{
		Name:         "Alpha",
		ToolsVersion: "5.9",
		Platforms:    []manifest.Platform{{Name: "ios", Version: "15.0"}},
		Products: []manifest.Product{
			{Name: "AlphaCore", Kind: manifest.ProductLibrary, Linkage: manifest.LinkageDynamic, Targets: []string{"AlphaCore", "AlphaBinary"}},
		},
		Targets: []manifest.Target{
			{Name: "AlphaCore", Kind: manifest.TargetRegular, Dependencies: []manifest.Dependency{dep(manifest.DependencyTarget, "AlphaSupport")}},
			{Name: "AlphaSupport", Kind: manifest.TargetRegular, Resources: []string{"Resources/data.json"}},
			{Name: "AlphaBinary", Kind: manifest.TargetBinary},
			{Name: "AlphaTests", Kind: manifest.TargetTest, Dependencies: []manifest.Dependency{dep(manifest.DependencyByName, "AlphaCore")}},
		},
	}
	app := &manifest.Manifest{
		Name: "App",
		Products: []manifest.Product{
			{Name: "AppKit", Kind: manifest.ProductLibrary, Targets: []string{"AppKit"}},
			{Name: "app", Kind: manifest.ProductExecutable, Targets: []string{"AppMain"}},
		},
		Targets: []manifest.Target{
			{Name: "AppKit", Kind: manifest.TargetRegular, Dependencies: []manifest.Dependency{
				dep(manifest.DependencyProduct, "AlphaCore"),
				dep(manifest.DependencyByName, "AlphaCore"),
			}},
			{Name: "AppMain", Kind: manifest.TargetExecutable, Dependencies: []manifest.Dependency{
				dep(manifest.DependencyByName, "AppKit"),
				dep(manifest.DependencyProduct, "AppKit"),
			}},
		},
	}
	return []Package{
		{Name: "Alpha", Folder: "/deps/checkouts/alpha-1.0", Manifest: alpha},
		{Name: "App", Folder: "/src/app", Manifest: app},
	}
}

func preprocessFixture(t *testing.T) *Preprocessed {
	t.Helper()
	pkgs := fixturePackages()
	idx, err := BuildIndices(pkgs)
	require.NoError(t, err)
	pre, err := Preprocess(pkgs, idx, "/deps/artifacts")
	require.NoError(t, err)
	return pre
}

func TestPreprocess_TargetProducts(t *testing.T) {
	pre := preprocessFixture(t)

	assert.Equal(t, []string{"AlphaCore"}, pre.TargetProducts[TargetKey{"Alpha", "AlphaCore"}])
	assert.Equal(t, []string{"AlphaCore"}, pre.TargetProducts[TargetKey{"Alpha", "AlphaBinary"}])
	assert.Empty(t, pre.TargetProducts[TargetKey{"Alpha", "AlphaSupport"}])
	assert.Equal(t, []string{"app"}, pre.TargetProducts[TargetKey{"App", "AppMain"}])
}

func TestPreprocess_ExternalProduct(t *testing.T) {
	pre := preprocessFixture(t)

	// product and byName descriptors for the same product collapse into one entry
	assert.Equal(t, []ResolvedDependency{
		ProductDependency{Product: "AlphaCore", Package: "Alpha", Link: LinkDynamic},
	}, pre.TargetDependencies[TargetKey{"App", "AppKit"}])
}

func TestPreprocess_InternalProductBecomesTarget(t *testing.T) {
	pre := preprocessFixture(t)

	assert.Equal(t, []ResolvedDependency{
		TargetDependency{Name: "AppKit"},
	}, pre.TargetDependencies[TargetKey{"App", "AppMain"}])
}

func TestPreprocess_LocalTargets(t *testing.T) {
	pre := preprocessFixture(t)

	assert.Equal(t, []ResolvedDependency{TargetDependency{Name: "AlphaSupport"}},
		pre.TargetDependencies[TargetKey{"Alpha", "AlphaCore"}])
	assert.Equal(t, []ResolvedDependency{TargetDependency{Name: "AlphaCore"}},
		pre.TargetDependencies[TargetKey{"Alpha", "AlphaTests"}])
	assert.Empty(t, pre.TargetDependencies[TargetKey{"Alpha", "AlphaSupport"}])
}

func TestPreprocess_Binary(t *testing.T) {
	pkgs := []Package{{Name: "Bin", Folder: "/bin", Manifest: &manifest.Manifest{
		Name: "Bin",
		Targets: []manifest.Target{
			{Name: "Core", Dependencies: []manifest.Dependency{
				dep(manifest.DependencyBinary, "Vendor"),
				dep(manifest.DependencyTarget, "Vendor"),
			}},
			{Name: "Vendor", Kind: manifest.TargetBinary},
		},
	}}}
	idx, err := BuildIndices(pkgs)
	require.NoError(t, err)

	pre, err := Preprocess(pkgs, idx, "/art")
	require.NoError(t, err)
	assert.Equal(t, []ResolvedDependency{
		BinaryDependency{Path: "/art/Bin/Vendor.xcframework"},
	}, pre.TargetDependencies[TargetKey{"Bin", "Core"}])
}

func TestPreprocess_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest *manifest.Manifest
		wantErr  error
	}{
		{
			name: "unknown target",
			manifest: &manifest.Manifest{Targets: []manifest.Target{
				{Name: "A", Dependencies: []manifest.Dependency{dep(manifest.DependencyTarget, "Missing")}},
			}},
			wantErr: &UnknownTargetError{PackageName: "P", Referrer: "A", Name: "Missing"},
		},
		{
			name: "unknown product",
			manifest: &manifest.Manifest{Targets: []manifest.Target{
				{Name: "A", Dependencies: []manifest.Dependency{dep(manifest.DependencyProduct, "Nope")}},
			}},
			wantErr: &UnknownProductError{PackageName: "P", Target: "A", Product: "Nope"},
		},
		{
			name: "byName matching nothing",
			manifest: &manifest.Manifest{Targets: []manifest.Target{
				{Name: "A", Dependencies: []manifest.Dependency{dep(manifest.DependencyByName, "Ghost")}},
			}},
			wantErr: &UnknownProductError{PackageName: "P", Target: "A", Product: "Ghost"},
		},
		{
			name: "product with unknown target",
			manifest: &manifest.Manifest{
				Products: []manifest.Product{{Name: "Lib", Targets: []string{"Gone"}}},
			},
			wantErr: &UnknownTargetError{PackageName: "P", Referrer: "Lib", Name: "Gone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkgs := []Package{{Name: "P", Folder: "/p", Manifest: tt.manifest}}
			idx, err := BuildIndices(pkgs)
			require.NoError(t, err)

			_, err = Preprocess(pkgs, idx, "/art")
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err)
			assert.True(t, errors.Is(err, oerrors.ErrResolution))
		})
	}
}

func TestPreprocess_DoesNotMutateManifests(t *testing.T) {
	pkgs := fixturePackages()
	before := *pkgs[1].Manifest
	beforeTargets := append([]manifest.Target(nil), pkgs[1].Manifest.Targets...)

	idx, err := BuildIndices(pkgs)
	require.NoError(t, err)
	_, err = Preprocess(pkgs, idx, "/art")
	require.NoError(t, err)

	assert.Equal(t, before.Name, pkgs[1].Manifest.Name)
	assert.Equal(t, beforeTargets, pkgs[1].Manifest.Targets)
}
