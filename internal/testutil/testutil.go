// Package testutil provides helpers for building on-disk fixtures in tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteJSON marshals v and writes it to dir/name.
func WriteJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal %s: %v", name, err)
	}
	return WriteFile(t, dir, name, string(data))
}

// StateEntry is one dependency in a fixture workspace-state.json.
type StateEntry struct {
	Name    string
	Kind    string
	Path    string
	Subpath string
}

// WriteWorkspaceState writes a workspace-state.json under root.
func WriteWorkspaceState(t *testing.T, root string, entries ...StateEntry) string {
	t.Helper()
	deps := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		ref := map[string]any{"name": e.Name, "kind": e.Kind}
		if e.Path != "" {
			ref["path"] = e.Path
		}
		deps = append(deps, map[string]any{"packageRef": ref, "subpath": e.Subpath})
	}
	doc := map[string]any{
		"object":  map[string]any{"dependencies": deps},
		"version": 4,
	}
	return WriteJSON(t, root, "workspace-state.json", doc)
}

// SampleManifest is the package.json of the sample package "Alpha": product
// AlphaCore (dynamic) built from target AlphaCore, which depends on target
// AlphaSupport.
const SampleManifest = `{
  "name": "Alpha",
  "toolsVersion": "5.9",
  "products": [
    {"name": "AlphaCore", "type": "library", "linkage": "dynamic", "targets": ["AlphaCore"]}
  ],
  "targets": [
    {"name": "AlphaCore", "dependencies": [{"kind": "target", "name": "AlphaSupport"}]},
    {"name": "AlphaSupport"}
  ]
}`

// WriteSampleWorkspace writes a workspace under root declaring the remote
// package "Alpha" checked out at checkouts/alpha-1.0, with its manifest and
// one source file per target. It returns the package folder.
func WriteSampleWorkspace(t *testing.T, root string) string {
	t.Helper()
	WriteWorkspaceState(t, root, StateEntry{Name: "Alpha", Kind: "remote", Subpath: "alpha-1.0"})

	folder := filepath.Join(root, "checkouts", "alpha-1.0")
	WriteFile(t, folder, "package.json", SampleManifest)
	WriteFile(t, folder, "Sources/AlphaCore/Core.swift", "public struct Core {}\n")
	WriteFile(t, folder, "Sources/AlphaSupport/Support.swift", "struct Support {}\n")
	return folder
}
