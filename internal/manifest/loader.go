package manifest

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	oerrors "github.com/graphforge/forge/internal/errors"
	"github.com/graphforge/forge/internal/output"
)

//go:embed schema.cue
var schemaCUE []byte

// Manifest file names looked up in a package folder, in order.
const (
	DumpFileName = "package.json"
	CUEFileName  = "package.cue"
)

// Store returns the manifest of the package rooted at a folder.
type Store interface {
	Load(ctx context.Context, folder string) (*Manifest, error)
}

// LoadError reports a manifest that could not be loaded.
type LoadError struct {
	Folder string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading manifest in %s: %v", e.Folder, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Loader reads manifests from disk, validating them against the package schema.
// A folder holds either a JSON dump (package.json) or a CUE file (package.cue).
type Loader struct {
	// CUE contexts are not safe for concurrent use.
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

// NewLoader creates a Loader with the embedded package schema compiled.
func NewLoader() (*Loader, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling package schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Package"))
	if !def.Exists() {
		return nil, errors.New("package schema missing #Package definition")
	}

	return &Loader{ctx: ctx, schema: def}, nil
}

// Load implements Store.
func (l *Loader) Load(ctx context.Context, folder string) (*Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := findManifest(folder)
	if err != nil {
		return nil, &LoadError{Folder: folder, Cause: err}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Folder: folder, Cause: fmt.Errorf("reading %s: %w", filepath.Base(path), err)}
	}

	m, err := l.Parse(path, content)
	if err != nil {
		return nil, &LoadError{Folder: folder, Cause: err}
	}

	output.Debug("loaded manifest", "package", m.Name, "path", path, "targets", len(m.Targets))
	return m, nil
}

// Parse compiles manifest content (JSON is valid CUE), validates it against
// #Package and decodes it.
func (l *Loader) Parse(filename string, content []byte) (*Manifest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	value := l.ctx.CompileBytes(content, cue.Filename(filename))
	if value.Err() != nil {
		return nil, fmt.Errorf("compiling manifest: %w", value.Err())
	}

	unified := l.schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("manifest does not match the package schema: %v", err),
			filename,
			"Regenerate the package dump",
		)
	}

	var m Manifest
	if err := unified.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

func findManifest(folder string) (string, error) {
	for _, name := range []string{DumpFileName, CUEFileName} {
		path := filepath.Join(folder, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("checking %s: %w", name, err)
		}
	}
	return "", oerrors.NewNotFoundError(
		"no package manifest found",
		folder,
		fmt.Sprintf("Expected %s or %s in the package folder", DumpFileName, CUEFileName),
	)
}
