// Package artifact produces build outputs for individual targets by
// delegating to an external build tool.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"text/template"

	"github.com/graphforge/forge/internal/cache"
	"github.com/graphforge/forge/internal/graph"
	"github.com/graphforge/forge/internal/output"
)

// BuildRequest describes one target build.
type BuildRequest struct {
	// Project is the directory of the project owning the target.
	Project string

	Target        string
	Product       graph.ProductType
	Configuration string
	OutputKind    cache.OutputKind

	// OutputDir is where the build must place its outputs. Everything in it
	// is stored in the cache.
	OutputDir string
}

// Builder builds a single target.
type Builder interface {
	Build(ctx context.Context, req BuildRequest) error
}

// CommandBuilder runs a command whose arguments are templates over BuildRequest,
// for example {{.Target}} or {{.OutputDir}}.
type CommandBuilder struct {
	name string
	args []*template.Template
}

// NewCommandBuilder parses argv. The first element is the program.
func NewCommandBuilder(argv []string) (*CommandBuilder, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New("builder command is empty")
	}

	b := &CommandBuilder{name: argv[0]}
	for i, arg := range argv[1:] {
		tmpl, err := template.New(fmt.Sprintf("arg%d", i)).Option("missingkey=error").Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("parsing builder argument %q: %w", arg, err)
		}
		b.args = append(b.args, tmpl)
	}
	return b, nil
}

// Args renders the command line for req.
func (b *CommandBuilder) Args(req BuildRequest) ([]string, error) {
	out := make([]string, 0, len(b.args)+1)
	out = append(out, b.name)
	for _, tmpl := range b.args {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, req); err != nil {
			return nil, fmt.Errorf("rendering builder argument: %w", err)
		}
		out = append(out, buf.String())
	}
	return out, nil
}

// Build implements Builder. The tool's combined output is logged at debug
// level and included in the error when the tool fails.
func (b *CommandBuilder) Build(ctx context.Context, req BuildRequest) error {
	argv, err := b.Args(req)
	if err != nil {
		return err
	}

	log := output.TargetLogger(req.Target)
	log.Debug("running builder", "command", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = req.Project
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	if err := cmd.Run(); err != nil {
		out := strings.TrimSpace(combined.String())
		if out != "" {
			return fmt.Errorf("%s: %w\n%s", argv[0], err, out)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}

	if out := strings.TrimSpace(combined.String()); out != "" {
		log.Debug("builder output", "output", out)
	}
	return nil
}

// Func adapts a function to Builder.
type Func func(ctx context.Context, req BuildRequest) error

// Build implements Builder.
func (f Func) Build(ctx context.Context, req BuildRequest) error {
	return f(ctx, req)
}
