package nargo

import (
	"context"
	"errors"
	"io"

	"github.com/specialistvlad/noirbuild/internal/artifact"
	"github.com/specialistvlad/noirbuild/internal/compiler"
	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/depgraph"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
)

// BackendName identifies this backend in configuration.
const BackendName = "nargo"

// DefaultBinary is the nargo executable looked up on PATH.
const DefaultBinary = "nargo"

// Options configures a Backend.
type Options struct {
	// Binary is the nargo executable. Defaults to DefaultBinary.
	Binary string
	// ExpectedVersion defaults to DefaultExpectedVersion.
	ExpectedVersion string
	// Quiet silences compiler output and the version notice.
	Quiet bool
	// Output receives compiler output unless Quiet is set.
	Output io.Writer
	// Runner defaults to ExecRunner.
	Runner Runner
	// Store must operate on the same paths the compiler writes to.
	Store artifact.Store
}

// Backend compiles contracts with an external nargo process.
type Backend struct {
	opts Options
}

var _ compiler.Backend = (*Backend)(nil)

// New creates a Backend, filling unset options with their defaults.
func New(opts Options) *Backend {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.ExpectedVersion == "" {
		opts.ExpectedVersion = DefaultExpectedVersion
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	return &Backend{opts: opts}
}

// Name implements compiler.Backend.
func (b *Backend) Name() string { return BackendName }

// Compile implements compiler.Backend. nargo resolves dependencies itself, so
// graph is only consulted for logging.
func (b *Backend) Compile(ctx context.Context, root *noirpkg.Package, graph *depgraph.Graph) ([]artifact.Artifact, error) {
	logger := ctxlog.FromContext(ctx)

	if err := compiler.RequireContract(root); err != nil {
		return nil, err
	}

	out, err := b.run(ctx, root, false, "--version")
	if err != nil {
		return nil, err
	}
	b.checkVersion(ctx, root, string(out))

	target := compiler.TargetDir(root)
	if err := b.opts.Store.Clear(ctx, target); err != nil {
		return nil, err
	}

	logger.Info("Compiling contract with nargo.", "package", root.Name(), "dependencies", graph.Names())
	if _, err := b.run(ctx, root, !b.opts.Quiet, "compile", "--no-backend"); err != nil {
		return nil, err
	}

	artifacts, err := b.opts.Store.Harvest(ctx, target)
	if err != nil {
		return nil, err
	}
	logger.Debug("Harvested nargo artifacts.", "count", len(artifacts))
	return artifacts, nil
}

func (b *Backend) run(ctx context.Context, root *noirpkg.Package, stream bool, args ...string) ([]byte, error) {
	cmd := Command{Dir: root.Root, Name: b.opts.Binary, Args: args}
	if stream {
		cmd.Stream = b.opts.Output
	}

	out, err := b.opts.Runner.Run(ctx, cmd)
	if err != nil {
		code := -1
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return nil, &CompilerInvocationError{
			Args:     append([]string{b.opts.Binary}, args...),
			ExitCode: code,
			Output:   string(out),
			Err:      err,
		}
	}
	return out, nil
}

func (b *Backend) checkVersion(ctx context.Context, root *noirpkg.Package, output string) {
	logger := ctxlog.FromContext(ctx)

	found, warnings := CheckVersion(output, b.opts.ExpectedVersion, root.Manifest.CompilerVersion)
	for _, w := range warnings {
		logger.Warn(w.Error(), "expected", w.Expected, "found", w.Found, "constraint", w.Constraint)
	}
	if len(warnings) == 0 && !b.opts.Quiet {
		logger.Info("Using nargo.", "version", found)
	}
}
