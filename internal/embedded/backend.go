// Package embedded is the compilation backend that drives an in-process
// compiler engine. The engine pulls source text through a lookup callback
// bound to the resolved dependency graph.
package embedded

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/specialistvlad/noirbuild/internal/artifact"
	"github.com/specialistvlad/noirbuild/internal/compiler"
	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/depgraph"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
)

// BackendName identifies this backend in configuration.
const BackendName = "embedded"

// ErrNoEngine is returned when the backend is used without an engine.
var ErrNoEngine = errors.New("no embedded compiler engine registered")

// Request is what the engine is asked to compile.
type Request struct {
	EntryPoint           string
	OptionalDependencies []string
	Contracts            bool
}

// CompiledContract is one contract produced by the engine.
type CompiledContract struct {
	Name      string
	Functions []json.RawMessage
}

// SourceLookup returns the source text for a logical source identifier, or
// an empty string when there is none.
type SourceLookup func(sourceID string) string

// Engine is an in-process compiler.
type Engine interface {
	Compile(ctx context.Context, req Request, lookup SourceLookup) ([]CompiledContract, error)
}

// Options configures a Backend.
type Options struct {
	Engine Engine
	Store  artifact.Store
	FS     *fsutil.FileAccess
}

// Backend compiles contracts with an embedded Engine.
type Backend struct {
	opts Options
}

var _ compiler.Backend = (*Backend)(nil)

// New creates a Backend.
func New(opts Options) *Backend {
	return &Backend{opts: opts}
}

// Name implements compiler.Backend.
func (b *Backend) Name() string { return BackendName }

// Compile implements compiler.Backend. Every result is also written to the
// project's target directory.
func (b *Backend) Compile(ctx context.Context, root *noirpkg.Package, graph *depgraph.Graph) ([]artifact.Artifact, error) {
	logger := ctxlog.FromContext(ctx)

	if err := compiler.RequireContract(root); err != nil {
		return nil, err
	}
	if b.opts.Engine == nil {
		return nil, ErrNoEngine
	}

	req := Request{
		EntryPoint:           root.EntryPoint,
		OptionalDependencies: graph.Names(),
		Contracts:            true,
	}
	logger.Info("Compiling contract in process.", "entry_point", req.EntryPoint, "dependencies", req.OptionalDependencies)
	for _, pkg := range graph.Packages() {
		if name, ok := graph.NameOf(pkg.ID()); ok {
			logger.Debug("Dependency source root.", "name", name, "src", pkg.SrcDir())
		}
	}

	results, err := b.opts.Engine.Compile(ctx, req, NewSourceLookup(b.opts.FS, graph))
	if err != nil {
		return nil, fmt.Errorf("embedded compilation of %s failed: %w", root.Name(), err)
	}

	target := compiler.TargetDir(root)
	artifacts := make([]artifact.Artifact, 0, len(results))
	for _, res := range results {
		a := artifact.Artifact{ContractName: res.Name, Functions: res.Functions}
		if err := b.opts.Store.Write(ctx, target, a); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// NewSourceLookup resolves "<dependency>/<path>" identifiers through graph
// and anything else as a literal path. It never fails: missing sources read
// as empty.
func NewSourceLookup(fa *fsutil.FileAccess, graph *depgraph.Graph) SourceLookup {
	return func(sourceID string) string {
		p := sourceID
		if file, ok := graph.FindFile(sourceID); ok {
			p = file
		}
		data, err := fa.ReadFile(p)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
