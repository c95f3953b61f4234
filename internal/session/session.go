// Package session runs one resolution or compilation of a project. A Manager
// wires the file access layer, the resolver chain and the chosen backend, and
// serialises runs that target the same project directory.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/noirbuild/internal/artifact"
	"github.com/specialistvlad/noirbuild/internal/compiler"
	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/depgraph"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
	"github.com/specialistvlad/noirbuild/internal/resolver"
)

// Result is the outcome of a run.
type Result struct {
	Root  *noirpkg.Package
	Graph *depgraph.Graph
	// Artifacts is empty for resolve-only runs.
	Artifacts []artifact.Artifact
}

// Manager creates runs against projects.
type Manager struct {
	fa       *fsutil.FileAccess
	resolver resolver.Resolver
	backend  compiler.Backend
	// locks holds one *sync.Mutex per normalised project root.
	locks sync.Map
}

// NewManager creates a Manager. backend may be nil for managers that only
// resolve.
func NewManager(fa *fsutil.FileAccess, r resolver.Resolver, backend compiler.Backend) *Manager {
	return &Manager{fa: fa, resolver: r, backend: backend}
}

// Resolve opens the project at dir and builds its dependency graph.
func (m *Manager) Resolve(ctx context.Context, dir string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("session.Manager.Resolve called", "dir", dir)

	root, err := m.open(ctx, dir)
	if err != nil {
		return nil, err
	}
	return m.build(ctx, root)
}

// Compile resolves the project at dir and compiles it with the configured
// backend. A root that is not a contract is rejected before any dependency
// is resolved. Concurrent compilations of the same project run one at a time
// since both backends rewrite its target directory.
func (m *Manager) Compile(ctx context.Context, dir string) (*Result, error) {
	if m.backend == nil {
		return nil, fmt.Errorf("no compilation backend configured")
	}

	unlock := m.lock(dir)
	defer unlock()

	root, err := m.open(ctx, dir)
	if err != nil {
		return nil, err
	}
	if err := compiler.RequireContract(root); err != nil {
		return nil, fmt.Errorf("%s backend: %w", m.backend.Name(), err)
	}

	res, err := m.build(ctx, root)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Handing graph to backend.", "backend", m.backend.Name(), "packages", len(res.Graph.Order()))

	artifacts, err := m.backend.Compile(ctx, res.Root, res.Graph)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", m.backend.Name(), err)
	}
	res.Artifacts = artifacts
	return res, nil
}

func (m *Manager) open(ctx context.Context, dir string) (*noirpkg.Package, error) {
	root, err := noirpkg.Open(ctx, m.fa, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	return root, nil
}

func (m *Manager) build(ctx context.Context, root *noirpkg.Package) (*Result, error) {
	graph, err := depgraph.Build(ctx, root, m.resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies of %s: %w", root.Name(), err)
	}
	return &Result{Root: root, Graph: graph}, nil
}

func (m *Manager) lock(dir string) func() {
	v, _ := m.locks.LoadOrStore(fsutil.Normalize(dir), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
