package depgraph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
	"github.com/specialistvlad/noirbuild/internal/resolver"
)

// state is the resolution state of one package identity in the arena.
type state int

const (
	unvisited state = iota
	inProgress
	resolved
)

// arena holds the transient bookkeeping of a single Build call.
type arena struct {
	states map[string]state
	// stack is the chain of packages currently being resolved.
	stack []*noirpkg.Package
}

func (a *arena) push(pkg *noirpkg.Package) {
	a.states[pkg.ID()] = inProgress
	a.stack = append(a.stack, pkg)
}

func (a *arena) pop() {
	top := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	a.states[top.ID()] = resolved
}

// cycle returns the package names from id up to the top of the stack, closed
// with id again.
func (a *arena) cycle(id string) []string {
	var path []string
	for i := len(a.stack) - 1; i >= 0; i-- {
		if a.stack[i].ID() == id {
			for _, pkg := range a.stack[i:] {
				path = append(path, pkg.Name())
			}
			return append(path, a.stack[i].Name())
		}
	}
	return nil
}

type builder struct {
	resolver resolver.Resolver
	graph    *Graph
	arena    arena
}

// Build resolves every dependency of root, transitively, through r.
// Packages reached along several paths are resolved once.
func Build(ctx context.Context, root *noirpkg.Package, r resolver.Resolver) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving dependency graph.", "root", root.Name())

	b := &builder{
		resolver: r,
		graph:    newGraph(root),
		arena:    arena{states: make(map[string]state)},
	}

	b.arena.push(root)
	if err := b.visit(ctx, root); err != nil {
		return nil, err
	}
	b.arena.pop()

	if err := b.graph.freeze(); err != nil {
		return nil, fmt.Errorf("failed to order dependency graph: %w", err)
	}

	logger.Debug("Dependency graph resolved.", "packages", len(b.graph.packages), "names", b.graph.nameList)
	return b.graph, nil
}

func (b *builder) visit(ctx context.Context, pkg *noirpkg.Package) error {
	logger := ctxlog.FromContext(ctx)

	for _, dep := range pkg.Manifest.Dependencies {
		if err := ctx.Err(); err != nil {
			return err
		}

		child, err := b.resolver.ResolveDependency(ctx, pkg, dep.Descriptor)
		if err != nil || child == nil {
			return &DependencyResolutionError{
				Package:    pkg.Name(),
				Dependency: dep.Name,
				Descriptor: dep.Descriptor,
				Cause:      err,
			}
		}

		id := child.ID()
		switch b.arena.states[id] {
		case inProgress:
			return &CycleDetectedError{Path: b.arena.cycle(id)}
		case resolved:
			logger.Debug("Reusing resolved dependency.", "dependent", pkg.Name(), "name", dep.Name, "id", id)
			child = b.graph.packages[id]
		default:
			logger.Debug("Resolved dependency.", "dependent", pkg.Name(), "name", dep.Name, "id", id)
			b.arena.push(child)
			if err := b.visit(ctx, child); err != nil {
				return err
			}
			b.arena.pop()
			b.graph.add(child)
		}

		if err := b.graph.link(pkg, dep, child); err != nil {
			return err
		}
	}
	return nil
}
