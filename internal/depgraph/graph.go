// Package depgraph builds the deduplicated dependency graph of a root
// package by walking its manifest through a resolver chain.
package depgraph

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/noirbuild/internal/dag"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/manifest"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
)

// Graph is the resolved dependency universe of a root package. It is frozen
// once Build returns.
type Graph struct {
	root     *noirpkg.Package
	packages map[string]*noirpkg.Package
	// deps maps parent identity -> logical name -> child identity.
	deps map[string]map[string]string
	// names maps identity -> the first logical name it was given.
	names map[string]string
	// byName maps a flattened logical name to the identity it denotes.
	byName   map[string]string
	nameList []string
	edges    *dag.Graph
	order    []string
}

func newGraph(root *noirpkg.Package) *Graph {
	g := &Graph{
		root:     root,
		packages: map[string]*noirpkg.Package{root.ID(): root},
		deps:     make(map[string]map[string]string),
		names:    map[string]string{root.ID(): root.Name()},
		byName:   make(map[string]string),
		edges:    dag.New(),
	}
	g.edges.AddNode(root.ID())
	return g
}

// add registers a fully resolved package.
func (g *Graph) add(pkg *noirpkg.Package) {
	g.packages[pkg.ID()] = pkg
	g.edges.AddNode(pkg.ID())
}

// link records that parent depends on child under dep.Name.
func (g *Graph) link(parent *noirpkg.Package, dep manifest.Dependency, child *noirpkg.Package) error {
	if other, ok := g.byName[dep.Name]; ok && other != child.ID() {
		return &DependencyResolutionError{
			Package:    parent.Name(),
			Dependency: dep.Name,
			Descriptor: dep.Descriptor,
			Cause:      fmt.Errorf("name %q already refers to the package at %s, not %s", dep.Name, other, child.ID()),
		}
	}

	if g.deps[parent.ID()] == nil {
		g.deps[parent.ID()] = make(map[string]string)
	}
	g.deps[parent.ID()][dep.Name] = child.ID()

	if _, ok := g.names[child.ID()]; !ok {
		g.names[child.ID()] = dep.Name
	}
	if _, ok := g.byName[dep.Name]; !ok {
		g.byName[dep.Name] = child.ID()
		g.nameList = append(g.nameList, dep.Name)
	}

	g.edges.AddNode(parent.ID())
	g.edges.AddNode(child.ID())
	return g.edges.AddEdge(child.ID(), parent.ID())
}

func (g *Graph) freeze() error {
	if n := g.edges.Len(); n != len(g.packages) {
		return fmt.Errorf("graph holds %d nodes for %d packages", n, len(g.packages))
	}
	if err := g.edges.DetectCycles(); err != nil {
		return err
	}
	order, err := g.edges.TopologicalOrder()
	if err != nil {
		return err
	}
	g.order = order
	return nil
}

// Root returns the root package.
func (g *Graph) Root() *noirpkg.Package { return g.root }

// Package returns the package with the given identity.
func (g *Graph) Package(id string) (*noirpkg.Package, bool) {
	pkg, ok := g.packages[id]
	return pkg, ok
}

// Packages returns every package, dependencies before dependents.
func (g *Graph) Packages() []*noirpkg.Package {
	pkgs := make([]*noirpkg.Package, 0, len(g.order))
	for _, id := range g.order {
		pkgs = append(pkgs, g.packages[id])
	}
	return pkgs
}

// Dependencies returns the direct dependencies of id keyed by the logical
// name id's manifest gives them.
func (g *Graph) Dependencies(id string) map[string]*noirpkg.Package {
	out := make(map[string]*noirpkg.Package, len(g.deps[id]))
	for name, childID := range g.deps[id] {
		out[name] = g.packages[childID]
	}
	return out
}

// Dependents returns the packages that depend directly on id, ordered by
// identity.
func (g *Graph) Dependents(id string) []*noirpkg.Package {
	ids, err := g.edges.Dependents(id)
	if err != nil {
		return nil
	}
	out := make([]*noirpkg.Package, 0, len(ids))
	for _, depID := range ids {
		out = append(out, g.packages[depID])
	}
	return out
}

// NameOf returns the logical name of the package with the given identity.
func (g *Graph) NameOf(id string) (string, bool) {
	name, ok := g.names[id]
	return name, ok
}

// Names returns the globally unique logical dependency names in the order
// they were first resolved.
func (g *Graph) Names() []string {
	return append([]string(nil), g.nameList...)
}

// Order returns package identities, dependencies before dependents.
func (g *Graph) Order() []string {
	return append([]string(nil), g.order...)
}

// FindFile maps a logical source identifier of the form "<name>/<path>" to
// the file inside the source directory of the dependency called name.
func (g *Graph) FindFile(sourceID string) (string, bool) {
	name, rel, ok := strings.Cut(strings.TrimPrefix(sourceID, "/"), "/")
	if !ok || rel == "" {
		return "", false
	}
	id, ok := g.byName[name]
	if !ok {
		return "", false
	}
	return fsutil.Join(g.packages[id].SrcDir(), rel), true
}
