// Package resolver turns dependency descriptors into opened packages.
//
// A Resolver either claims a descriptor and returns the package (or a fatal
// error when it claimed the descriptor but could not materialise it), or
// declines with (nil, nil) so the next resolver of a Chain can try.
package resolver

import (
	"context"

	"github.com/specialistvlad/noirbuild/internal/manifest"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
)

// Resolver materialises one dependency of dependent.
type Resolver interface {
	ResolveDependency(ctx context.Context, dependent *noirpkg.Package, desc manifest.Descriptor) (*noirpkg.Package, error)
}

// Func adapts an ordinary function to the Resolver interface.
type Func func(ctx context.Context, dependent *noirpkg.Package, desc manifest.Descriptor) (*noirpkg.Package, error)

// ResolveDependency calls f.
func (f Func) ResolveDependency(ctx context.Context, dependent *noirpkg.Package, desc manifest.Descriptor) (*noirpkg.Package, error) {
	return f(ctx, dependent, desc)
}

// Chain tries each resolver in order. The first package returned wins and
// the first error aborts the chain. A chain where every resolver declines
// declines as well.
type Chain []Resolver

// ResolveDependency implements Resolver.
func (c Chain) ResolveDependency(ctx context.Context, dependent *noirpkg.Package, desc manifest.Descriptor) (*noirpkg.Package, error) {
	for _, r := range c {
		pkg, err := r.ResolveDependency(ctx, dependent, desc)
		if err != nil {
			return nil, err
		}
		if pkg != nil {
			return pkg, nil
		}
	}
	return nil, nil
}
