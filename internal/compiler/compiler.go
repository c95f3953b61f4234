// Package compiler defines the contract shared by the compilation backends.
package compiler

import (
	"context"
	"fmt"

	"github.com/specialistvlad/noirbuild/internal/artifact"
	"github.com/specialistvlad/noirbuild/internal/depgraph"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/manifest"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
)

// TargetDirName is the build output directory below a project root.
const TargetDirName = "target"

// Backend compiles a resolved root package.
type Backend interface {
	Name() string
	Compile(ctx context.Context, root *noirpkg.Package, graph *depgraph.Graph) ([]artifact.Artifact, error)
}

// NotAContractError is returned when asked to compile a package that is not
// a contract.
type NotAContractError struct {
	Package string
	Kind    manifest.Kind
}

func (e *NotAContractError) Error() string {
	return fmt.Sprintf("package %q is a %s, not a contract", e.Package, e.Kind)
}

// RequireContract returns a NotAContractError unless pkg is a contract.
func RequireContract(pkg *noirpkg.Package) error {
	if !pkg.Kind().Compilable() {
		return &NotAContractError{Package: pkg.Name(), Kind: pkg.Kind()}
	}
	return nil
}

// TargetDir returns the build output directory of pkg.
func TargetDir(pkg *noirpkg.Package) string {
	return fsutil.Join(pkg.Root, TargetDirName)
}
