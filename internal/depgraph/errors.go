package depgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/noirbuild/internal/manifest"
)

// ErrUnresolved is matched by every DependencyResolutionError.
var ErrUnresolved = errors.New("dependency resolution failed")

// DependencyResolutionError reports a dependency that no resolver could
// materialise, or whose logical name clashes with another package.
type DependencyResolutionError struct {
	// Package is the name of the dependent package.
	Package    string
	Dependency string
	Descriptor manifest.Descriptor
	// Cause is nil when every resolver declined.
	Cause error
}

func (e *DependencyResolutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("package %q: could not resolve dependency %q %s", e.Package, e.Dependency, e.Descriptor)
	}
	return fmt.Sprintf("package %q: could not resolve dependency %q %s: %v", e.Package, e.Dependency, e.Descriptor, e.Cause)
}

func (e *DependencyResolutionError) Unwrap() error { return e.Cause }

func (e *DependencyResolutionError) Is(target error) bool { return target == ErrUnresolved }

// CycleDetectedError reports a package that depends on itself, directly or
// transitively. Path lists package names from the first package of the cycle
// back to itself.
type CycleDetectedError struct {
	Path []string
}

func (e *CycleDetectedError) Error() string {
	return "dependency cycle detected: " + strings.Join(e.Path, " -> ")
}
