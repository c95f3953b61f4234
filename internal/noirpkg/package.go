// Package noirpkg loads a Noir package from a directory: its manifest, its
// entry point and its source files.
package noirpkg

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/manifest"
)

const (
	// ManifestFileName is the name of the descriptor file at a package root.
	ManifestFileName = "Nargo.toml"
	// SourceDir holds the package sources, relative to the root.
	SourceDir = "src"
	// SourceExt is the extension of Noir source files.
	SourceExt = ".nr"
)

// Package is the resolved, read-only representation of one Noir package.
type Package struct {
	// Root is the normalised package directory and doubles as its identity.
	Root       string
	Manifest   *manifest.Manifest
	EntryPoint string
}

// Open reads and validates the package rooted at dir. The entry point must
// already exist.
func Open(ctx context.Context, fa *fsutil.FileAccess, dir string) (*Package, error) {
	logger := ctxlog.FromContext(ctx)
	root := fsutil.Normalize(dir)
	manifestPath := fsutil.Join(root, ManifestFileName)

	data, err := fa.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			return nil, &ManifestNotFoundError{Dir: root, Err: err}
		}
		return nil, fmt.Errorf("failed to read manifest of %s: %w", root, err)
	}

	m, err := manifest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}

	pkg := &Package{
		Root:       root,
		Manifest:   m,
		EntryPoint: fsutil.Join(root, SourceDir, EntryPointFile(m.Kind)),
	}
	if !fa.Exists(pkg.EntryPoint) {
		return nil, &EntryPointMissingError{Package: m.Name, Path: pkg.EntryPoint}
	}

	logger.Debug("Opened package.", "name", m.Name, "kind", m.Kind, "root", root)
	return pkg, nil
}

// EntryPointFile is the file name under src/ that a package of kind k starts from.
func EntryPointFile(k manifest.Kind) string {
	if k == manifest.KindLibrary {
		return "lib" + SourceExt
	}
	return "main" + SourceExt
}

// ID returns the identity of the package.
func (p *Package) ID() string { return p.Root }

// Name returns the declared package name.
func (p *Package) Name() string { return p.Manifest.Name }

// Kind returns the declared package kind.
func (p *Package) Kind() manifest.Kind { return p.Manifest.Kind }

// SrcDir returns the directory holding the package sources.
func (p *Package) SrcDir() string { return fsutil.Join(p.Root, SourceDir) }

// SourceFiles lists every Noir source file under SrcDir.
func (p *Package) SourceFiles(fa *fsutil.FileAccess) ([]string, error) {
	return fa.FindFilesByExtension(p.SrcDir(), SourceExt)
}
