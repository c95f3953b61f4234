package resolver

import (
	"context"
	"errors"

	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/manifest"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
)

// LocalResolver resolves path descriptors, relative to the dependent package
// root or absolute. A directory without a manifest is declined so the next
// resolver may try, but a manifest that is present and broken is fatal.
type LocalResolver struct {
	fa *fsutil.FileAccess
}

// NewLocalResolver creates a LocalResolver reading through fa.
func NewLocalResolver(fa *fsutil.FileAccess) *LocalResolver {
	return &LocalResolver{fa: fa}
}

// ResolveDependency implements Resolver. A directory without a manifest is
// declined rather than reported; a manifest that exists but is broken is an
// error.
func (r *LocalResolver) ResolveDependency(ctx context.Context, dependent *noirpkg.Package, desc manifest.Descriptor) (*noirpkg.Package, error) {
	if desc.Kind != manifest.DescriptorPath {
		return nil, nil
	}

	logger := ctxlog.FromContext(ctx)
	dir := fsutil.Resolve(dependent.Root, desc.Path)

	pkg, err := noirpkg.Open(ctx, r.fa, dir)
	if err != nil {
		var notFound *noirpkg.ManifestNotFoundError
		if errors.As(err, &notFound) {
			logger.Debug("Local dependency not found, declining.", "dependent", dependent.Name(), "path", dir)
			return nil, nil
		}
		return nil, err
	}
	return pkg, nil
}
