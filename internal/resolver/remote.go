package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/manifest"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
)

// Fetcher materialises the content of ref into dest.
type Fetcher interface {
	Fetch(ctx context.Context, ref Ref, dest string) error
}

// RemoteResolver resolves remote descriptors through a filesystem cache
// keyed by source and revision.
type RemoteResolver struct {
	fa        *fsutil.FileAccess
	cacheRoot string
	fetcher   Fetcher
	group     singleflight.Group
}

// NewRemoteResolver creates a RemoteResolver caching below cacheRoot.
func NewRemoteResolver(fa *fsutil.FileAccess, cacheRoot string, fetcher Fetcher) *RemoteResolver {
	return &RemoteResolver{
		fa:        fa,
		cacheRoot: fsutil.Normalize(cacheRoot),
		fetcher:   fetcher,
	}
}

// CacheDir returns the directory holding the content of ref.
func (r *RemoteResolver) CacheDir(ref Ref) string {
	return fsutil.Join(r.cacheRoot, ref.Host, ref.Repo, ref.Revision)
}

// ResolveDependency implements Resolver.
func (r *RemoteResolver) ResolveDependency(ctx context.Context, dependent *noirpkg.Package, desc manifest.Descriptor) (*noirpkg.Package, error) {
	if desc.Kind != manifest.DescriptorRemote {
		return nil, nil
	}

	fetchErr := func(err error) error {
		return &RemoteFetchError{Source: desc.Source, Revision: desc.Revision, Err: err}
	}

	host, repo, err := ParseRemoteSource(desc.Source)
	if err != nil {
		return nil, fetchErr(err)
	}
	if desc.Revision == "" || strings.Contains(desc.Revision, "..") {
		return nil, fetchErr(fmt.Errorf("invalid revision %q", desc.Revision))
	}

	ref := Ref{Host: host, Repo: repo, Revision: desc.Revision}
	dir := r.CacheDir(ref)
	if !fsutil.Within(r.cacheRoot, dir) {
		return nil, fetchErr(fmt.Errorf("cache path %s escapes %s", dir, r.cacheRoot))
	}
	pkgDir := fsutil.Join(dir, desc.Subdirectory)
	if !fsutil.Within(dir, pkgDir) {
		return nil, fetchErr(fmt.Errorf("directory %q escapes the repository checkout", desc.Subdirectory))
	}

	_, err, shared := r.group.Do(dir, func() (any, error) {
		return nil, r.ensure(ctx, ref, dir)
	})
	if err != nil {
		return nil, fetchErr(err)
	}

	ctxlog.FromContext(ctx).Debug("Opening remote dependency.",
		"dependent", dependent.Name(), "source", desc.Source, "revision", desc.Revision, "dir", pkgDir, "shared", shared)

	pkg, err := noirpkg.Open(ctx, r.fa, pkgDir)
	if err != nil {
		return nil, fmt.Errorf("remote dependency %s: %w", desc, err)
	}
	return pkg, nil
}

// ensure makes sure dir holds a complete copy of ref.
func (r *RemoteResolver) ensure(ctx context.Context, ref Ref, dir string) error {
	logger := ctxlog.FromContext(ctx)

	if entry, ok := readCacheEntry(r.fa, dir, ref); ok {
		logger.Debug("Remote dependency cache hit.", "dir", dir, "fetched_at", entry.FetchedAt)
		return nil
	}
	if r.fa.Exists(dir) {
		logger.Debug("Discarding partial cache entry.", "dir", dir)
		if err := r.fa.RemoveAll(dir); err != nil {
			return err
		}
	}

	logger.Info("Fetching remote dependency.", "host", ref.Host, "repo", ref.Repo, "revision", ref.Revision)
	if err := r.fetcher.Fetch(ctx, ref, dir); err != nil {
		_ = r.fa.RemoveAll(dir)
		return err
	}
	return writeCacheEntry(r.fa, dir, ref, time.Now())
}
