package resolver

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
)

// DefaultArchiveURL is the archive location template used when none is
// configured. It matches the layout served by GitHub and GitLab.
const DefaultArchiveURL = "https://{host}/{repo}/archive/{revision}.tar.gz"

// ArchiveFetcher downloads a gzipped tarball of a revision and unpacks it
// through the file access layer.
type ArchiveFetcher struct {
	fa          *fsutil.FileAccess
	client      *http.Client
	urlTemplate string
}

// NewArchiveFetcher creates an ArchiveFetcher. A nil client means
// http.DefaultClient and an empty template means DefaultArchiveURL.
func NewArchiveFetcher(fa *fsutil.FileAccess, client *http.Client, urlTemplate string) *ArchiveFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if urlTemplate == "" {
		urlTemplate = DefaultArchiveURL
	}
	return &ArchiveFetcher{fa: fa, client: client, urlTemplate: urlTemplate}
}

// URL expands the archive template for ref.
func (f *ArchiveFetcher) URL(ref Ref) string {
	return strings.NewReplacer(
		"{host}", ref.Host,
		"{repo}", ref.Repo,
		"{revision}", url.PathEscape(ref.Revision),
	).Replace(f.urlTemplate)
}

// Fetch implements Fetcher.
func (f *ArchiveFetcher) Fetch(ctx context.Context, ref Ref, dest string) error {
	u := f.URL(ref)
	ctxlog.FromContext(ctx).Debug("Downloading archive.", "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", u, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", u, resp.Status)
	}
	return f.extract(resp.Body, dest)
}

// extract unpacks the regular files of a .tar.gz stream into dest, dropping
// the single top-level directory archives are wrapped in.
func (f *ArchiveFetcher) extract(r io.Reader, dest string) error {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer zr.Close()

	dest = fsutil.Normalize(dest)
	if err := f.fa.MkdirAll(dest); err != nil {
		return err
	}

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}
		if !hdr.FileInfo().Mode().IsRegular() {
			continue
		}

		rel := stripTopLevel(hdr.Name)
		if rel == "" {
			continue
		}
		target := fsutil.Join(dest, rel)
		if !fsutil.Within(dest, target) {
			return fmt.Errorf("archive entry %q escapes destination", hdr.Name)
		}
		if err := f.writeFile(target, tr); err != nil {
			return err
		}
	}
}

func (f *ArchiveFetcher) writeFile(target string, r io.Reader) error {
	if err := f.fa.MkdirAll(path.Dir(target)); err != nil {
		return err
	}
	out, err := f.fa.Fs().OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return out.Close()
}

func stripTopLevel(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	i := strings.Index(name, "/")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}
