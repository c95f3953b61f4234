package testutil

import (
	"archive/tar"
	"bytes"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

// TarGz packs files below a single top-level directory, the layout used by
// hosted archive downloads.
func TarGz(t *testing.T, top string, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(zw)
	for _, name := range names {
		body := files[name]
		hdr := &tar.Header{Name: top + "/" + name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// ArchiveServer serves archives by request path and counts requests.
type ArchiveServer struct {
	*httptest.Server
	hits atomic.Int64
}

// NewArchiveServer starts a server answering each key of archives (a URL
// path such as "/github.com/acme/lib/v1.tar.gz") and 404 otherwise.
func NewArchiveServer(t *testing.T, archives map[string][]byte) *ArchiveServer {
	t.Helper()
	s := &ArchiveServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		data, ok := archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(s.Close)
	return s
}

// Hits returns the number of requests served.
func (s *ArchiveServer) Hits() int64 {
	return s.hits.Load()
}

// URLTemplate is an archive_url setting pointing at this server.
func (s *ArchiveServer) URLTemplate() string {
	return s.URL + "/{host}/{repo}/{revision}.tar.gz"
}
