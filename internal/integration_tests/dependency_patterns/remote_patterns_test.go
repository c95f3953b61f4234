package integration_tests

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/noirbuild/internal/app"
	"github.com/specialistvlad/noirbuild/internal/testutil"
)

const cacheRoot = "/home/test/.cache/noirbuild"

func remoteWorkspace(t *testing.T, srv *testutil.ArchiveServer) map[string]string {
	t.Helper()
	return testutil.Merge(
		testutil.Package("/work/app", "app", "contract",
			`math = { git = "https://github.com/acme/noir-math", tag = "v0.3.0" }`,
			`sig = { git = "git@github.com:acme/noir-sig.git", tag = "v1.0.0", directory = "packages/sig" }`),
		map[string]string{
			"/work/app/noirbuild.hcl": `remote {
  archive_url = "` + srv.URLTemplate() + `"
}
`,
		},
	)
}

func remoteArchives(t *testing.T) map[string][]byte {
	t.Helper()
	return map[string][]byte{
		"/github.com/acme/noir-math/v0.3.0.tar.gz": testutil.TarGz(t, "noir-math-0.3.0", map[string]string{
			"Nargo.toml": testutil.Manifest("math", "lib"),
			"src/lib.nr": "fn add() {}",
		}),
		"/github.com/acme/noir-sig/v1.0.0.tar.gz": testutil.TarGz(t, "noir-sig-1.0.0", map[string]string{
			"packages/sig/Nargo.toml": testutil.Manifest("sig", "lib", `math = { git = "https://github.com/acme/noir-math.git", tag = "v0.3.0" }`),
			"packages/sig/src/lib.nr": "fn verify() {}",
			"README.md":               "noir-sig",
		}),
	}
}

func TestRemote_FetchesIntoCache(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.NewArchiveServer(t, remoteArchives(t))
	files := remoteWorkspace(t, srv)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{Command: app.CommandDeps, ProjectPath: "/work/app"})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.EqualValues(t, 2, srv.Hits(), "each repository is downloaded once")

	mathDir := cacheRoot + "/github.com/acme/noir-math/v0.3.0"
	sigDir := cacheRoot + "/github.com/acme/noir-sig/v1.0.0"
	assert.True(t, result.FS.Exists(mathDir+"/src/lib.nr"))
	assert.True(t, result.FS.Exists(sigDir+"/packages/sig/Nargo.toml"))
	assert.True(t, result.FS.Exists(sigDir+"/README.md"), "the whole repository is unpacked")

	assert.Contains(t, result.Output, "math ("+mathDir+")")
	assert.Contains(t, result.Output, "sig ("+sigDir+"/packages/sig)")

	names, err := result.FS.ListDir(cacheRoot + "/github.com/acme")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"noir-math", "noir-sig"}, names); diff != "" {
		t.Errorf("unexpected cache layout (-want +got):\n%s", diff)
	}
}

func TestRemote_SecondRunUsesCache(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.NewArchiveServer(t, remoteArchives(t))
	fa := testutil.NewWorkspace(t, remoteWorkspace(t, srv))
	cfg := app.Config{Command: app.CommandDeps, ProjectPath: "/work/app"}

	// --- Act ---
	first := testutil.RunIntegrationTestWithContext(context.Background(), t, fa, cfg)
	second := testutil.RunIntegrationTestWithContext(context.Background(), t, fa, cfg)

	// --- Assert ---
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)
	assert.EqualValues(t, 2, srv.Hits())
	assert.Equal(t, first.Output, second.Output)
	assert.Contains(t, second.LogOutput, "Remote dependency cache hit.")
	assert.NotContains(t, second.LogOutput, "Fetching remote dependency.")
}

func TestRemote_PartialCacheEntryIsRefetched(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.NewArchiveServer(t, remoteArchives(t))
	files := remoteWorkspace(t, srv)
	// Left behind by an interrupted download: content without the marker.
	files[cacheRoot+"/github.com/acme/noir-math/v0.3.0/Nargo.toml"] = "garbage"

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{Command: app.CommandDeps, ProjectPath: "/work/app"})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.EqualValues(t, 2, srv.Hits())
	assert.Contains(t, result.LogOutput, "Discarding partial cache entry.")
}
