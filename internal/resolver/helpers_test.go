package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
)

const (
	contractManifest = "[package]\nname = \"test_contract\"\ntype = \"contract\"\n\n[dependencies]\nself = { path = \"../test_contract\" }\n"
	libManifest      = "[package]\nname = \"test_lib\"\ntype = \"lib\"\n"
)

// newTwoPackageFixture builds the in-memory volume holding test_contract and
// test_lib side by side.
func newTwoPackageFixture(t *testing.T) *fsutil.FileAccess {
	t.Helper()
	fa := fsutil.NewMemory()
	files := map[string]string{
		"/test_contract/Nargo.toml":  contractManifest,
		"/test_contract/src/main.nr": "contract Test {}",
		"/test_lib/Nargo.toml":       libManifest,
		"/test_lib/src/lib.nr":       "fn helper() {}",
	}
	for p, content := range files {
		require.NoError(t, fa.WriteFile(p, []byte(content)))
	}
	return fa
}

func openPackage(t *testing.T, fa *fsutil.FileAccess, dir string) *noirpkg.Package {
	t.Helper()
	pkg, err := noirpkg.Open(context.Background(), fa, dir)
	require.NoError(t, err)
	return pkg
}
