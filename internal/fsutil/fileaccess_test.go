package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "absolute path", in: "/test_contract/src", expected: "/test_contract/src"},
		{name: "root relative path", in: "test_contract/src", expected: "/test_contract/src"},
		{name: "parent segments", in: "/test_contract/../test_lib", expected: "/test_lib"},
		{name: "cannot escape root", in: "../../etc", expected: "/etc"},
		{name: "trailing slash", in: "/a/b/", expected: "/a/b"},
		{name: "dot segments", in: "./a/./b", expected: "/a/b"},
		{name: "empty", in: "", expected: "/"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.in))
		})
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "/test_contract", Resolve("/test_contract", "../test_contract"))
	assert.Equal(t, "/test_lib", Resolve("/test_contract", "/test_lib"))
	assert.Equal(t, "/test_contract/libs/a", Resolve("/test_contract", "libs/a"))
}

func TestWithin(t *testing.T) {
	assert.True(t, Within("/cache", "/cache/a/b"))
	assert.True(t, Within("/cache", "/cache"))
	assert.True(t, Within("/", "/anything"))
	assert.False(t, Within("/cache", "/cache-other/a"))
	assert.False(t, Within("/cache/a", "/cache"))
}

// exerciseFileAccess runs the same contract against any backend so the memory
// and disk implementations are held to identical behaviour.
func exerciseFileAccess(t *testing.T, fa *FileAccess) {
	t.Helper()

	// --- Write and read back through two spellings of the same path ---
	require.NoError(t, fa.WriteFile("/pkg/src/main.nr", []byte("fn main() {}")))
	data, err := fa.ReadFile("pkg/other/../src/main.nr")
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", string(data))

	// --- Existence checks ---
	assert.True(t, fa.Exists("/pkg/src/main.nr"))
	assert.True(t, fa.Exists("pkg/src"))
	assert.True(t, fa.IsDir("/pkg/src"))
	assert.False(t, fa.IsDir("/pkg/src/main.nr"))
	assert.False(t, fa.Exists("/pkg/src/lib.nr"))

	// --- Listing is sorted ---
	require.NoError(t, fa.WriteFile("/pkg/b.json", []byte("{}")))
	require.NoError(t, fa.WriteFile("/pkg/a.json", []byte("{}")))
	names, err := fa.ListDir("/pkg")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json", "src"}, names)

	// --- Missing files wrap ErrNotFound ---
	_, err = fa.ReadFile("/pkg/missing.nr")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	// --- Removal ---
	require.NoError(t, fa.Remove("/pkg/a.json"))
	assert.False(t, fa.Exists("/pkg/a.json"))
	require.NoError(t, fa.RemoveAll("/pkg"))
	assert.False(t, fa.Exists("/pkg"))
	require.NoError(t, fa.RemoveAll("/pkg"), "removing a missing tree is not an error")

	// --- Directory creation ---
	require.NoError(t, fa.MkdirAll("/fresh/target"))
	assert.True(t, fa.IsDir("/fresh/target"))
	names, err = fa.ListDir("/fresh/target")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFileAccess_Memory(t *testing.T) {
	exerciseFileAccess(t, NewMemory())
}

func TestFileAccess_OS(t *testing.T) {
	root := t.TempDir()
	fa := NewOS(root)

	exerciseFileAccess(t, fa)

	// The rooted view must map onto the real directory.
	require.NoError(t, fa.WriteFile("/on-disk.txt", []byte("x")))
	_, err := os.Stat(filepath.Join(root, "on-disk.txt"))
	assert.NoError(t, err)
}

func TestFindFilesByExtension(t *testing.T) {
	fa := NewMemory()
	require.NoError(t, fa.WriteFile("/lib/src/lib.nr", nil))
	require.NoError(t, fa.WriteFile("/lib/src/math/field.nr", nil))
	require.NoError(t, fa.WriteFile("/lib/Nargo.toml", nil))

	files, err := fa.FindFilesByExtension("/lib", ".nr")
	require.NoError(t, err)
	assert.Equal(t, []string{"/lib/src/lib.nr", "/lib/src/math/field.nr"}, files)

	assert.Panics(t, func() { _, _ = fa.FindFilesByExtension("/lib", "") })
}
