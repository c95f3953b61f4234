package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/noirbuild/internal/manifest"
)

func TestLocalResolver_ResolveDependency(t *testing.T) {
	ctx := context.Background()
	fa := newTwoPackageFixture(t)
	dependent := openPackage(t, fa, "/test_contract")
	r := NewLocalResolver(fa)

	t.Run("declines git descriptors", func(t *testing.T) {
		desc := manifest.RemoteDescriptor("git@some-git-host", "v1.0.0", "/")

		pkg, err := r.ResolveDependency(ctx, dependent, desc)

		assert.NoError(t, err)
		assert.Nil(t, pkg)
	})

	t.Run("relative and absolute paths resolve", func(t *testing.T) {
		testCases := []struct {
			name string
			path string
			want string
		}{
			{name: "relative self", path: "../test_contract", want: "/test_contract"},
			{name: "absolute self", path: "/test_contract", want: "/test_contract"},
			{name: "relative sibling", path: "../test_lib", want: "/test_lib"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				pkg, err := r.ResolveDependency(ctx, dependent, manifest.PathDescriptor(tc.path))
				require.NoError(t, err)
				require.NotNil(t, pkg)
				assert.Equal(t, tc.want, pkg.ID())
				assert.True(t, fa.Exists(pkg.EntryPoint))
			})
		}
	})

	t.Run("same descriptor twice gives equal packages", func(t *testing.T) {
		a, err := r.ResolveDependency(ctx, dependent, manifest.PathDescriptor("../test_lib"))
		require.NoError(t, err)
		b, err := r.ResolveDependency(ctx, dependent, manifest.PathDescriptor("/test_lib"))
		require.NoError(t, err)

		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("packages differ (-first +second):\n%s", diff)
		}
	})

	t.Run("missing directory declines", func(t *testing.T) {
		pkg, err := r.ResolveDependency(ctx, dependent, manifest.PathDescriptor("../nowhere"))
		assert.NoError(t, err)
		assert.Nil(t, pkg)

		pkg, err = r.ResolveDependency(ctx, dependent, manifest.PathDescriptor("test_lib"))
		assert.NoError(t, err)
		assert.Nil(t, pkg, "relative paths are anchored at the dependent root")
	})

	t.Run("broken manifest is an error", func(t *testing.T) {
		require.NoError(t, fa.WriteFile("/broken/Nargo.toml", []byte("[package]\nname = \"broken\"\n")))

		pkg, err := r.ResolveDependency(ctx, dependent, manifest.PathDescriptor("../broken"))
		assert.Nil(t, pkg)
		assert.True(t, errors.Is(err, manifest.ErrParse))
	})
}
