package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/noirbuild/internal/manifest"
	"github.com/specialistvlad/noirbuild/internal/noirpkg"
)

func TestChain_ResolveDependency(t *testing.T) {
	ctx := context.Background()
	fa := newTwoPackageFixture(t)
	dependent := openPackage(t, fa, "/test_contract")
	lib := openPackage(t, fa, "/test_lib")

	var calls []string
	decline := func(name string) Resolver {
		return Func(func(context.Context, *noirpkg.Package, manifest.Descriptor) (*noirpkg.Package, error) {
			calls = append(calls, name)
			return nil, nil
		})
	}
	found := func(name string) Resolver {
		return Func(func(context.Context, *noirpkg.Package, manifest.Descriptor) (*noirpkg.Package, error) {
			calls = append(calls, name)
			return lib, nil
		})
	}
	boom := errors.New("boom")
	fail := func(name string) Resolver {
		return Func(func(context.Context, *noirpkg.Package, manifest.Descriptor) (*noirpkg.Package, error) {
			calls = append(calls, name)
			return nil, boom
		})
	}

	testCases := []struct {
		name          string
		chain         Chain
		expectedPkg   *noirpkg.Package
		expectedErr   error
		expectedCalls []string
	}{
		{name: "empty chain declines", chain: Chain{}, expectedCalls: nil},
		{name: "all decline", chain: Chain{decline("a"), decline("b")}, expectedCalls: []string{"a", "b"}},
		{name: "first match wins", chain: Chain{decline("a"), found("b"), found("c")}, expectedPkg: lib, expectedCalls: []string{"a", "b"}},
		{name: "error aborts", chain: Chain{fail("a"), found("b")}, expectedErr: boom, expectedCalls: []string{"a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls = nil

			pkg, err := tc.chain.ResolveDependency(ctx, dependent, manifest.PathDescriptor("../test_lib"))

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expectedPkg, pkg)
			assert.Equal(t, tc.expectedCalls, calls)
		})
	}
}

func TestChain_LocalOnlyDeclinesGit(t *testing.T) {
	fa := newTwoPackageFixture(t)
	dependent := openPackage(t, fa, "/test_contract")
	chain := Chain{NewLocalResolver(fa)}

	pkg, err := chain.ResolveDependency(context.Background(), dependent,
		manifest.RemoteDescriptor("git@some-git-host", "v1.0.0", "/"))

	assert.NoError(t, err)
	assert.Nil(t, pkg)
}

func TestParseRemoteSource(t *testing.T) {
	testCases := []struct {
		source   string
		host     string
		repo     string
		hasError bool
	}{
		{source: "https://github.com/noir-lang/noir-starter", host: "github.com", repo: "noir-lang/noir-starter"},
		{source: "https://github.com/noir-lang/noir-starter.git", host: "github.com", repo: "noir-lang/noir-starter"},
		{source: "https://gitlab.com/group/sub/project/", host: "gitlab.com", repo: "group/sub/project"},
		{source: "git@github.com:AztecProtocol/aztec-packages.git", host: "github.com", repo: "AztecProtocol/aztec-packages"},
		{source: "ssh://git@github.com/owner/repo", host: "github.com", repo: "owner/repo"},
		{source: "git@some-git-host", hasError: true},
		{source: "https://github.com", hasError: true},
		{source: "https://github.com/owner/../../etc", hasError: true},
		{source: "ftp://example.com/a/b", hasError: true},
		{source: "../relative", hasError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.source, func(t *testing.T) {
			host, repo, err := ParseRemoteSource(tc.source)
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.host, host)
			assert.Equal(t, tc.repo, repo)
		})
	}
}
