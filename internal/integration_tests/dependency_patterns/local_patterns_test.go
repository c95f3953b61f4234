package integration_tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/noirbuild/internal/app"
	"github.com/specialistvlad/noirbuild/internal/testutil"
)

func TestLocal_DiamondIsResolvedOnce(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := testutil.Merge(
		testutil.Package("/work/app", "app", "contract",
			`left = { path = "../left" }`,
			`right = { path = "../right" }`),
		testutil.Package("/work/left", "left", "lib", `common = { path = "../common" }`),
		testutil.Package("/work/right", "right", "lib", `common = { path = "../common" }`),
		testutil.Package("/work/common", "common", "lib"),
	)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{Command: app.CommandDeps, ProjectPath: "/work/app"})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, 2, strings.Count(result.Output, "common (/work/common)"), "common appears under both dependents")
	assert.Equal(t, 1, strings.Count(result.LogOutput, `msg="Reusing resolved dependency."`), "second path reuses the resolved package")
	assert.Contains(t, result.LogOutput, "count=3")
}

func TestLocal_AliasedDependency(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The same directory reached under two spellings is one package.
	files := testutil.Merge(
		testutil.Package("/work/app", "app", "contract",
			`math = { path = "../libs/math" }`,
			`helpers = { path = "../libs/helpers" }`),
		testutil.Package("/work/libs/helpers", "helpers", "lib", `math = { path = "../../libs/./math/" }`),
		testutil.Package("/work/libs/math", "math", "lib"),
	)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{Command: app.CommandDeps, ProjectPath: "/work/app"})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, 2, strings.Count(result.Output, "math (/work/libs/math)"))
}

func TestLocal_NoDependencies(t *testing.T) {
	t.Parallel()

	result := testutil.RunIntegrationTest(t,
		testutil.Package("/work/app", "app", "contract"),
		app.Config{Command: app.CommandDeps, ProjectPath: "/work/app"})

	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "app [contract] (/work/app)")
	assert.Contains(t, result.LogOutput, "count=0")
}
