package testutil

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/noirbuild/internal/app"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	FS        *fsutil.FileAccess
	App       *app.App
}

// Env is the environment seen by harnessed runs.
var Env = map[string]string{"HOME": "/home/test"}

// RunIntegrationTest writes files into a fresh in-memory workspace and runs
// the application against it with a background context.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config, opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, NewWorkspace(t, files), cfg, opts...)
}

// RunIntegrationTestWithContext runs the application against fa with a
// context provided by the caller. Logs are captured at debug level unless
// cfg asks for another one.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, fa *fsutil.FileAccess, cfg app.Config, opts ...app.Option) *HarnessResult {
	t.Helper()

	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	opts = append([]app.Option{app.WithFileAccess(fa), app.WithEnv(Env), app.WithLogOutput(logs)}, opts...)

	result := &HarnessResult{FS: fa}
	result.App, result.Err = app.NewApp(out, appConfig, opts...)
	if result.Err == nil {
		result.Err = result.App.Run(ctx)
	}

	if os.Getenv("NOIRBUILD_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	result.Output = out.String()
	result.LogOutput = logs.String()
	return result
}

// NewWorkspace returns an in-memory volume holding files.
func NewWorkspace(t *testing.T, files map[string]string) *fsutil.FileAccess {
	t.Helper()
	fa := fsutil.NewMemory()
	for name, content := range files {
		require.NoError(t, fa.WriteFile(name, []byte(content)))
	}
	return fa
}
