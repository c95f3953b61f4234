package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the configuration file looked up in a project root.
const FileName = "noirbuild.hcl"

// Backend names accepted by the backend setting.
const (
	BackendNargo    = "nargo"
	BackendEmbedded = "embedded"
)

// Settings is the complete tool configuration.
type Settings struct {
	Backend  string
	CacheDir string
	Compiler Compiler
	Remote   Remote
	Log      Log
}

// Compiler configures the external compiler.
type Compiler struct {
	Binary          string
	ExpectedVersion string
	Quiet           bool
}

// Remote configures fetching of git dependencies.
type Remote struct {
	// ArchiveURL is a template with {host}, {repo} and {revision} placeholders.
	ArchiveURL string
	Timeout    time.Duration
}

// Log configures the logger.
type Log struct {
	Level  string
	Format string
}

// Defaults returns the built-in settings. env supplies the environment used
// to derive the cache directory. The compiler binary, its expected version
// and the archive URL are left empty for the caller to fill in.
func Defaults(env map[string]string) *Settings {
	return &Settings{
		Backend:  BackendNargo,
		CacheDir: DefaultCacheDir(env),
		Remote:   Remote{Timeout: 60 * time.Second},
		Log:      Log{Level: "info", Format: "text"},
	}
}

// DefaultCacheDir is $XDG_CACHE_HOME/noirbuild, falling back to
// $HOME/.cache/noirbuild and then $TMPDIR/noirbuild. Relative variables are
// ignored.
func DefaultCacheDir(env map[string]string) string {
	if dir := env["XDG_CACHE_HOME"]; filepath.IsAbs(dir) {
		return filepath.Join(dir, "noirbuild")
	}
	if home := env["HOME"]; filepath.IsAbs(home) {
		return filepath.Join(home, ".cache", "noirbuild")
	}
	if tmp := env["TMPDIR"]; filepath.IsAbs(tmp) {
		return filepath.Join(tmp, "noirbuild")
	}
	return filepath.Join("/tmp", "noirbuild")
}

// EnvMap turns os.Environ style entries into a map.
func EnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Validate checks enumerated values and required fields.
func (s *Settings) Validate() error {
	switch s.Backend {
	case BackendNargo, BackendEmbedded:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", s.Backend, BackendNargo, BackendEmbedded)
	}
	if s.CacheDir == "" {
		return fmt.Errorf("cache_dir must not be empty")
	}
	if !filepath.IsAbs(s.CacheDir) {
		return fmt.Errorf("cache_dir %q must be an absolute path", s.CacheDir)
	}
	if s.Compiler.Binary == "" {
		return fmt.Errorf("compiler.binary must not be empty")
	}
	if s.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout must not be negative")
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", s.Log.Level)
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", s.Log.Format)
	}
	return nil
}
