package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/specialistvlad/noirbuild/internal/artifact"
	"github.com/specialistvlad/noirbuild/internal/compiler"
	"github.com/specialistvlad/noirbuild/internal/config"
	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/embedded"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
	"github.com/specialistvlad/noirbuild/internal/hcl"
	"github.com/specialistvlad/noirbuild/internal/nargo"
	"github.com/specialistvlad/noirbuild/internal/resolver"
	"github.com/specialistvlad/noirbuild/internal/session"
)

// Version is the tool version, overridden at build time with -ldflags.
var Version = "dev"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	fa       *fsutil.FileAccess
	logger   *slog.Logger
	cfg      *Config
	settings *config.Settings
	manager  *session.Manager
}

type options struct {
	fa         *fsutil.FileAccess
	env        map[string]string
	loader     config.Loader
	runner     nargo.Runner
	httpClient *http.Client
	engine     embedded.Engine
	logW       io.Writer
}

// Option customises how NewApp wires the application.
type Option func(*options)

// WithFileAccess replaces the real-disk file access layer.
func WithFileAccess(fa *fsutil.FileAccess) Option { return func(o *options) { o.fa = fa } }

// WithEnv replaces the process environment.
func WithEnv(env map[string]string) Option { return func(o *options) { o.env = env } }

// WithLoader replaces the HCL configuration loader.
func WithLoader(l config.Loader) Option { return func(o *options) { o.loader = l } }

// WithRunner replaces the subprocess runner of the nargo backend.
func WithRunner(r nargo.Runner) Option { return func(o *options) { o.runner = r } }

// WithHTTPClient replaces the client used to download remote dependencies.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.httpClient = c } }

// WithEngine registers the in-process compiler engine.
func WithEngine(e embedded.Engine) Option { return func(o *options) { o.engine = e } }

// WithLogOutput sends logs somewhere other than the command output.
func WithLogOutput(w io.Writer) Option { return func(o *options) { o.logW = w } }

// NewApp is the constructor for the main application. Configuration layers
// are merged in order: defaults, configuration file, command line.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	o := &options{logW: outW}
	for _, opt := range opts {
		opt(o)
	}
	if o.fa == nil {
		o.fa = fsutil.NewOS("/")
	}
	if o.env == nil {
		o.env = config.EnvMap(os.Environ())
	}
	if o.loader == nil {
		o.loader = hcl.NewLoader(o.fa, o.env)
	}

	// Flags decide the log level used while the configuration file loads.
	bootLevel, bootFormat := cfg.LogLevel, cfg.LogFormat
	ctx := ctxlog.WithLogger(context.Background(), newLogger(bootLevel, bootFormat, o.logW))

	settings, err := loadSettings(ctx, cfg, o)
	if err != nil {
		return nil, err
	}

	logger := newLogger(settings.Log.Level, settings.Log.Format, o.logW)
	logger.Debug("Logger configured successfully.")
	logger.Debug("Settings resolved.", "backend", settings.Backend, "cache_dir", settings.CacheDir, "nargo", settings.Compiler.Binary)

	return &App{
		outW:     outW,
		fa:       o.fa,
		logger:   logger,
		cfg:      cfg,
		settings: settings,
		manager:  newManager(settings, outW, o),
	}, nil
}

// Settings returns the merged settings. This is primarily for testing.
func (a *App) Settings() *config.Settings {
	return a.settings
}

func loadSettings(ctx context.Context, cfg *Config, o *options) (*config.Settings, error) {
	settings := defaultSettings(o.env)

	path := cfg.ConfigPath
	explicit := path != ""
	if !explicit && cfg.ProjectPath != "" {
		path = fsutil.Join(cfg.ProjectPath, config.FileName)
	}

	if path != "" {
		loaded, err := o.loader.Load(ctx, path, settings)
		switch {
		case err == nil:
			settings = loaded
		case !explicit && errors.Is(err, fsutil.ErrNotFound):
			ctxlog.FromContext(ctx).Debug("No configuration file found, using defaults.", "path", path)
		default:
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	applyFlags(settings, cfg)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// defaultSettings completes config.Defaults with the values owned by the
// backend and resolver packages.
func defaultSettings(env map[string]string) *config.Settings {
	s := config.Defaults(env)
	s.Compiler.Binary = nargo.DefaultBinary
	s.Compiler.ExpectedVersion = nargo.DefaultExpectedVersion
	s.Remote.ArchiveURL = resolver.DefaultArchiveURL
	return s
}

func applyFlags(s *config.Settings, cfg *Config) {
	if cfg.Backend != "" {
		s.Backend = cfg.Backend
	}
	if cfg.NargoBin != "" {
		s.Compiler.Binary = cfg.NargoBin
	}
	if cfg.CacheDir != "" {
		s.CacheDir = cfg.CacheDir
	}
	if cfg.LogLevel != "" {
		s.Log.Level = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		s.Log.Format = cfg.LogFormat
	}
	if cfg.Quiet != nil {
		s.Compiler.Quiet = *cfg.Quiet
	}
}

// newManager wires the resolver chain and the selected backend. Local
// resolution runs before remote so local overrides win.
func newManager(s *config.Settings, outW io.Writer, o *options) *session.Manager {
	client := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: s.Remote.Timeout}
	}

	fetcher := resolver.NewArchiveFetcher(o.fa, client, s.Remote.ArchiveURL)
	chain := resolver.Chain{
		resolver.NewLocalResolver(o.fa),
		resolver.NewRemoteResolver(o.fa, s.CacheDir, fetcher),
	}

	store := artifact.NewFileStore(o.fa)
	var backend compiler.Backend
	switch s.Backend {
	case config.BackendEmbedded:
		backend = embedded.New(embedded.Options{Engine: o.engine, Store: store, FS: o.fa})
	default:
		backend = nargo.New(nargo.Options{
			Binary:          s.Compiler.Binary,
			ExpectedVersion: s.Compiler.ExpectedVersion,
			Quiet:           s.Compiler.Quiet,
			Output:          outW,
			Runner:          o.runner,
			Store:           store,
		})
	}

	return session.NewManager(o.fa, chain, backend)
}
