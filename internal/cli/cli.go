package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/noirbuild/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

var commands = map[string]bool{
	app.CommandCompile: true,
	app.CommandDeps:    true,
	app.CommandVersion: true,
}

// Parse processes command-line arguments of the form
// [command] [options] [PROJECT_PATH]. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	command := app.CommandCompile
	if len(args) > 0 && commands[args[0]] {
		command, args = args[0], args[1:]
	}

	flagSet := flag.NewFlagSet("noirbuild", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
noirbuild - Resolves Noir package dependencies and compiles contracts.

Usage:
  noirbuild [command] [options] [PROJECT_PATH]

Commands:
  compile   Resolve dependencies and compile the contract (default).
  deps      Resolve dependencies and print the dependency tree.
  version   Print version information.

Arguments:
  PROJECT_PATH
    Directory containing Nargo.toml. Defaults to the current directory.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a noirbuild.hcl file. Defaults to PROJECT_PATH/noirbuild.hcl when present.")
	backendFlag := flagSet.String("backend", "", "Compilation backend. Options: 'nargo' or 'embedded'.")
	nargoFlag := flagSet.String("nargo-bin", "", "Path to the nargo executable.")
	cacheFlag := flagSet.String("cache-dir", "", "Directory for fetched git dependencies.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	quietFlag := flagSet.Bool("quiet", false, "Suppress compiler output.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}

	path := ""
	if command != app.CommandVersion {
		path = "."
		if flagSet.NArg() == 1 {
			path = flagSet.Arg(0)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid project path %q: %v", path, err)}
		}
		path = abs
	}
	slog.Debug("Project path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "", "text", "json":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	// Only an explicit -quiet overrides the configuration file.
	var quiet *bool
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "quiet" {
			quiet = quietFlag
		}
	})

	cfg := app.Config{
		Command:     command,
		ProjectPath: path,
		ConfigPath:  *configFlag,
		Backend:     strings.ToLower(*backendFlag),
		NargoBin:    *nargoFlag,
		CacheDir:    *cacheFlag,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		Quiet:       quiet,
	}
	if cfg.ConfigPath != "" {
		abs, err := filepath.Abs(cfg.ConfigPath)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid config path %q: %v", cfg.ConfigPath, err)}
		}
		cfg.ConfigPath = abs
	}
	if cfg.CacheDir != "" {
		abs, err := filepath.Abs(cfg.CacheDir)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid cache directory %q: %v", cfg.CacheDir, err)}
		}
		cfg.CacheDir = abs
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
