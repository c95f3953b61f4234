package app

import (
	"errors"
	"fmt"
)

// Commands understood by Run.
const (
	CommandCompile = "compile"
	CommandDeps    = "deps"
	CommandVersion = "version"
)

// Config holds everything the entrypoint decided for this invocation. Empty
// override fields leave the value from defaults and the configuration file.
type Config struct {
	Command     string
	ProjectPath string
	// ConfigPath is an explicit configuration file. When empty,
	// <ProjectPath>/noirbuild.hcl is used if it exists.
	ConfigPath string

	Backend   string
	NargoBin  string
	CacheDir  string
	LogLevel  string
	LogFormat string
	// Quiet is nil when not given on the command line.
	Quiet *bool
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandCompile, CommandDeps:
		if cfg.ProjectPath == "" {
			return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
		}
	case CommandVersion:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	return &cfg, nil
}
