package config

import "context"

// Loader reads a configuration file and applies it on top of base.
type Loader interface {
	// Load returns a new Settings value; base is not modified. A missing
	// file is an error; callers decide whether the file is optional.
	Load(ctx context.Context, path string, base *Settings) (*Settings, error)
}
