// Package config defines the format-agnostic settings model of the tool and
// the Loader interface used to read it from a file. Concrete loaders, such as
// the HCL one, live in separate packages.
//
// Settings are layered: built-in defaults, then a configuration file, then
// command line flags.
package config
