package noirpkg

import "fmt"

// ManifestNotFoundError is returned when a directory has no Nargo.toml.
type ManifestNotFoundError struct {
	Dir string
	Err error
}

func (e *ManifestNotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %s", ManifestFileName, e.Dir)
}

func (e *ManifestNotFoundError) Unwrap() error { return e.Err }

// EntryPointMissingError is returned when the entry point implied by the
// package kind does not exist.
type EntryPointMissingError struct {
	Package string
	Path    string
}

func (e *EntryPointMissingError) Error() string {
	return fmt.Sprintf("package %q: entry point %s does not exist", e.Package, e.Path)
}
