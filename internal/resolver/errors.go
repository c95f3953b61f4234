package resolver

import "fmt"

// RemoteFetchError reports that a remote descriptor was claimed but its
// content could not be fetched.
type RemoteFetchError struct {
	Source   string
	Revision string
	Err      error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s@%s: %v", e.Source, e.Revision, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }
