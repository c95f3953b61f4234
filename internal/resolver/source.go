package resolver

import (
	"fmt"
	"net/url"
	"strings"
)

// Ref pins a remote repository at a revision.
type Ref struct {
	Host     string
	Repo     string
	Revision string
}

// ParseRemoteSource maps a git source onto a host and a repository path.
// Understood forms are https://host/owner/repo, git@host:owner/repo and
// ssh://git@host/owner/repo, each with an optional .git suffix.
func ParseRemoteSource(source string) (host, repo string, err error) {
	s := strings.TrimSpace(source)

	switch {
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "ssh://"):
		u, perr := url.Parse(s)
		if perr != nil {
			return "", "", fmt.Errorf("invalid source %q: %w", source, perr)
		}
		host, repo = u.Hostname(), u.Path
	case strings.HasPrefix(s, "git@"):
		rest := strings.TrimPrefix(s, "git@")
		i := strings.Index(rest, ":")
		if i < 0 {
			return "", "", fmt.Errorf("invalid source %q: expected git@host:owner/repo", source)
		}
		host, repo = rest[:i], rest[i+1:]
	default:
		return "", "", fmt.Errorf("unsupported source %q", source)
	}

	repo = strings.TrimSuffix(strings.Trim(repo, "/"), ".git")
	if host == "" || repo == "" {
		return "", "", fmt.Errorf("invalid source %q: missing host or repository", source)
	}
	for _, seg := range strings.Split(repo, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", "", fmt.Errorf("invalid source %q: bad repository path", source)
		}
	}
	return host, repo, nil
}
