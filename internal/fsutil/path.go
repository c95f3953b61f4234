package fsutil

import (
	"path"
	"path/filepath"
	"strings"
)

// Normalize converts p into the canonical form used as identity throughout
// the layer: slash separated, absolute, and cleaned.
func Normalize(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Join joins path elements and normalises the result.
func Join(elem ...string) string {
	return Normalize(path.Join(elem...))
}

// Resolve anchors p at base unless p is already absolute.
func Resolve(base, p string) string {
	if path.IsAbs(filepath.ToSlash(p)) {
		return Normalize(p)
	}
	return Join(base, p)
}

// Within reports whether p is dir itself or lies below it.
func Within(dir, p string) bool {
	dir, p = Normalize(dir), Normalize(p)
	if dir == "/" || dir == p {
		return true
	}
	return strings.HasPrefix(p, dir+"/")
}
