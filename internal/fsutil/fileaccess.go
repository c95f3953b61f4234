package fsutil

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/spf13/afero"
)

// ErrNotFound is wrapped by every error caused by a missing path.
var ErrNotFound = fs.ErrNotExist

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileAccess provides read/write/exists/mkdir/list operations over a storage
// backend. It holds no caches of its own.
type FileAccess struct {
	fs afero.Fs
}

// New wraps an arbitrary afero filesystem.
func New(fsys afero.Fs) *FileAccess {
	return &FileAccess{fs: fsys}
}

// NewOS returns a FileAccess backed by the real disk. Paths are interpreted
// relative to root; an empty root or "/" exposes the whole filesystem.
func NewOS(root string) *FileAccess {
	if root == "" || Normalize(root) == "/" {
		return New(afero.NewOsFs())
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), root))
}

// NewMemory returns a FileAccess backed by a fresh in-memory volume.
func NewMemory() *FileAccess {
	return New(afero.NewMemMapFs())
}

// Fs exposes the underlying filesystem for streaming helpers.
func (f *FileAccess) Fs() afero.Fs {
	return f.fs
}

// ReadFile returns the content of the file at p. A missing file yields an
// error matching ErrNotFound.
func (f *FileAccess) ReadFile(p string) ([]byte, error) {
	p = Normalize(p)
	data, err := afero.ReadFile(f.fs, p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// WriteFile writes data to p, creating parent directories as needed.
func (f *FileAccess) WriteFile(p string, data []byte) error {
	p = Normalize(p)
	if err := f.fs.MkdirAll(Join(p, ".."), dirPerm); err != nil {
		return fmt.Errorf("create parent of %s: %w", p, err)
	}
	if err := afero.WriteFile(f.fs, p, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// Exists reports whether anything (file or directory) exists at p.
func (f *FileAccess) Exists(p string) bool {
	ok, err := afero.Exists(f.fs, Normalize(p))
	return err == nil && ok
}

// IsDir reports whether p exists and is a directory.
func (f *FileAccess) IsDir(p string) bool {
	ok, err := afero.IsDir(f.fs, Normalize(p))
	return err == nil && ok
}

// MkdirAll creates p and all missing parents.
func (f *FileAccess) MkdirAll(p string) error {
	p = Normalize(p)
	if err := f.fs.MkdirAll(p, dirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", p, err)
	}
	return nil
}

// ListDir returns the names of the entries of directory p in lexical order.
func (f *FileAccess) ListDir(p string) ([]string, error) {
	p = Normalize(p)
	infos, err := afero.ReadDir(f.fs, p)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", p, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes the file or empty directory at p.
func (f *FileAccess) Remove(p string) error {
	p = Normalize(p)
	if err := f.fs.Remove(p); err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

// RemoveAll deletes p and everything below it. Missing paths are not an error.
func (f *FileAccess) RemoveAll(p string) error {
	p = Normalize(p)
	if err := f.fs.RemoveAll(p); err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}
