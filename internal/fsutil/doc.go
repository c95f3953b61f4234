// Package fsutil is the file access layer used by every component that
// touches package sources, caches or build output.
//
// A FileAccess wraps an afero filesystem so the same resolution and
// compilation logic runs against the real disk (NewOS) or an in-memory
// volume (NewMemory). All paths handed to a FileAccess are normalised first:
// they are slash separated, rooted at "/", and "." / ".." segments are
// resolved without ever escaping the root. Two spellings of the same logical
// location therefore compare equal after Normalize.
package fsutil
