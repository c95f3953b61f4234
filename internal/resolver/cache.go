package resolver

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/specialistvlad/noirbuild/internal/fsutil"
)

// completeMarker is written into a cache directory once its content has been
// fully fetched. Directories without a readable marker are treated as partial.
const completeMarker = ".noirbuild-complete"

// cacheEntry is the content of a completion marker.
type cacheEntry struct {
	Host      string    `msgpack:"host"`
	Repo      string    `msgpack:"repo"`
	Revision  string    `msgpack:"revision"`
	FetchedAt time.Time `msgpack:"fetched_at"`
}

func writeCacheEntry(fa *fsutil.FileAccess, dir string, ref Ref, now time.Time) error {
	data, err := msgpack.Marshal(&cacheEntry{Host: ref.Host, Repo: ref.Repo, Revision: ref.Revision, FetchedAt: now.UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode cache marker: %w", err)
	}
	return fa.WriteFile(fsutil.Join(dir, completeMarker), data)
}

// readCacheEntry returns the marker of dir. ok is false when the marker is
// missing, unreadable, or records a different ref.
func readCacheEntry(fa *fsutil.FileAccess, dir string, ref Ref) (entry cacheEntry, ok bool) {
	data, err := fa.ReadFile(fsutil.Join(dir, completeMarker))
	if err != nil {
		return cacheEntry{}, false
	}
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return cacheEntry{}, false
	}
	if entry.Host != ref.Host || entry.Repo != ref.Repo || entry.Revision != ref.Revision {
		return cacheEntry{}, false
	}
	return entry, true
}
