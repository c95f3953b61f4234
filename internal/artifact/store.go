package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
)

const (
	debugPrefix = "debug_"
	jsonExt     = ".json"
)

// Store isolates the filesystem side effects of a compilation run.
type Store interface {
	// Clear empties dir, creating it if needed.
	Clear(ctx context.Context, dir string) error
	// Harvest collects and removes the artifacts a compiler left in dir.
	Harvest(ctx context.Context, dir string) ([]Artifact, error)
	// Write persists a as <dir>/<name>.json.
	Write(ctx context.Context, dir string, a Artifact) error
}

// FileStore is a Store backed by the file access layer.
type FileStore struct {
	fa *fsutil.FileAccess
}

// NewFileStore creates a FileStore.
func NewFileStore(fa *fsutil.FileAccess) *FileStore {
	return &FileStore{fa: fa}
}

// Clear implements Store.
func (s *FileStore) Clear(ctx context.Context, dir string) error {
	ctxlog.FromContext(ctx).Debug("Clearing target directory.", "dir", dir)
	if err := s.fa.RemoveAll(dir); err != nil {
		return err
	}
	return s.fa.MkdirAll(dir)
}

// Harvest implements Store. debug_<file> records are paired with the
// contract stored in <file>; every harvested file is deleted.
func (s *FileStore) Harvest(ctx context.Context, dir string) ([]Artifact, error) {
	logger := ctxlog.FromContext(ctx)

	names, err := s.fa.ListDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	contracts := make(map[string]Contract)
	debug := make(map[string]*DebugMetadata)

	for _, name := range names {
		p := fsutil.Join(dir, name)
		if !strings.HasSuffix(name, jsonExt) || s.fa.IsDir(p) {
			continue
		}

		data, err := s.fa.ReadFile(p)
		if err != nil {
			return nil, err
		}

		if key, ok := strings.CutPrefix(name, debugPrefix); ok {
			var d DebugMetadata
			if err := json.Unmarshal(data, &d); err != nil {
				return nil, fmt.Errorf("invalid debug artifact %s: %w", p, err)
			}
			debug[key] = &d
		} else {
			var c Contract
			if err := json.Unmarshal(data, &c); err != nil {
				return nil, fmt.Errorf("invalid contract artifact %s: %w", p, err)
			}
			contracts[name] = c
		}

		if err := s.fa.Remove(p); err != nil {
			return nil, err
		}
		logger.Debug("Harvested artifact file.", "file", p)
	}

	keys := make([]string, 0, len(contracts))
	for k := range contracts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	artifacts := make([]Artifact, 0, len(keys))
	for _, k := range keys {
		c := contracts[k]
		name := c.Name
		if name == "" {
			name = strings.TrimSuffix(k, jsonExt)
		}
		artifacts = append(artifacts, Artifact{
			ContractName: name,
			Functions:    c.Functions,
			Backend:      c.Backend,
			Debug:        debug[k],
		})
	}
	return artifacts, nil
}

// Write implements Store.
func (s *FileStore) Write(ctx context.Context, dir string, a Artifact) error {
	if !validContractName(a.ContractName) {
		return fmt.Errorf("invalid contract name %q: must be a plain file name", a.ContractName)
	}
	data, err := json.MarshalIndent(a.Contract(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact %s: %w", a.ContractName, err)
	}
	p := fsutil.Join(dir, a.ContractName+jsonExt)
	ctxlog.FromContext(ctx).Debug("Writing artifact.", "file", p)
	return s.fa.WriteFile(p, data)
}

func validContractName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}
