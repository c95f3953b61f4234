// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Manifest record and the Descriptor variants a
// dependency entry can take.
package manifest

import (
	"fmt"

	"github.com/specialistvlad/noirbuild/internal/fsutil"
)

// Kind is the declared type of a package.
type Kind string

const (
	KindContract Kind = "contract"
	KindLibrary  Kind = "lib"
	KindBinary   Kind = "bin"
)

// Compilable reports whether packages of this kind can be compiled directly.
func (k Kind) Compilable() bool {
	return k == KindContract
}

// DescriptorKind tags the variant held by a Descriptor.
type DescriptorKind int

const (
	DescriptorPath DescriptorKind = iota
	DescriptorRemote
)

func (k DescriptorKind) String() string {
	switch k {
	case DescriptorPath:
		return "path"
	case DescriptorRemote:
		return "remote"
	default:
		return fmt.Sprintf("DescriptorKind(%d)", int(k))
	}
}

// Descriptor is a dependency reference as written in a manifest: either a
// local path or a remote source pinned at a revision.
type Descriptor struct {
	Kind DescriptorKind

	// Path is set for DescriptorPath.
	Path string

	// Source, Revision and Subdirectory are set for DescriptorRemote.
	Source       string
	Revision     string
	Subdirectory string
}

// PathDescriptor builds a local path descriptor.
func PathDescriptor(p string) Descriptor {
	return Descriptor{Kind: DescriptorPath, Path: p}
}

// RemoteDescriptor builds a remote descriptor.
func RemoteDescriptor(source, revision, subdirectory string) Descriptor {
	return Descriptor{Kind: DescriptorRemote, Source: source, Revision: revision, Subdirectory: subdirectory}
}

// Anchored returns a copy of a path descriptor with its path made absolute
// against base. Remote descriptors are returned unchanged.
func (d Descriptor) Anchored(base string) Descriptor {
	if d.Kind != DescriptorPath {
		return d
	}
	d.Path = fsutil.Resolve(base, d.Path)
	return d
}

// Key is the deduplication identity of the descriptor. Path descriptors
// should be anchored first since a relative path has no absolute identity.
func (d Descriptor) Key() string {
	if d.Kind == DescriptorRemote {
		return fmt.Sprintf("git:%s@%s#%s", d.Source, d.Revision, d.Subdirectory)
	}
	return "path:" + fsutil.Normalize(d.Path)
}

func (d Descriptor) String() string {
	if d.Kind == DescriptorRemote {
		if d.Subdirectory != "" {
			return fmt.Sprintf("{git = %q, tag = %q, directory = %q}", d.Source, d.Revision, d.Subdirectory)
		}
		return fmt.Sprintf("{git = %q, tag = %q}", d.Source, d.Revision)
	}
	return fmt.Sprintf("{path = %q}", d.Path)
}

// Dependency is one entry of the [dependencies] table.
type Dependency struct {
	Name       string
	Descriptor Descriptor
}

// Manifest is the parsed form of a Nargo.toml file.
type Manifest struct {
	Name string
	Kind Kind
	// CompilerVersion is the optional semver constraint on the compiler. It
	// has already been validated by Parse.
	CompilerVersion string
	Dependencies    []Dependency
}
