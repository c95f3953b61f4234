// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file turns raw Nargo.toml bytes into a validated Manifest.
package manifest

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

const dependenciesTable = "dependencies"

// tomlManifest represents the manifest as it is encoded in TOML.
type tomlManifest struct {
	Package      *tomlPackage              `toml:"package"`
	Dependencies map[string]map[string]any `toml:"dependencies"`
}

// tomlPackage represents the [package] table. Keys not listed here (authors,
// description, ...) are accepted and ignored.
type tomlPackage struct {
	Name            string `toml:"name"`
	Type            string `toml:"type"`
	CompilerVersion string `toml:"compiler_version"`
}

var dependencyKeys = map[string]bool{
	"path":      true,
	"git":       true,
	"tag":       true,
	"directory": true,
}

// Parse decodes and validates the content of a Nargo.toml file.
func Parse(data []byte) (*Manifest, error) {
	var doc tomlManifest
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Msg: "malformed TOML", Err: err}
	}

	if doc.Package == nil {
		return nil, fieldErr("package", "table is required")
	}

	m := &Manifest{}
	if err := validatePackage(m, doc.Package); err != nil {
		return nil, err
	}

	order, err := dependencyOrder(data)
	if err != nil {
		return nil, &ParseError{Msg: "malformed TOML", Err: err}
	}

	for _, name := range order {
		entry, ok := doc.Dependencies[name]
		if !ok {
			continue
		}
		desc, err := parseDescriptor(dependenciesTable+"."+name, entry)
		if err != nil {
			return nil, err
		}
		m.Dependencies = append(m.Dependencies, Dependency{Name: name, Descriptor: desc})
	}

	return m, nil
}

// validatePackage checks the [package] table and moves it onto m.
func validatePackage(m *Manifest, pkg *tomlPackage) error {
	if pkg.Name == "" {
		return fieldErr("package.name", "is required")
	}
	if !IsValidIdentifier(pkg.Name) {
		return fieldErr("package.name", "%q is not a valid identifier", pkg.Name)
	}

	switch pkg.Type {
	case "contract":
		m.Kind = KindContract
	case "lib", "library":
		m.Kind = KindLibrary
	case "bin":
		m.Kind = KindBinary
	case "":
		return fieldErr("package.type", "is required")
	default:
		return fieldErr("package.type", "unknown package type %q", pkg.Type)
	}

	if pkg.CompilerVersion != "" {
		if _, err := semver.NewConstraint(pkg.CompilerVersion); err != nil {
			return &ParseError{Field: "package.compiler_version", Msg: "invalid version constraint", Err: err}
		}
		m.CompilerVersion = pkg.CompilerVersion
	}

	m.Name = pkg.Name
	return nil
}

func parseDescriptor(field string, entry map[string]any) (Descriptor, error) {
	keys := make([]string, 0, len(entry))
	for key := range entry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make(map[string]string, len(entry))
	for _, key := range keys {
		if !dependencyKeys[key] {
			return Descriptor{}, fieldErr(field, "unknown key %q", key)
		}
		s, ok := entry[key].(string)
		if !ok {
			return Descriptor{}, fieldErr(field+"."+key, "must be a string")
		}
		values[key] = s
	}

	p, hasPath := values["path"]
	git, hasGit := values["git"]
	_, hasTag := values["tag"]
	_, hasDir := values["directory"]

	switch {
	case hasPath && hasGit:
		return Descriptor{}, fieldErr(field, "ambiguous dependency: both path and git are set")
	case !hasPath && !hasGit:
		return Descriptor{}, fieldErr(field, "dependency must set either path or git")
	case hasPath:
		if hasTag || hasDir {
			return Descriptor{}, fieldErr(field, "tag and directory only apply to git dependencies")
		}
		if p == "" {
			return Descriptor{}, fieldErr(field+".path", "must not be empty")
		}
		return PathDescriptor(p), nil
	default:
		if git == "" {
			return Descriptor{}, fieldErr(field+".git", "must not be empty")
		}
		if values["tag"] == "" {
			return Descriptor{}, fieldErr(field+".tag", "is required for git dependencies")
		}
		return RemoteDescriptor(git, values["tag"], values["directory"]), nil
	}
}

// dependencyOrder returns dependency names in the order they first appear in
// the document. Decoding into a map loses that order, so the raw expression
// stream is walked instead.
func dependencyOrder(data []byte) ([]string, error) {
	var p unstable.Parser
	p.Reset(data)

	var (
		table []string
		order []string
		seen  = make(map[string]bool)
	)

	record := func(key []string) {
		if len(key) < 2 || key[0] != dependenciesTable || seen[key[1]] {
			return
		}
		seen[key[1]] = true
		order = append(order, key[1])
	}

	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(expr.Key())
			record(table)
		case unstable.KeyValue:
			full := append(append([]string(nil), table...), keyParts(expr.Key())...)
			record(full)
		}
	}

	return order, p.Error()
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// IsValidIdentifier reports whether s may be used as a package name: letters,
// digits and underscores, not starting with a digit.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '_' || ('a' <= s[0] && s[0] <= 'z') || ('A' <= s[0] && s[0] <= 'Z') {
		for _, c := range s[1:] {
			if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
				continue
			}
			return false
		}
		return true
	}
	return false
}
