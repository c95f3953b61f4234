package testutil

import (
	"fmt"
	"strings"
)

// Manifest renders a Nargo.toml. Each dep is a "name = { ... }" inline table
// body, for example `math = { path = "../math" }`.
func Manifest(name, kind string, deps ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[package]\nname = %q\ntype = %q\n", name, kind)
	if len(deps) > 0 {
		b.WriteString("\n[dependencies]\n")
		for _, d := range deps {
			b.WriteString(d + "\n")
		}
	}
	return b.String()
}

// Package returns the files of a package rooted at dir with the given
// manifest. The entry point follows kind.
func Package(dir, name, kind string, deps ...string) map[string]string {
	entry := "main.nr"
	if kind == "lib" {
		entry = "lib.nr"
	}
	return map[string]string{
		dir + "/Nargo.toml":   Manifest(name, kind, deps...),
		dir + "/src/" + entry: "// " + name,
	}
}

// Merge combines file maps; later maps win.
func Merge(sets ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
