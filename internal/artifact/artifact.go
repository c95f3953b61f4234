// Package artifact models compiled contract output and the store that reads
// and writes it in a project's target directory.
package artifact

import "encoding/json"

// Contract is the JSON document a compiler writes for one contract.
type Contract struct {
	Name      string            `json:"name"`
	Functions []json.RawMessage `json:"functions"`
	Backend   string            `json:"backend"`
}

// DebugFile is one source file referenced by debug symbols.
type DebugFile struct {
	Source string `json:"source"`
	Path   string `json:"path"`
}

// DebugMetadata is the content of a debug_<name>.json file.
type DebugMetadata struct {
	DebugSymbols []string             `json:"debug_symbols"`
	FileMap      map[string]DebugFile `json:"file_map"`
}

// Artifact is the compiled output for one contract. Functions are opaque to
// this tool and kept as raw JSON.
type Artifact struct {
	ContractName string
	Functions    []json.RawMessage
	Backend      string
	// Debug is nil when the compiler emitted no debug record.
	Debug *DebugMetadata
}

// Contract returns the JSON document form of a.
func (a Artifact) Contract() Contract {
	return Contract{Name: a.ContractName, Functions: a.Functions, Backend: a.Backend}
}
