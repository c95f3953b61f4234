package dag

import "sync"

// Graph is a set of nodes and the edges between them. All operations on the
// graph are concurrency-safe.
type Graph struct {
	// mutex protects nodes.
	mutex sync.RWMutex
	// nodes is keyed by node ID.
	nodes map[string]*node
}

// node is un-exported so callers interact with the graph through IDs only.
type node struct {
	id string
	// deps holds the nodes this node depends on (predecessors).
	deps map[string]*node
	// dependents holds the nodes depending on this node (successors).
	dependents map[string]*node
}
