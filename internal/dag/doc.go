// Package dag is a small concurrency-safe directed acyclic graph of string
// identifiers. The dependency graph builder records package edges in it and
// uses it to derive a deterministic build order.
package dag
