// Package app contains the core application logic. It merges configuration,
// wires the file access layer, resolver chain and compilation backend, and
// runs one command, decoupled from any specific entrypoint like a CLI.
package app
