package engine

import "github.com/danieljhkim/cargo-plumbing/internal/protocol"

// LocateProjectResult represents a resolved project location.
type LocateProjectResult struct {
	// Root is the manifest path reported to the caller: the package
	// manifest, or the workspace root manifest in workspace mode
	Root string `json:"root"`

	// Manifest is the nearest manifest found from Start
	Manifest string `json:"-"`

	// Start is the directory the search began in
	Start string `json:"-"`
}

// ReadMessagesResult summarizes a consumed message stream.
type ReadMessagesResult struct {
	// Total is the number of decoded messages
	Total int

	// Counts is the number of decoded messages per reason
	Counts map[protocol.Reason]int

	// Skipped is the number of messages dropped for an unknown reason
	Skipped int
}

// SchemaResult carries the rendered message schema.
type SchemaResult struct {
	// Schema is the indented JSON Schema document
	Schema []byte

	// Fingerprint is the SHA-256 of Schema
	Fingerprint string
}

// CheckSchemaResult reports a schema comparison.
type CheckSchemaResult struct {
	// Fingerprint is the SHA-256 of the derived schema
	Fingerprint string

	// GoldenFingerprint is the SHA-256 of the golden copy
	GoldenFingerprint string

	// Match is true when both fingerprints are equal
	Match bool
}
