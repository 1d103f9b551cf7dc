package engine

import (
	"io"

	"github.com/danieljhkim/cargo-plumbing/internal/protocol"
)

// LocateProjectRequest represents a request to locate a project manifest.
type LocateProjectRequest struct {
	// CWD is the directory searched from when ManifestPath is empty
	CWD string

	// ManifestPath is an optional explicit starting point: a manifest file
	// or a directory
	ManifestPath string

	// Workspace selects the workspace root manifest instead of the nearest
	// package manifest
	Workspace bool
}

// ReadMessagesRequest represents a request to consume a message stream.
type ReadMessagesRequest struct {
	// Input is the encoded message stream
	Input io.Reader

	// Output receives the re-encoded messages; nil only tallies them
	Output io.Writer

	// Framing is the framing of Input
	Framing protocol.Framing

	// OutputFraming is the framing written to Output (default: json)
	OutputFraming protocol.Framing

	// Unknown is the policy for unknown message reasons
	Unknown protocol.UnknownReasonPolicy
}

// CheckSchemaRequest represents a request to compare the message schema
// with a golden copy.
type CheckSchemaRequest struct {
	// GoldenPath is the stored schema file
	GoldenPath string
}

// WriteSchemaRequest represents a request to store the message schema.
type WriteSchemaRequest struct {
	// Path is the destination file
	Path string
}
