// Package engine provides the core operations behind cargo-plumbing commands.
//
// The engine package is the orchestration layer between CLI commands and the
// lower-level packages. It resolves project locations through the manifest
// package, moves message streams through the protocol package, and guards
// the protocol schema with fingerprints.
//
// Key components:
//   - Engine: Main orchestrator called by the CLI
//   - LocateProject: manifest and workspace root resolution
//   - ReadMessages: decode, tally and re-encode a message stream
//   - Schema, WriteSchema, CheckSchema: the wire-format compatibility guard
//
// Requests carry everything an operation needs, including the working
// directory, so the engine never reads process state.
package engine

import (
	"io"
	"log/slog"

	"github.com/danieljhkim/cargo-plumbing/internal/fsops"
	"github.com/danieljhkim/cargo-plumbing/internal/hash"
	"github.com/danieljhkim/cargo-plumbing/internal/manifest"
)

// Engine orchestrates all cargo-plumbing operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs      fsops.FS
	locator *manifest.Locator
	hasher  hash.Hasher
	logger  *slog.Logger
}

// New creates a new Engine with the given dependencies. A nil logger
// discards output.
func New(
	fs fsops.FS,
	locator *manifest.Locator,
	hasher hash.Hasher,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		fs:      fs,
		locator: locator,
		hasher:  hasher,
		logger:  logger,
	}
}
