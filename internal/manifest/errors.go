package manifest

import "errors"

var (
	// ErrNotFound indicates no manifest exists between the start path and the
	// filesystem root.
	ErrNotFound = errors.New("manifest not found")

	// ErrNoMatch indicates candidate files existed on the ancestor chain but
	// none satisfied the match predicate.
	ErrNoMatch = errors.New("no candidate matched")

	// ErrNotAWorkspace indicates manifests were found but none declares a
	// workspace.
	ErrNotAWorkspace = errors.New("not a workspace")

	// ErrIO indicates a filesystem check failed for a reason other than the
	// file being absent.
	ErrIO = errors.New("i/o failure")
)
