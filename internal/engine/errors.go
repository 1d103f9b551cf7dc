package engine

import "errors"

var (
	// ErrNoStartPath indicates a request carried neither a manifest path nor
	// a working directory.
	ErrNoStartPath = errors.New("no search start path")

	// ErrSchemaDrift indicates the derived message schema differs from the
	// stored golden copy.
	ErrSchemaDrift = errors.New("schema drift detected")

	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation failed")
)
