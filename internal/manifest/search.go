package manifest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/cargo-plumbing/internal/fsops"
)

// MatchFunc decides whether an existing candidate file is the one sought.
// It is only called for candidates that exist and are regular files.
type MatchFunc func(candidate string) (bool, error)

// Result identifies the directory where an upward search stopped.
type Result struct {
	// Dir is the innermost directory whose candidate matched.
	Dir string

	// Path is the matching candidate, Dir joined with the searched name.
	Path string
}

// AnyFile matches every candidate that exists.
func AnyFile(string) (bool, error) {
	return true, nil
}

// Upward checks <dir>/<name> in start and each of its ancestors, innermost
// first, and returns the first directory whose candidate is a regular file
// accepted by match.
//
// When the root is reached it fails with ErrNotFound if no candidate existed
// at all, or ErrNoMatch if candidates existed but match rejected each of
// them. Stat failures other than absence are wrapped with ErrIO.
func Upward(ctx context.Context, fsys fsops.FS, start, name string, match MatchFunc) (*Result, error) {
	seen := false
	current := filepath.Clean(start)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate := filepath.Join(current, name)
		isFile, err := fsops.IsRegularFile(fsys, candidate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		if isFile {
			seen = true
			ok, err := match(candidate)
			if err != nil {
				return nil, err
			}
			if ok {
				return &Result{Dir: current, Path: candidate}, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached root directory
			if seen {
				return nil, ErrNoMatch
			}
			return nil, ErrNotFound
		}
		current = parent
	}
}

// isSearchExhausted reports whether err ended a walk without a match.
func isSearchExhausted(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoMatch)
}
