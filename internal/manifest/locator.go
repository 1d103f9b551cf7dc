package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/cargo-plumbing/internal/fsops"
)

const (
	// DefaultName is the canonical manifest file name.
	DefaultName = "Cargo.toml"

	// DefaultWorkspaceMarker is the line prefix that declares a workspace.
	DefaultWorkspaceMarker = "[workspace]"
)

// Locator finds manifests and workspace roots.
type Locator struct {
	fs     fsops.FS
	name   string
	marker string
	logger *slog.Logger
}

// NewLocator creates a Locator searching for manifests called name whose
// workspace declaration starts with marker. Empty values select the
// defaults; a nil logger discards output.
func NewLocator(fs fsops.FS, name, marker string, logger *slog.Logger) *Locator {
	if name == "" {
		name = DefaultName
	}
	if marker == "" {
		marker = DefaultWorkspaceMarker
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Locator{fs: fs, name: name, marker: marker, logger: logger}
}

// Name returns the manifest file name this locator searches for.
func (l *Locator) Name() string {
	return l.name
}

// IsManifest reports whether path is named like a manifest and is a
// regular file.
func (l *Locator) IsManifest(path string) (bool, error) {
	if filepath.Base(path) != l.name {
		return false, nil
	}
	ok, err := fsops.IsRegularFile(l.fs, path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return ok, nil
}

// FindManifest returns the path of the nearest manifest at or above start.
// A start path that already is a manifest file is returned unchanged.
func (l *Locator) FindManifest(ctx context.Context, start string) (string, error) {
	isManifest, err := l.IsManifest(start)
	if err != nil {
		return "", err
	}
	if isManifest {
		l.logger.Debug("start path is a manifest", "path", start)
		return start, nil
	}

	res, err := Upward(ctx, l.fs, start, l.name, AnyFile)
	if err != nil {
		if isSearchExhausted(err) {
			return "", fmt.Errorf("failed to find %s starting from %s: %w", l.name, start, ErrNotFound)
		}
		return "", err
	}
	l.logger.Debug("found manifest", "path", res.Path)
	return res.Path, nil
}

// FindWorkspaceRoot returns the nearest directory at or above start whose
// manifest declares a workspace.
func (l *Locator) FindWorkspaceRoot(ctx context.Context, start string) (string, error) {
	res, err := Upward(ctx, l.fs, start, l.name, func(candidate string) (bool, error) {
		content, err := l.fs.ReadFile(candidate)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrIO, err)
		}
		declares := DeclaresWorkspace(content, l.marker)
		l.logger.Debug("inspected manifest", "path", candidate, "workspace", declares)
		return declares, nil
	})
	switch {
	case err == nil:
		return res.Dir, nil
	case errors.Is(err, ErrNoMatch):
		return "", fmt.Errorf("failed to find workspace root %s from %s: %w", l.name, start, ErrNotAWorkspace)
	case errors.Is(err, ErrNotFound):
		return "", fmt.Errorf("failed to find workspace root %s from %s: %w", l.name, start, ErrNotFound)
	default:
		return "", err
	}
}

// DeclaresWorkspace reports whether any line of content, with surrounding
// whitespace trimmed, starts with marker.
func DeclaresWorkspace(content []byte, marker string) bool {
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), marker) {
			return true
		}
	}
	return false
}
