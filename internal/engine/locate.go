package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
)

// MessageFormat is the representation in which a project location is
// printed.
type MessageFormat string

const (
	// MessageFormatJSON prints {"root":"<path>"} on one line.
	MessageFormatJSON MessageFormat = "json"

	// MessageFormatPlain prints the bare path.
	MessageFormatPlain MessageFormat = "plain"
)

// MessageFormats lists the supported formats.
func MessageFormats() []MessageFormat {
	return []MessageFormat{MessageFormatJSON, MessageFormatPlain}
}

// ParseMessageFormat parses a format name. The empty string selects
// MessageFormatJSON.
func ParseMessageFormat(s string) (MessageFormat, error) {
	switch MessageFormat(s) {
	case MessageFormatJSON, "":
		return MessageFormatJSON, nil
	case MessageFormatPlain:
		return MessageFormatPlain, nil
	default:
		return "", fmt.Errorf("%w: unknown message format %q (must be json or plain)", ErrValidation, s)
	}
}

// LocateProject resolves the manifest a request refers to.
//
// The search starts at the explicit manifest path's directory when that
// path is a manifest file, at the explicit path itself otherwise, and at
// CWD when no path is given. In workspace mode the result is the manifest
// of the nearest workspace root at or above the located manifest.
func (e *Engine) LocateProject(ctx context.Context, req *LocateProjectRequest) (*LocateProjectResult, error) {
	start, err := e.startDir(req)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("locating project", "start", start, "workspace", req.Workspace)

	manifestPath, err := e.locator.FindManifest(ctx, start)
	if err != nil {
		return nil, err
	}

	root := manifestPath
	if req.Workspace {
		wsDir, err := e.locator.FindWorkspaceRoot(ctx, filepath.Dir(manifestPath))
		if err != nil {
			return nil, err
		}
		root = filepath.Join(wsDir, e.locator.Name())
	}

	e.logger.Debug("located project", "manifest", manifestPath, "root", root)
	return &LocateProjectResult{
		Root:     root,
		Manifest: manifestPath,
		Start:    start,
	}, nil
}

// startDir picks the directory the manifest search begins in.
func (e *Engine) startDir(req *LocateProjectRequest) (string, error) {
	if req.ManifestPath != "" {
		isManifest, err := e.locator.IsManifest(req.ManifestPath)
		if err != nil {
			return "", err
		}
		if isManifest {
			return filepath.Dir(req.ManifestPath), nil
		}
		return req.ManifestPath, nil
	}
	if req.CWD == "" {
		return "", ErrNoStartPath
	}
	return req.CWD, nil
}

// WriteLocation renders result to w in a single write. Paths are written
// without HTML escaping so that '&', '<' and '>' appear verbatim.
func WriteLocation(w io.Writer, result *LocateProjectResult, format MessageFormat) error {
	var out bytes.Buffer
	switch format {
	case MessageFormatJSON, "":
		enc := json.NewEncoder(&out)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode location: %w", err)
		}
	case MessageFormatPlain:
		out.WriteString(result.Root + "\n")
	default:
		return fmt.Errorf("%w: unknown message format %q", ErrValidation, format)
	}

	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("failed to write location: %w", err)
	}
	return nil
}
