// Package manifest locates project manifests on disk.
//
// Discovery walks upward from a start path, probing one candidate file per
// directory until the filesystem root. The walk is lexical: parents are
// computed from the path string, so a symlinked start directory searches the
// link's own ancestors rather than those of its target.
//
// Key responsibilities:
//   - Upward: the generic ancestor walk with a pluggable match predicate
//   - Locator.FindManifest: nearest manifest file
//   - Locator.FindWorkspaceRoot: nearest manifest declaring a workspace
//
// Workspace detection is line oriented: a manifest declares a workspace when
// one of its lines, trimmed, starts with the marker. The manifest format is
// never parsed, so the marker text inside a multi-line string also matches.
package manifest
