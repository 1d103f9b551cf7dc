package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/cargo-plumbing/internal/fsops"
	"github.com/danieljhkim/cargo-plumbing/internal/hash"
	"github.com/danieljhkim/cargo-plumbing/internal/manifest"
)

// newTestEngine creates an engine over the real filesystem searching for
// manifests called name.
func newTestEngine(name string) *Engine {
	fs := fsops.NewRealFS()
	return New(fs, manifest.NewLocator(fs, name, "", nil), hash.NewSHA256Hasher(), nil)
}

// writeFile creates path and its parent directories with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLocateProject(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine("")

	// root/a/Cargo.toml        workspace
	// root/a/b/Cargo.toml      package
	// root/a/b/src/
	// root/c/d/                nothing below root/c
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Cargo.toml"), "[workspace]\nmembers = [\"b\"]\n")
	writeFile(t, filepath.Join(root, "a", "b", "Cargo.toml"), "[package]\nname = \"b\"\n")
	writeFile(t, filepath.Join(root, "a", "b", "src", "lib.rs"), "")
	writeFile(t, filepath.Join(root, "a", "only", "Cargo.toml"), "[package]\nname = \"only\"\n")

	tests := []struct {
		name string
		req  LocateProjectRequest
		want string
	}{
		{
			name: "package from working directory",
			req:  LocateProjectRequest{CWD: filepath.Join(root, "a", "b", "src")},
			want: filepath.Join(root, "a", "b", "Cargo.toml"),
		},
		{
			name: "workspace from working directory",
			req:  LocateProjectRequest{CWD: filepath.Join(root, "a", "b"), Workspace: true},
			want: filepath.Join(root, "a", "Cargo.toml"),
		},
		{
			name: "workspace root is its own workspace",
			req:  LocateProjectRequest{CWD: filepath.Join(root, "a"), Workspace: true},
			want: filepath.Join(root, "a", "Cargo.toml"),
		},
		{
			name: "explicit manifest path",
			req: LocateProjectRequest{
				CWD:          filepath.Join(root, "a", "only"),
				ManifestPath: filepath.Join(root, "a", "b", "Cargo.toml"),
			},
			want: filepath.Join(root, "a", "b", "Cargo.toml"),
		},
		{
			name: "explicit directory is searched verbatim",
			req:  LocateProjectRequest{ManifestPath: filepath.Join(root, "a", "b", "src")},
			want: filepath.Join(root, "a", "b", "Cargo.toml"),
		},
		{
			name: "explicit non-manifest file searches upward",
			req:  LocateProjectRequest{ManifestPath: filepath.Join(root, "a", "b", "src", "lib.rs")},
			want: filepath.Join(root, "a", "b", "Cargo.toml"),
		},
		{
			name: "explicit manifest path in workspace mode",
			req: LocateProjectRequest{
				ManifestPath: filepath.Join(root, "a", "only", "Cargo.toml"),
				Workspace:    true,
			},
			want: filepath.Join(root, "a", "Cargo.toml"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			result, err := eng.LocateProject(ctx, &req)
			if err != nil {
				t.Fatalf("LocateProject() error = %v", err)
			}
			if result.Root != tt.want {
				t.Errorf("LocateProject() root = %s, want %s", result.Root, tt.want)
			}
		})
	}
}

func TestLocateProject_ManifestPathEquivalentToParent(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine("")

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), "[workspace]\n")
	manifestPath := filepath.Join(root, "crate", "Cargo.toml")
	writeFile(t, manifestPath, "[package]\n")

	for _, workspace := range []bool{false, true} {
		viaFile, err := eng.LocateProject(ctx, &LocateProjectRequest{ManifestPath: manifestPath, Workspace: workspace})
		if err != nil {
			t.Fatalf("LocateProject(file) error = %v", err)
		}
		viaDir, err := eng.LocateProject(ctx, &LocateProjectRequest{CWD: filepath.Dir(manifestPath), Workspace: workspace})
		if err != nil {
			t.Fatalf("LocateProject(dir) error = %v", err)
		}
		if viaFile.Root != viaDir.Root {
			t.Errorf("workspace=%v: manifest path gave %s, parent directory gave %s", workspace, viaFile.Root, viaDir.Root)
		}
		if viaFile.Start != viaDir.Start {
			t.Errorf("workspace=%v: start %s != %s", workspace, viaFile.Start, viaDir.Start)
		}
	}
}

func TestLocateProject_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		eng := newTestEngine("plumbing-test-manifest.toml")
		start := filepath.Join(t.TempDir(), "x")

		result, err := eng.LocateProject(ctx, &LocateProjectRequest{CWD: start})
		if !errors.Is(err, manifest.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if result != nil {
			t.Errorf("expected nil result, got %+v", result)
		}
	})

	t.Run("not a workspace", func(t *testing.T) {
		name := "plumbing-test-manifest.toml"
		eng := newTestEngine(name)
		root := t.TempDir()
		writeFile(t, filepath.Join(root, name), "[package]\n")

		_, err := eng.LocateProject(ctx, &LocateProjectRequest{CWD: root, Workspace: true})
		if !errors.Is(err, manifest.ErrNotAWorkspace) {
			t.Errorf("expected ErrNotAWorkspace, got %v", err)
		}
	})

	t.Run("no start path", func(t *testing.T) {
		eng := newTestEngine("")
		_, err := eng.LocateProject(ctx, &LocateProjectRequest{})
		if !errors.Is(err, ErrNoStartPath) {
			t.Errorf("expected ErrNoStartPath, got %v", err)
		}
	})
}

func TestWriteLocation(t *testing.T) {
	result := &LocateProjectResult{Root: "/a/Cargo.toml", Manifest: "/a/b/Cargo.toml", Start: "/a/b"}

	tests := []struct {
		name    string
		format  MessageFormat
		want    string
		wantErr bool
	}{
		{name: "json", format: MessageFormatJSON, want: "{\"root\":\"/a/Cargo.toml\"}\n"},
		{name: "default is json", format: "", want: "{\"root\":\"/a/Cargo.toml\"}\n"},
		{name: "plain", format: MessageFormatPlain, want: "/a/Cargo.toml\n"},
		{name: "unknown", format: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WriteLocation(&buf, result, tt.format)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %q", buf.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("WriteLocation() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteLocation() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriteLocation_EscapesPath(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLocation(&buf, &LocateProjectResult{Root: `C:\work\"q"\Cargo.toml`}, MessageFormatJSON); err != nil {
		t.Fatalf("WriteLocation() error = %v", err)
	}
	want := `{"root":"C:\\work\\\"q\"\\Cargo.toml"}` + "\n"
	if buf.String() != want {
		t.Errorf("WriteLocation() = %q, want %q", buf.String(), want)
	}
}

func TestWriteLocation_DoesNotEscapeHTML(t *testing.T) {
	root := "/tmp/R&D/<x>/Cargo.toml"

	var buf bytes.Buffer
	if err := WriteLocation(&buf, &LocateProjectResult{Root: root}, MessageFormatJSON); err != nil {
		t.Fatalf("WriteLocation() error = %v", err)
	}
	want := `{"root":"/tmp/R&D/<x>/Cargo.toml"}` + "\n"
	if buf.String() != want {
		t.Errorf("WriteLocation() = %q, want %q", buf.String(), want)
	}
}

func TestParseMessageFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    MessageFormat
		wantErr bool
	}{
		{in: "", want: MessageFormatJSON},
		{in: "json", want: MessageFormatJSON},
		{in: "plain", want: MessageFormatPlain},
		{in: "JSON", wantErr: true},
		{in: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMessageFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMessageFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMessageFormat(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
