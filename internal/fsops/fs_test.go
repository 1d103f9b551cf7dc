package fsops

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{
			name:      "manifest name",
			id:        "Cargo.toml",
			wantError: false,
		},
		{
			name:      "dotfile",
			id:        ".manifest",
			wantError: false,
		},
		{
			name:      "empty identifier",
			id:        "",
			wantError: true,
		},
		{
			name:      "current directory",
			id:        ".",
			wantError: true,
		},
		{
			name:      "parent directory",
			id:        "..",
			wantError: true,
		},
		{
			name:      "path with separator",
			id:        "sub/Cargo.toml",
			wantError: true,
		},
		{
			name:      "path with backslash",
			id:        "sub\\Cargo.toml",
			wantError: true,
		},
		{
			name:      "absolute path",
			id:        "/etc/hosts",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}

func TestIsRegularFile(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()

	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	t.Run("regular file", func(t *testing.T) {
		ok, err := IsRegularFile(fs, file)
		if err != nil {
			t.Fatalf("IsRegularFile returned error: %v", err)
		}
		if !ok {
			t.Error("expected regular file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		ok, err := IsRegularFile(fs, tmpDir)
		if err != nil {
			t.Fatalf("IsRegularFile returned error: %v", err)
		}
		if ok {
			t.Error("directory should not be reported as a regular file")
		}
	})

	t.Run("missing path", func(t *testing.T) {
		ok, err := IsRegularFile(fs, filepath.Join(tmpDir, "missing"))
		if err != nil {
			t.Fatalf("IsRegularFile returned error: %v", err)
		}
		if ok {
			t.Error("missing path should not be reported as a regular file")
		}
	})

	t.Run("parent is a file", func(t *testing.T) {
		ok, err := IsRegularFile(fs, filepath.Join(file, "Cargo.toml"))
		if err != nil {
			t.Fatalf("IsRegularFile returned error: %v", err)
		}
		if ok {
			t.Error("path below a file should not be reported as a regular file")
		}
	})

	t.Run("symlink to file", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks require privileges on windows")
		}
		link := filepath.Join(tmpDir, "link.txt")
		if err := os.Symlink(file, link); err != nil {
			t.Fatalf("failed to create symlink: %v", err)
		}
		ok, err := IsRegularFile(fs, link)
		if err != nil {
			t.Fatalf("IsRegularFile returned error: %v", err)
		}
		if !ok {
			t.Error("symlink to a regular file should be followed")
		}
	})
}

func TestIsAbsent(t *testing.T) {
	_, err := os.Stat(filepath.Join(t.TempDir(), "missing"))
	if !IsAbsent(err) {
		t.Errorf("IsAbsent(%v) = false, want true", err)
	}
	if IsAbsent(errors.New("boom")) {
		t.Error("IsAbsent should be false for unrelated errors")
	}
	if IsAbsent(os.ErrPermission) {
		t.Error("IsAbsent should be false for permission errors")
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()

	t.Run("creates parent directories", func(t *testing.T) {
		target := filepath.Join(tmpDir, "nested", "dir", "schema.json")
		if err := fs.AtomicWrite(target, []byte("{}\n"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		data, err := fs.ReadFile(target)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(data) != "{}\n" {
			t.Errorf("unexpected content: %q", data)
		}
	})

	t.Run("replaces existing file", func(t *testing.T) {
		target := filepath.Join(tmpDir, "replace.json")
		if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
		if err := fs.AtomicWrite(target, []byte("new"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		data, err := os.ReadFile(target)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(data) != "new" {
			t.Errorf("unexpected content: %q", data)
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "clean")
		if err := fs.AtomicWrite(filepath.Join(dir, "out.json"), []byte("x"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected 1 entry, got %d", len(entries))
		}
	})
}
