package integration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/danieljhkim/cargo-plumbing/internal/engine"
	"github.com/danieljhkim/cargo-plumbing/internal/hash"
	"github.com/danieljhkim/cargo-plumbing/internal/manifest"
)

// memFS is a filesystem implementation that keeps files in memory for testing.
// Directories exist implicitly as ancestors of files, or explicitly via mkdir.
type memFS struct {
	files map[string][]byte
	dirs  map[string]bool
	stats []string
}

func newMemFS() *memFS {
	return &memFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *memFS) writeFile(path, content string) {
	path = filepath.Clean(path)
	m.files[path] = []byte(content)
	m.mkdir(filepath.Dir(path))
}

func (m *memFS) mkdir(path string) {
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		m.dirs[p] = true
		if filepath.Dir(p) == p {
			return
		}
	}
}

// Stat mirrors os.Stat, including ENOTDIR when a parent is a file.
func (m *memFS) Stat(path string) (os.FileInfo, error) {
	path = filepath.Clean(path)
	m.stats = append(m.stats, path)

	if data, ok := m.files[path]; ok {
		return &memFileInfo{name: filepath.Base(path), size: int64(len(data))}, nil
	}
	if m.dirs[path] {
		return &memFileInfo{name: filepath.Base(path), isDir: true}, nil
	}
	for p := filepath.Dir(path); filepath.Dir(p) != p; p = filepath.Dir(p) {
		if _, ok := m.files[p]; ok {
			return nil, &fs.PathError{Op: "stat", Path: path, Err: syscall.ENOTDIR}
		}
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	m.writeFile(path, string(data))
	return nil
}

// checked reports whether path was ever passed to Stat.
func (m *memFS) checked(path string) bool {
	path = filepath.Clean(path)
	for _, p := range m.stats {
		if p == path {
			return true
		}
	}
	return false
}

type memFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (fi *memFileInfo) Name() string { return fi.name }
func (fi *memFileInfo) Size() int64  { return fi.size }
func (fi *memFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return os.ModeDir | 0755
	}
	return 0644
}
func (fi *memFileInfo) ModTime() time.Time { return time.Time{} }
func (fi *memFileInfo) IsDir() bool        { return fi.isDir }
func (fi *memFileInfo) Sys() interface{}   { return nil }

// setupTestEngine creates an engine over fsys with default manifest settings.
func setupTestEngine(t *testing.T, fsys *memFS) *engine.Engine {
	t.Helper()
	locator := manifest.NewLocator(fsys, "", "", nil)
	return engine.New(fsys, locator, hash.NewSHA256Hasher(), nil)
}

// abs turns a slash-separated path into an absolute path for the host OS.
func abs(path string) string {
	p := filepath.FromSlash(path)
	if vol := filepath.VolumeName(os.TempDir()); vol != "" && strings.HasPrefix(p, string(filepath.Separator)) {
		p = vol + p
	}
	return p
}
