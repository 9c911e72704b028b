package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type FS interface {
	ReadFile(path string) (string, error)
	WriteFile(path string, contents []byte) error

	// Returns a key that changes whenever the file changes, or an error if no
	// reliable key can be made. Callers must fall back to comparing contents.
	ModKey(path string) (ModKey, error)

	// This is part of the interface because the mock interface used for tests
	// should not depend on file system behavior (i.e. different slashes for
	// Windows) while the real interface should.
	Abs(path string) (string, bool)
	Dir(path string) string
	Base(path string) string
	Join(parts ...string) string
	Cwd() string
	Rel(base string, target string) (string, bool)
}

// Everything that changes when a file is overwritten, except the contents
type ModKey struct {
	inode     uint64
	size      int64
	mtimeSec  int64
	mtimeNsec int64
	mode      uint32
	uid       uint32
}

// Modification times with only second resolution can't tell apart two writes
// in the same second, so files newer than this are compared by contents
const modKeySafetyGap = 3 // In seconds

var modKeyUnusable = errors.New("The modification key is unusable")

type realFS struct {
	cwd string
}

func RealFS() FS {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	} else if path, err := filepath.EvalSymlinks(cwd); err == nil {
		// Symlinks are resolved so paths relative to the working directory match
		// the absolute paths of the input files
		cwd = path
	}
	return &realFS{cwd: cwd}
}

func (*realFS) ReadFile(path string) (string, error) {
	buffer, err := os.ReadFile(path)
	return string(buffer), err
}

func (*realFS) WriteFile(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

func (*realFS) ModKey(path string) (ModKey, error) {
	return modKey(path)
}

func (fs *realFS) Abs(p string) (string, bool) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), true
	}
	return filepath.Join(fs.cwd, p), true
}

func (*realFS) Dir(p string) string {
	return filepath.Dir(p)
}

func (*realFS) Base(p string) string {
	return filepath.Base(p)
}

func (*realFS) Join(parts ...string) string {
	return filepath.Clean(filepath.Join(parts...))
}

func (fs *realFS) Cwd() string {
	return fs.cwd
}

func (*realFS) Rel(base string, target string) (string, bool) {
	if rel, err := filepath.Rel(base, target); err == nil {
		return rel, true
	}
	return "", false
}

// Relative paths are shown when they don't escape the working directory
func PrettyPath(fs FS, absPath string) string {
	if rel, ok := fs.Rel(fs.Cwd(), absPath); ok && rel != ".." && !strings.HasPrefix(rel, "../") && !strings.HasPrefix(rel, `..\`) {
		return rel
	}
	return absPath
}
