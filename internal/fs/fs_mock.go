package fs

// This is a mock implementation of the "fs" module for use with tests. It
// always uses forward slashes and the working directory is "/".

import (
	"path"
	"strings"
	"sync"
	"syscall"
)

type mockFS struct {
	mutex sync.Mutex
	files map[string]string
}

func MockFS(input map[string]string) FS {
	files := make(map[string]string, len(input))
	for k, v := range input {
		files[path.Clean(path.Join("/", k))] = v
	}
	return &mockFS{files: files}
}

func (fs *mockFS) ReadFile(p string) (string, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	if contents, ok := fs.files[p]; ok {
		return contents, nil
	}
	return "", syscall.ENOENT
}

func (fs *mockFS) WriteFile(p string, contents []byte) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	fs.files[p] = string(contents)
	return nil
}

// Mock files have no metadata, so changes are always found by contents
func (*mockFS) ModKey(string) (ModKey, error) {
	return ModKey{}, modKeyUnusable
}

func (*mockFS) Abs(p string) (string, bool) {
	return path.Clean(path.Join("/", p)), true
}

func (*mockFS) Dir(p string) string {
	return path.Dir(p)
}

func (*mockFS) Base(p string) string {
	return path.Base(p)
}

func (*mockFS) Join(parts ...string) string {
	return path.Clean(path.Join(parts...))
}

func (*mockFS) Cwd() string {
	return "/"
}

func splitOnSlash(path string) (string, string) {
	if slash := strings.IndexByte(path, '/'); slash != -1 {
		return path[:slash], path[slash+1:]
	}
	return path, ""
}

func (*mockFS) Rel(base string, target string) (string, bool) {
	base = path.Clean(base)
	target = path.Clean(target)

	// Base cases
	if base == "" || base == "." {
		return target, true
	}
	if base == target {
		return ".", true
	}

	// Find the common parent directory
	for {
		bHead, bTail := splitOnSlash(base)
		tHead, tTail := splitOnSlash(target)
		if bHead != tHead {
			break
		}
		base = bTail
		target = tTail
	}

	// Stop now if base is a subpath of target
	if base == "" {
		return target, true
	}

	// Traverse up to the common parent
	commonParent := strings.Repeat("../", strings.Count(base, "/")+1)

	// Stop now if target is a subpath of base
	if target == "" {
		return commonParent[:len(commonParent)-1], true
	}

	// Otherwise, down to the parent
	return commonParent + target, true
}
