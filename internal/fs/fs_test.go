package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsrewrite/ramdacut/internal/test"
)

func TestMockFSRel(t *testing.T) {
	fs := MockFS(map[string]string{})

	expect := func(a string, b string, c string) {
		t.Helper()
		rel, ok := fs.Rel(a, b)
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, rel, c)
	}

	expect("/a/b", "/a/b", ".")
	expect("/a/b", "/a/b/c", "c")
	expect("/a/b", "/a", "..")
	expect("/a/b", "/a/c", "../c")
	expect("/a/b/c", "/x", "../../../x")
	expect("/", "/a", "a")
}

func TestMockFSReadWrite(t *testing.T) {
	fs := MockFS(map[string]string{"src/a.js": "a"})

	contents, err := fs.ReadFile("/src/a.js")
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, contents, "a")

	_, err = fs.ReadFile("/src/b.js")
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}

	test.AssertEqual(t, fs.WriteFile("/out/b.js", []byte("b")), nil)
	contents, err = fs.ReadFile("/out/b.js")
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, contents, "b")
}

func TestPrettyPath(t *testing.T) {
	fs := MockFS(map[string]string{})
	test.AssertEqual(t, PrettyPath(fs, "/src/a.js"), "src/a.js")
}

func TestWatchMock(t *testing.T) {
	fs := MockFS(map[string]string{"/a.js": "a", "/b.js": "b"})
	data := Watch(fs, []string{"/a.js", "/b.js", "/c.js"})

	test.AssertEqual(t, data.Paths["/a.js"](), "")
	test.AssertEqual(t, data.Paths["/b.js"](), "")
	test.AssertEqual(t, data.Paths["/c.js"](), "")

	fs.WriteFile("/a.js", []byte("a"))
	test.AssertEqual(t, data.Paths["/a.js"](), "")

	fs.WriteFile("/b.js", []byte("b2"))
	test.AssertEqual(t, data.Paths["/b.js"](), "/b.js")

	fs.WriteFile("/c.js", []byte("c"))
	test.AssertEqual(t, data.Paths["/c.js"](), "/c.js")
}

func TestWatchReal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := RealFS()
	data := Watch(fs, []string{path})
	test.AssertEqual(t, data.Paths[path](), "")

	// The file was just written, so this is caught by comparing contents
	if err := fs.WriteFile(path, []byte("b")); err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, data.Paths[path](), path)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, data.Paths[path](), path)
}

type keyedFS struct {
	FS
	key   ModKey
	reads int
}

func (fs *keyedFS) ModKey(string) (ModKey, error) {
	return fs.key, nil
}

func (fs *keyedFS) ReadFile(path string) (string, error) {
	fs.reads++
	return fs.FS.ReadFile(path)
}

func TestWatchKeyRefresh(t *testing.T) {
	fs := &keyedFS{FS: MockFS(map[string]string{"/a.js": "a"}), key: ModKey{size: 1}}
	data := Watch(fs, []string{"/a.js"})
	test.AssertEqual(t, fs.reads, 1)

	// An unchanged key doesn't read the file
	test.AssertEqual(t, data.Paths["/a.js"](), "")
	test.AssertEqual(t, fs.reads, 1)

	// A new key with the same contents reads the file once
	fs.key = ModKey{size: 1, mtimeSec: 1}
	test.AssertEqual(t, data.Paths["/a.js"](), "")
	test.AssertEqual(t, fs.reads, 2)
	test.AssertEqual(t, data.Paths["/a.js"](), "")
	test.AssertEqual(t, fs.reads, 2)

	fs.FS.WriteFile("/a.js", []byte("b"))
	fs.key = ModKey{size: 1, mtimeSec: 2}
	test.AssertEqual(t, data.Paths["/a.js"](), "/a.js")
}
