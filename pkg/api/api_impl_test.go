package api

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jsrewrite/ramdacut/internal/fs"
	"github.com/jsrewrite/ramdacut/internal/test"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLowestCommonAncestorDirectory(t *testing.T) {
	fsys := fs.MockFS(map[string]string{})
	expect := func(paths []string, expected string) {
		t.Helper()
		t.Run(fmt.Sprint(paths), func(t *testing.T) {
			t.Helper()
			test.AssertEqual(t, lowestCommonAncestorDirectory(fsys, paths), expected)
		})
	}

	expect([]string{"/src/a.js"}, "/src")
	expect([]string{"/src/a.js", "/src/b.js"}, "/src")
	expect([]string{"/src/a.js", "/src/lib/b.js"}, "/src")
	expect([]string{"/src/lib/a.js", "/src/util/b.js"}, "/src")
	expect([]string{"/src/a.js", "/test/b.js"}, "/")
	expect([]string{"/srcx/a.js", "/src/b.js"}, "/")
}

func TestTransformFiles(t *testing.T) {
	fsys := fs.MockFS(map[string]string{
		"/src/a.js":     "import { add } from 'ramda'; add(1)",
		"/src/lib/b.js": "import * as R from 'ramda'; export const f = R.inc",
	})
	core, logs := observer.New(zapcore.InfoLevel)

	result := transformFilesImpl(context.Background(), fsys, []string{"src/a.js", "src/lib/b.js"}, FilesOptions{
		TransformOptions: TransformOptions{Logger: zap.New(core)},
		Outdir:           "out",
		Write:            true,
	})
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, len(result.Files), 2)

	a := result.Files[0]
	test.AssertEqual(t, a.Path, "/src/a.js")
	test.AssertEqual(t, len(a.Errors), 0)
	test.AssertEqual(t, a.OutputFile.Path, "/out/a.js")
	test.AssertEqualWithDiff(t, string(a.OutputFile.Contents), "import _add from \"ramda/src/add\";\n_add(1);\n")

	b := result.Files[1]
	test.AssertEqual(t, b.OutputFile.Path, "/out/lib/b.js")
	written, err := fsys.ReadFile("/out/lib/b.js")
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqualWithDiff(t, written, "import _inc from \"ramda/src/inc\";\nexport const f = _inc;\n")

	test.AssertEqual(t, logs.FilterMessage("transformed files").Len(), 1)
}

func TestTransformFilesErrors(t *testing.T) {
	fsys := fs.MockFS(map[string]string{
		"/a.js": "export * from 'ramda'",
		"/b.js": "import R from 'ramda'; R.add",
	})

	result := transformFilesImpl(context.Background(), fsys, []string{"a.js", "b.js", "c.js"}, FilesOptions{})
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, len(result.Files), 3)

	// One failing file doesn't stop the others
	test.AssertEqual(t, len(result.Files[0].Errors), 1)
	test.AssertEqual(t, result.Files[0].OutputFile == nil, true)
	test.AssertEqual(t, result.Files[0].Errors[0].Location.File, "a.js")
	test.AssertEqual(t, len(result.Files[1].Errors), 0)
	test.AssertEqual(t, result.Files[1].OutputFile.Path, "")
	test.AssertEqual(t, result.Files[2].Errors[0].Text, "Could not read from file \"c.js\": no such file or directory")

	expectOptionError := func(paths []string, options FilesOptions, expected string) {
		t.Helper()
		result := transformFilesImpl(context.Background(), fsys, paths, options)
		test.AssertEqual(t, len(result.Files), 0)
		test.AssertEqual(t, len(result.Errors), 1)
		test.AssertEqual(t, result.Errors[0].Text, expected)
	}
	expectOptionError(nil, FilesOptions{}, "No input files")
	expectOptionError([]string{"a.js"}, FilesOptions{Outfile: "x.js", Outdir: "out"}, "Cannot use both \"outfile\" and \"outdir\"")
	expectOptionError([]string{"a.js", "b.js"}, FilesOptions{Outfile: "x.js"}, "Must use \"outdir\" when there are multiple input files")
	expectOptionError([]string{"a.js"}, FilesOptions{Write: true}, "Must use \"outfile\" or \"outdir\" to write output files")
	expectOptionError([]string{"a.js"}, FilesOptions{TransformOptions: TransformOptions{Library: "/abs"}}, "Invalid library name: \"/abs\"")
}

func TestTransformFilesParallel(t *testing.T) {
	input := make(map[string]string)
	var paths []string
	for i := 0; i < 50; i++ {
		path := fmt.Sprintf("/src/f%d.js", i)
		input[path] = fmt.Sprintf("import * as R from 'ramda'; export const x%d = R.add(%d)", i, i)
		paths = append(paths, path)
	}
	fsys := fs.MockFS(input)

	for _, parallelism := range []int{1, 4, 100} {
		result := transformFilesImpl(context.Background(), fsys, paths, FilesOptions{Parallelism: parallelism, Outfile: ""})
		test.AssertEqual(t, len(result.Files), len(paths))
		for i, file := range result.Files {
			test.AssertEqual(t, file.Path, paths[i])
			test.AssertEqualWithDiff(t, string(file.OutputFile.Contents),
				fmt.Sprintf("import _add from \"ramda/src/add\";\nexport const x%d = _add(%d);\n", i, i))
		}
	}
}

func TestTransformFilesCanceled(t *testing.T) {
	fsys := fs.MockFS(map[string]string{"/a.js": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := transformFilesImpl(ctx, fsys, []string{"a.js"}, FilesOptions{})
	test.AssertEqual(t, len(result.Files), 1)
	test.AssertEqual(t, result.Files[0].Errors[0].Text, "Canceled: context canceled")
}

func TestWatch(t *testing.T) {
	fsys := fs.MockFS(map[string]string{
		"/src/a.js": "import { add } from 'ramda'; add(1)",
		"/src/b.js": "import { inc } from 'ramda'; inc(1)",
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan FilesResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchImpl(ctx, fsys, []string{"src/a.js", "src/b.js"}, FilesOptions{
			Outdir: "out",
			Write:  true,
		}, func(result FilesResult) { results <- result }, time.Millisecond)
	}()

	next := func() FilesResult {
		t.Helper()
		select {
		case result := <-results:
			return result
		case <-time.After(10 * time.Second):
			t.Fatal("Timed out waiting for a rebuild")
			return FilesResult{}
		}
	}

	initial := next()
	test.AssertEqual(t, len(initial.Files), 2)

	if err := fsys.WriteFile("/src/b.js", []byte("import { dec } from 'ramda'; dec(1)")); err != nil {
		t.Fatal(err)
	}
	rebuilt := next()
	test.AssertEqual(t, len(rebuilt.Files), 1)
	test.AssertEqual(t, rebuilt.Files[0].Path, "/src/b.js")
	written, _ := fsys.ReadFile("/out/b.js")
	test.AssertEqualWithDiff(t, written, "import _dec from \"ramda/src/dec\";\n_dec(1);\n")

	cancel()
	select {
	case err := <-done:
		test.AssertEqual(t, err, nil)
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for the watcher to stop")
	}
}

func TestWatchInvalidOptions(t *testing.T) {
	fsys := fs.MockFS(map[string]string{})
	var got FilesResult
	err := watchImpl(context.Background(), fsys, nil, FilesOptions{}, func(result FilesResult) { got = result }, time.Millisecond)
	if err == nil {
		t.Fatal("Expected an error")
	}
	test.AssertEqual(t, got.Errors[0].Text, "No input files")
}
