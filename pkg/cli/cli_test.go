package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsrewrite/ramdacut/internal/config"
	"github.com/jsrewrite/ramdacut/internal/test"
	"github.com/jsrewrite/ramdacut/pkg/api"
)

func TestParseTransformOptions(t *testing.T) {
	options, err := ParseTransformOptions([]string{})
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, options.Library, "ramda")
	test.AssertEqual(t, options.UseES, false)
	test.AssertEqual(t, options.ErrorLimit, 10)
	test.AssertEqual(t, options.LogLevel, api.LogLevelInfo)

	options, err = ParseTransformOptions([]string{
		"--library=rambda",
		"--use-es",
		"--minify",
		"--ascii-only",
		"--sourcefile=in.js",
		"--color=false",
		"--log-level=warning",
		"--error-limit=0",
	})
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, options.Library, "rambda")
	test.AssertEqual(t, options.UseES, true)
	test.AssertEqual(t, options.MinifyWhitespace, true)
	test.AssertEqual(t, options.ASCIIOnly, true)
	test.AssertEqual(t, options.Sourcefile, "in.js")
	test.AssertEqual(t, options.Color, api.ColorNever)
	test.AssertEqual(t, options.LogLevel, api.LogLevelWarning)
	test.AssertEqual(t, options.ErrorLimit, 0)
}

func TestParseOptionsFromEnv(t *testing.T) {
	t.Setenv(config.EnvLibrary, "rambda")
	t.Setenv(config.EnvUseES, "true")
	t.Setenv(config.EnvParallelism, "3")

	options, paths, err := ParseFilesOptions([]string{"a.js"})
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, strings.Join(paths, ","), "a.js")
	test.AssertEqual(t, options.Library, "rambda")
	test.AssertEqual(t, options.UseES, true)
	test.AssertEqual(t, options.Parallelism, 3)

	// Flags take precedence over the environment
	options, _, err = ParseFilesOptions([]string{"a.js", "--library=ramda", "--parallelism=5"})
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, options.Library, "ramda")
	test.AssertEqual(t, options.Parallelism, 5)
}

func TestParseFilesOptions(t *testing.T) {
	options, paths, err := ParseFilesOptions([]string{"a.js", "--outdir=out", "b.js"})
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, strings.Join(paths, ","), "a.js,b.js")
	test.AssertEqual(t, options.Outdir, "out")
	test.AssertEqual(t, options.Outfile, "")

	options, _, err = ParseFilesOptions([]string{"a.js", "--outfile=out.js"})
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, options.Outfile, "out.js")

	flags, err := parseOptionsImpl([]string{"a.js", "--watch", "--verbose"}, &options, nil)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, flags.watch, true)
	test.AssertEqual(t, flags.verbose, true)
}

func TestParseErrors(t *testing.T) {
	expectTransformError := func(args []string, expected string) {
		t.Helper()
		_, err := ParseTransformOptions(args)
		if err == nil {
			t.Fatalf("Expected an error for %v", args)
		}
		test.AssertEqual(t, err.Error(), expected)
	}
	expectFilesError := func(args []string, expected string) {
		t.Helper()
		_, _, err := ParseFilesOptions(args)
		if err == nil {
			t.Fatalf("Expected an error for %v", args)
		}
		test.AssertEqual(t, err.Error(), expected)
	}

	expectTransformError([]string{"--bundle"}, "Invalid transform flag: \"--bundle\"")
	expectTransformError([]string{"--outdir=out"}, "Invalid transform flag: \"--outdir=out\"")
	expectTransformError([]string{"--watch"}, "Invalid transform flag: \"--watch\"")
	expectTransformError([]string{"--library="}, "Missing library name: \"--library=\"")
	expectTransformError([]string{"--color=yes"}, "Invalid color: \"yes\" (valid: false, true)")
	expectTransformError([]string{"--log-level=debug"}, "Invalid log level: \"debug\" (valid: info, warning, error, silent)")
	expectTransformError([]string{"--error-limit=-1"}, "Invalid error limit: \"-1\"")

	expectFilesError([]string{"a.js", "--sourcefile=x.js"}, "Invalid flag: \"--sourcefile=x.js\"")
	expectFilesError([]string{"a.js", "--parallelism=0"}, "Invalid parallelism: \"0\"")
	expectFilesError([]string{"a.js", "--parallelism=many"}, "Invalid parallelism: \"many\"")
}

func TestRunStdin(t *testing.T) {
	var stdout bytes.Buffer
	stdin := strings.NewReader("import * as R from 'ramda'; R.add(1, 2)")
	code := run([]string{"--log-level=silent"}, stdin, &stdout)
	test.AssertEqual(t, code, 0)
	test.AssertEqualWithDiff(t, stdout.String(), "import _add from \"ramda/src/add\";\n_add(1, 2);\n")

	stdout.Reset()
	stdin = strings.NewReader("import { map } from 'ramda'; map(f, xs)")
	code = run([]string{"--log-level=silent", "--use-es", "--minify"}, stdin, &stdout)
	test.AssertEqual(t, code, 0)
	test.AssertEqualWithDiff(t, stdout.String(), "import _map from\"ramda/es/map\";_map(f,xs);")

	stdout.Reset()
	stdin = strings.NewReader("export * from 'ramda'")
	code = run([]string{"--log-level=silent"}, stdin, &stdout)
	test.AssertEqual(t, code, 1)
	test.AssertEqual(t, stdout.Len(), 0)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name string, contents string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	a := writeFile("src/a.js", "import { add } from 'ramda'; add(1, 2)")
	b := writeFile("src/lib/b.js", "import { inc } from 'ramda'; inc(1)")

	// A single file without an output path goes to stdout
	var stdout bytes.Buffer
	code := run([]string{"--log-level=silent", a}, strings.NewReader(""), &stdout)
	test.AssertEqual(t, code, 0)
	test.AssertEqualWithDiff(t, stdout.String(), "import _add from \"ramda/src/add\";\n_add(1, 2);\n")

	// Multiple files need an output directory
	stdout.Reset()
	code = run([]string{"--log-level=silent", a, b}, strings.NewReader(""), &stdout)
	test.AssertEqual(t, code, 1)

	outdir := filepath.Join(dir, "out")
	code = run([]string{"--log-level=silent", "--outdir=" + outdir, a, b}, strings.NewReader(""), &stdout)
	test.AssertEqual(t, code, 0)
	test.AssertEqual(t, stdout.Len(), 0)

	contents, err := os.ReadFile(filepath.Join(outdir, "a.js"))
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqualWithDiff(t, string(contents), "import _add from \"ramda/src/add\";\n_add(1, 2);\n")
	contents, err = os.ReadFile(filepath.Join(outdir, "lib", "b.js"))
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqualWithDiff(t, string(contents), "import _inc from \"ramda/src/inc\";\n_inc(1);\n")

	// A file that can't be rewritten fails the run
	c := writeFile("src/c.js", "export * from 'ramda'")
	code = run([]string{"--log-level=silent", "--outfile=" + filepath.Join(dir, "c.out.js"), c}, strings.NewReader(""), &stdout)
	test.AssertEqual(t, code, 1)
	if _, err := os.Stat(filepath.Join(dir, "c.out.js")); !os.IsNotExist(err) {
		t.Fatal("Expected no output file")
	}
}
