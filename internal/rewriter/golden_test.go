package rewriter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsrewrite/ramdacut/internal/resolver"
	"github.com/jsrewrite/ramdacut/internal/test"
	"golang.org/x/tools/txtar"
)

// Each archive in testdata holds "input.js" and either "output.js" or
// "error". Lines in the archive comment select options:
//
//	library=rambda
//	use-es
func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test cases")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}

			var input, wantOutput, wantError *txtar.File
			for i := range ar.Files {
				switch f := &ar.Files[i]; f.Name {
				case "input.js":
					input = f
				case "output.js":
					wantOutput = f
				case "error":
					wantError = f
				default:
					t.Fatalf("unexpected section %q", f.Name)
				}
			}
			if input == nil || (wantOutput == nil) == (wantError == nil) {
				t.Fatal("need input.js and exactly one of output.js or error")
			}

			js, text, err := rewrite(t, string(input.Data), goldenOptions(t, ar.Comment))
			if wantError != nil {
				if err == nil {
					t.Fatalf("expected an error, got output:\n%s", js)
				}
				test.AssertEqualWithDiff(t, text, string(wantError.Data))
				return
			}
			test.AssertEqualWithDiff(t, text, "")
			if err != nil {
				t.Fatal(err)
			}
			test.AssertEqualWithDiff(t, js, string(wantOutput.Data))
		})
	}
}

func goldenOptions(t *testing.T, comment []byte) Options {
	t.Helper()
	resolveOptions := resolver.ResolveOptions{}
	for _, line := range bytes.Split(comment, []byte("\n")) {
		line := strings.TrimSpace(string(line))
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
		case line == "use-es":
			resolveOptions.UseES = true
		case strings.HasPrefix(line, "library="):
			resolveOptions.Library = strings.TrimPrefix(line, "library=")
		default:
			t.Fatalf("unknown option %q", line)
		}
	}
	return Options{
		Library:  resolveOptions.Library,
		Resolver: resolver.NewResolver(resolveOptions),
	}
}
