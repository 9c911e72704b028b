package test

import (
	"os"
	"testing"

	"github.com/jsrewrite/ramdacut/internal/logger"
)

func AssertEqual(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a != b {
		t.Fatalf("%v != %v", a, b)
	}
}

// Prints a line diff from "expected" to "actual" on failure. This reads much
// better than "%q != %q" for multi-line printer output.
func AssertEqualWithDiff(t *testing.T, actual string, expected string) {
	t.Helper()
	if actual != expected {
		t.Fatalf("\n%s", Diff(expected, actual, logger.GetTerminalInfo(os.Stdout).UseColorEscapes))
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		IsStdin:      true,
		AbsolutePath: "<stdin>",
		PrettyPath:   "<stdin>",
		Contents:     contents,
	}
}
