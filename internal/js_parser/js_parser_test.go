package js_parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jsrewrite/ramdacut/internal/js_ast"
	"github.com/jsrewrite/ramdacut/internal/js_printer"
	"github.com/jsrewrite/ramdacut/internal/logger"
	"github.com/jsrewrite/ramdacut/internal/test"
)

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log, done := logger.NewDeferLog()
		Parse(log, test.SourceForTest(contents), Options{})
		msgs := done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log, done := logger.NewDeferLog()
		tree, ok := Parse(log, test.SourceForTest(contents), Options{})
		msgs := done()
		text := ""
		for _, msg := range msgs {
			if msg.Kind != logger.Warning {
				text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
			}
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("Parse error")
		}
		js := js_printer.Print(tree, js_printer.Options{})
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

// Lists the use counts of every symbol with the given name in declaration
// order. Two uses of a name bind to the same variable exactly when they are
// counted on the same symbol.
func expectUseCounts(t *testing.T, contents string, name string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log, done := logger.NewDeferLog()
		tree, ok := Parse(log, test.SourceForTest(contents), Options{})
		done()
		if !ok {
			t.Fatal("Parse error")
		}
		counts := []string{}
		for _, symbol := range tree.Symbols {
			if symbol.OriginalName == name && symbol.Link == js_ast.InvalidRef {
				counts = append(counts, fmt.Sprintf("%s:%d", symbol.Kind, symbol.UseCountEstimate))
			}
		}
		test.AssertEqual(t, strings.Join(counts, " "), expected)
	})
}

func TestSyntaxErrors(t *testing.T) {
	expectParseError(t, "x = 1 +", "<stdin>: error: Unexpected end of file\n")
	expectParseError(t, "-x ** 2", "<stdin>: error: Unexpected \"**\"\n")
	expectParseError(t, "({a = 1})", "<stdin>: error: Unexpected \"=\"\n")
	expectParseError(t, "[a, ...b,] = c", "<stdin>: error: Unexpected \",\" after rest pattern\n")
	expectParseError(t, "a?.b`c`", "<stdin>: error: Template literals cannot have an optional chain as a tag\n")
	expectParseError(t, "throw\nx", "<stdin>: error: Unexpected newline after \"throw\"\n")
	expectParseError(t, "const x", "<stdin>: error: This constant must be initialized\n")
	expectParseError(t, "for (let a, b of c) ;", "<stdin>: error: for-of loops must have a single declaration\n")
	expectParseError(t, "for (let a = 1 of b) ;", "<stdin>: error: for-of loop variables cannot have an initializer\n")
	expectParseError(t, "switch (x) { default: default: }", "<stdin>: error: Multiple default clauses are not allowed\n")
	expectParseError(t, "export {'a'}", "<stdin>: error: Expected identifier but found 'a'\n")
}

func TestWarnings(t *testing.T) {
	expectParseError(t, "a[b, c]",
		"<stdin>: warning: Use of \",\" inside a property access is misleading because JavaScript doesn't have multidimensional arrays\n")
	expectParseError(t, "!a in b", "<stdin>: warning: Suspicious use of the \"!\" operator inside the \"in\" operator\n")
	expectParseError(t, "function f() { return\nx }",
		"<stdin>: warning: The following expression is not returned because of an automatically-inserted semicolon\n")
}

func TestBindErrors(t *testing.T) {
	expectParseError(t, "let x; let x", "<stdin>: error: \"x\" has already been declared\n")
	expectParseError(t, "function f(a) { let a }", "<stdin>: error: \"a\" has already been declared\n")
	expectParseError(t, "break foo", "<stdin>: error: There is no containing label named \"foo\"\n")
	expectParseError(t, "let a; export {a, a}", "<stdin>: error: Multiple exports with the same name \"a\"\n")

	expectParseError(t, "var x; var x", "")
	expectParseError(t, "function f(a) { var a }", "")
	expectParseError(t, "foo: for (;;) break foo", "")
}

func TestImportsAndExports(t *testing.T) {
	expectPrinted(t, "import R from 'ramda'", "import R from \"ramda\";\n")
	expectPrinted(t, "import * as R from 'ramda'", "import * as R from \"ramda\";\n")
	expectPrinted(t, "import {add, map as m} from 'ramda'", "import { add, map as m } from \"ramda\";\n")
	expectPrinted(t, "import 'ramda'", "import \"ramda\";\n")
	expectPrinted(t, "export {add} from 'ramda'", "export { add } from \"ramda\";\n")
	expectPrinted(t, "export * from 'ramda'", "export * from \"ramda\";\n")
	expectPrinted(t, "export * as R from 'ramda'", "export * as R from \"ramda\";\n")
	expectPrinted(t, "import('ramda')", "import(\"ramda\");\n")
	expectPrinted(t, "require('ramda')", "require(\"ramda\");\n")
}

func TestMemberAccess(t *testing.T) {
	expectPrinted(t, "R.add(1, 2)", "R.add(1, 2);\n")
	expectPrinted(t, "R?.add", "R?.add;\n")
	expectPrinted(t, "R['add']", "R[\"add\"];\n")
	expectPrinted(t, "R[name]", "R[name];\n")
	expectPrinted(t, "R.if", "R.if;\n")
	expectPrinted(t, "class A { #a; b() { return this.#a } }", "class A {\n  #a;\n  b() {\n    return this.#a;\n  }\n}\n")
}

func TestShadowing(t *testing.T) {
	expectUseCounts(t, "import R from 'ramda'; R.add", "R", "import:1")
	expectUseCounts(t, "import R from 'ramda'; function f(R) { return R }", "R", "import:0 hoisted:1")
	expectUseCounts(t, "import R from 'ramda'; function f() { return R }", "R", "import:1")
	expectUseCounts(t, "import R from 'ramda'; { let R; R }", "R", "import:0 other:1")
	expectUseCounts(t, "import R from 'ramda'; { R; let R }", "R", "import:0 other:1")
	expectUseCounts(t, "import R from 'ramda'; try {} catch (R) { R }", "R", "import:0 catch-identifier:1")
	expectUseCounts(t, "import R from 'ramda'; function f() { R; var R }", "R", "import:0 hoisted:1")
	expectUseCounts(t, "import R from 'ramda'; x = function R() { R }", "R", "import:0 other:1")
	expectUseCounts(t, "import R from 'ramda'; x = (R) => R", "R", "import:0 hoisted:1")
	expectUseCounts(t, "import R from 'ramda'; class A { m() { R } }", "R", "import:1")
	expectUseCounts(t, "import R from 'ramda'; for (const R of x) R", "R", "import:0 other:1")
	expectUseCounts(t, "import R from 'ramda'; x = {R}", "R", "import:1")
	expectUseCounts(t, "import R from 'ramda'; x = {R: 1}", "R", "import:0")
	expectUseCounts(t, "import R from 'ramda'; x.R", "R", "import:0")
	expectUseCounts(t, "import R from 'ramda'; export {R}", "R", "import:1")
	expectUseCounts(t, "R; var R", "R", "hoisted:1")
	expectUseCounts(t, "R", "R", "unbound:1")
}

func TestHoisting(t *testing.T) {
	expectUseCounts(t, "f(); function f() {}", "f", "hoisted-function:1")
	expectUseCounts(t, "if (a) { var x } x", "x", "hoisted:1")
	expectUseCounts(t, "function g() { { var x } x }", "x", "hoisted:1")
	expectUseCounts(t, "function g() { { var x } } x", "x", "hoisted:0 unbound:1")
}
