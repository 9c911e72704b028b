package js_printer

import (
	"testing"

	"github.com/jsrewrite/ramdacut/internal/js_parser"
	"github.com/jsrewrite/ramdacut/internal/logger"
	"github.com/jsrewrite/ramdacut/internal/test"
)

func expectPrintedCommon(t *testing.T, name string, contents string, expected string, options Options) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		log, done := logger.NewDeferLog()
		tree, ok := js_parser.Parse(log, test.SourceForTest(contents), js_parser.Options{})
		msgs := done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("Parse error")
		}
		js := Print(tree, options)
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, contents, expected, Options{})
}

func expectPrintedMinify(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [minified]", contents, expected, Options{
		MinifyWhitespace: true,
	})
}

func expectPrintedASCII(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [ascii]", contents, expected, Options{
		ASCIIOnly: true,
	})
}

func TestNumber(t *testing.T) {
	expectPrinted(t, "x = 0", "x = 0;\n")
	expectPrinted(t, "x = 123456789", "x = 123456789;\n")
	expectPrinted(t, "x = 1000", "x = 1000;\n")
	expectPrinted(t, "x = 1e3", "x = 1000;\n")
	expectPrinted(t, "x = 0.5", "x = 0.5;\n")
	expectPrinted(t, "x = 0.001", "x = 0.001;\n")
	expectPrinted(t, "x = 1e-6", "x = 0.000001;\n")
	expectPrinted(t, "x = 1e-7", "x = 1e-7;\n")
	expectPrinted(t, "x = 1.5e-7", "x = 1.5e-7;\n")
	expectPrinted(t, "x = 1.5e21", "x = 1.5e+21;\n")
	expectPrinted(t, "x = 0x10", "x = 16;\n")
	expectPrinted(t, "x = 1e400", "x = Infinity;\n")
	expectPrinted(t, "x = -1e400", "x = -Infinity;\n")
	expectPrinted(t, "x = -1", "x = -1;\n")
	expectPrinted(t, "x = (-1).toString()", "x = (-1).toString();\n")
	expectPrinted(t, "x = 10n", "x = 10n;\n")
	expectPrinted(t, "x = 1_000n", "x = 1000n;\n")

	expectPrintedMinify(t, "x = 0.5", "x=.5;")
	expectPrintedMinify(t, "x = 1e3", "x=1e3;")
	expectPrintedMinify(t, "x = 100", "x=100;")
	expectPrintedMinify(t, "x = 1.5e21", "x=1.5e21;")
}

func TestFormatNumber(t *testing.T) {
	for _, c := range []struct {
		value  float64
		minify bool
		want   string
	}{
		{0, false, "0"},
		{1, false, "1"},
		{0.1, false, "0.1"},
		{1e20, false, "100000000000000000000"},
		{1e21, false, "1e+21"},
		{1.25e-8, false, "1.25e-8"},
		{0.000001, false, "0.000001"},
		{0.25, true, ".25"},
		{1e21, true, "1e21"},
		{12000, true, "12e3"},
		{1200, true, "1200"},
	} {
		test.AssertEqual(t, formatNumber(c.value, c.minify), c.want)
	}
}

func TestString(t *testing.T) {
	expectPrinted(t, "x = 'abc'", "x = \"abc\";\n")
	expectPrinted(t, "x = 'a\"b'", "x = 'a\"b';\n")
	expectPrinted(t, "x = 'a\"b\\'c'", "x = `a\"b'c`;\n")
	expectPrinted(t, "x = '\\n'", "x = \"\\n\";\n")
	expectPrinted(t, "x = '\\0'", "x = \"\\0\";\n")
	expectPrinted(t, "x = '\\x001'", "x = \"\\x001\";\n")
	expectPrinted(t, "x = '\\uFEFF'", "x = \"\\uFEFF\";\n")
	expectPrinted(t, "x = '\\u2028\\u2029'", "x = \"\\u2028\\u2029\";\n")

	expectPrintedASCII(t, "x = 'ϐ'", "x = \"\\u03D0\";\n")
	expectPrintedASCII(t, "x = '\\u{10000}'", "x = \"\\u{10000}\";\n")
	expectPrintedASCII(t, "ϐ = 1", "\\u03D0 = 1;\n")
}

func TestTemplate(t *testing.T) {
	expectPrinted(t, "x = `a${b}c`", "x = `a${b}c`;\n")
	expectPrinted(t, "x = `\\n${b}`", "x = `\\n${b}`;\n")
	expectPrinted(t, "tag`a`", "tag`a`;\n")
	expectPrinted(t, "(a?.b)`c`", "(a?.b)`c`;\n")
}

func TestObject(t *testing.T) {
	expectPrinted(t, "x = {}", "x = {};\n")
	expectPrinted(t, "x = {a: 1, b}", "x = { a: 1, b };\n")
	expectPrinted(t, "x = {'a-b': 1, [c]: 2, ...d}", "x = { \"a-b\": 1, [c]: 2, ...d };\n")
	expectPrinted(t, "x = {get a() {}, set a(v) {}}", "x = { get a() {\n}, set a(v) {\n} };\n")
	expectPrinted(t, "x = {async *a() {}}", "x = { async *a() {\n} };\n")
	expectPrinted(t, "({a} = b)", "({ a } = b);\n")
	expectPrinted(t, "({a = 1} = b)", "({ a = 1 } = b);\n")
	expectPrinted(t, "x = () => ({})", "x = () => ({});\n")

	expectPrintedMinify(t, "x = {a: 1, b}", "x={a:1,b};")
}

func TestArray(t *testing.T) {
	expectPrinted(t, "x = []", "x = [];\n")
	expectPrinted(t, "x = [1, , 2]", "x = [1, , 2];\n")
	expectPrinted(t, "x = [1, ,]", "x = [1, ,];\n")
	expectPrinted(t, "x = [...a]", "x = [...a];\n")
}

func TestBinding(t *testing.T) {
	expectPrinted(t, "let [a, b = 1, ...c] = d", "let [a, b = 1, ...c] = d;\n")
	expectPrinted(t, "let {a, b: c, [d]: e, ...f} = g", "let { a, b: c, [d]: e, ...f } = g;\n")
	expectPrinted(t, "let {a = 1} = b", "let { a = 1 } = b;\n")
	expectPrinted(t, "let [, a] = b", "let [, a] = b;\n")
}

func TestOptionalChain(t *testing.T) {
	expectPrinted(t, "a?.b.c", "a?.b.c;\n")
	expectPrinted(t, "(a?.b).c", "(a?.b).c;\n")
	expectPrinted(t, "a?.[b]", "a?.[b];\n")
	expectPrinted(t, "a?.()", "a?.();\n")
	expectPrinted(t, "a?.b()", "a?.b();\n")
	expectPrinted(t, "(a?.b)()", "(a?.b)();\n")
}

func TestOperators(t *testing.T) {
	expectPrinted(t, "a, b", "a, b;\n")
	expectPrinted(t, "a = b = c", "a = b = c;\n")
	expectPrinted(t, "(a + b) * c", "(a + b) * c;\n")
	expectPrinted(t, "a + (b + c)", "a + (b + c);\n")
	expectPrinted(t, "a ? b : c ? d : e", "a ? b : c ? d : e;\n")
	expectPrinted(t, "typeof x", "typeof x;\n")
	expectPrinted(t, "void 0", "void 0;\n")
	expectPrinted(t, "a in b", "a in b;\n")
	expectPrinted(t, "x = (-a) ** 2", "x = (-a) ** 2;\n")
	expectPrinted(t, "x = a ** b ** c", "x = a ** b ** c;\n")
	expectPrinted(t, "a ?? (b || c)", "a ?? (b || c);\n")
	expectPrinted(t, "x++", "x++;\n")
	expectPrinted(t, "--x", "--x;\n")

	expectPrintedMinify(t, "a + +b", "a+ +b;")
	expectPrintedMinify(t, "a - -b", "a- -b;")
	expectPrintedMinify(t, "a + ++b", "a+ ++b;")
	expectPrintedMinify(t, "typeof x", "typeof x;")
}

func TestNew(t *testing.T) {
	expectPrinted(t, "new Foo", "new Foo();\n")
	expectPrinted(t, "new Foo(a, b)", "new Foo(a, b);\n")
	expectPrinted(t, "new (foo())()", "new (foo())();\n")
	expectPrinted(t, "new.target", "new.target;\n")
	expectPrintedMinify(t, "new Foo", "new Foo;")
}

func TestFunction(t *testing.T) {
	expectPrinted(t, "function foo() {}", "function foo() {\n}\n")
	expectPrinted(t, "function* foo() {}", "function* foo() {\n}\n")
	expectPrinted(t, "async function foo() { await x }", "async function foo() {\n  await x;\n}\n")
	expectPrinted(t, "function foo(a = 1, ...b) { return a }", "function foo(a = 1, ...b) {\n  return a;\n}\n")
	expectPrinted(t, "(function() {})", "(function() {\n});\n")
	expectPrinted(t, "x = function* () { yield* a }", "x = function* () {\n  yield* a;\n};\n")

	expectPrintedMinify(t, "x = (a) => a", "x=a=>a;")
	expectPrintedMinify(t, "x = (a, b) => a", "x=(a,b)=>a;")
}

func TestArrow(t *testing.T) {
	expectPrinted(t, "x = a => a", "x = (a) => a;\n")
	expectPrinted(t, "x = async (a) => { a }", "x = async (a) => {\n  a;\n};\n")
	expectPrinted(t, "x = (a, b) => (a, b)", "x = (a, b) => (a, b);\n")
}

func TestClass(t *testing.T) {
	expectPrinted(t, "class A {}", "class A {\n}\n")
	expectPrinted(t, "class A extends B { constructor() { super() } }",
		"class A extends B {\n  constructor() {\n    super();\n  }\n}\n")
	expectPrinted(t, "class A { #x = 1; m() { return this.#x } }",
		"class A {\n  #x = 1;\n  m() {\n    return this.#x;\n  }\n}\n")
	expectPrinted(t, "class A { static a; static get b() {} }",
		"class A {\n  static a;\n  static get b() {\n  }\n}\n")
	expectPrinted(t, "x = class {}", "x = class {\n};\n")
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "let x = 1, y", "let x = 1, y;\n")
	expectPrinted(t, "for (;;) ;", "for (; ; )\n  ;\n")
	expectPrinted(t, "for (let i = 0; i < 1; i++) {}", "for (let i = 0; i < 1; i++) {\n}\n")
	expectPrinted(t, "for (a in b) {}", "for (a in b) {\n}\n")
	expectPrinted(t, "for (const a of b) {}", "for (const a of b) {\n}\n")
	expectPrinted(t, "while (a) b()", "while (a)\n  b();\n")
	expectPrinted(t, "do a(); while (b)", "do\n  a();\nwhile (b);\n")
	expectPrinted(t, "if (a) b; else c", "if (a)\n  b;\nelse\n  c;\n")
	expectPrinted(t, "if (a) { b } else { c }", "if (a) {\n  b;\n} else {\n  c;\n}\n")
	expectPrinted(t, "if (a) { if (b) c } else d", "if (a) {\n  if (b)\n    c;\n} else\n  d;\n")
	expectPrinted(t, "switch (x) { case 1: a; break; default: b }",
		"switch (x) {\n  case 1:\n    a;\n    break;\n  default:\n    b;\n}\n")
	expectPrinted(t, "try { a } catch (e) { b } finally { c }",
		"try {\n  a;\n} catch (e) {\n  b;\n} finally {\n  c;\n}\n")
	expectPrinted(t, "try { a } catch { b }", "try {\n  a;\n} catch {\n  b;\n}\n")
	expectPrinted(t, "foo: for (;;) break foo", "foo:\n  for (; ; )\n    break foo;\n")
	expectPrinted(t, "throw a", "throw a;\n")
	expectPrinted(t, "debugger", "debugger;\n")

	expectPrintedMinify(t, "let x = 1; let y = 2", "let x=1;let y=2;")
	expectPrintedMinify(t, "if (a) { b; c }", "if(a){b;c}")
}

func TestDirectiveAndHashbang(t *testing.T) {
	expectPrinted(t, "'use strict'; x", "\"use strict\";\nx;\n")
	expectPrinted(t, "#!/usr/bin/env node\nx", "#!/usr/bin/env node\nx;\n")
}

func TestImport(t *testing.T) {
	expectPrinted(t, "import 'x'", "import \"x\";\n")
	expectPrinted(t, "import a from 'x'", "import a from \"x\";\n")
	expectPrinted(t, "import {a as b, c} from 'x'", "import { a as b, c } from \"x\";\n")
	expectPrinted(t, "import {'a-b' as c} from 'x'", "import { \"a-b\" as c } from \"x\";\n")
	expectPrinted(t, "import * as ns from 'x'", "import * as ns from \"x\";\n")
	expectPrinted(t, "import d, {a} from 'x'", "import d, { a } from \"x\";\n")
	expectPrinted(t, "import d, * as ns from 'x'", "import d, * as ns from \"x\";\n")
	expectPrinted(t, "import('x')", "import(\"x\");\n")
	expectPrinted(t, "import.meta", "import.meta;\n")

	expectPrintedMinify(t, "import {a as b, c} from 'x'", "import{a as b,c}from\"x\";")
}

func TestExport(t *testing.T) {
	expectPrinted(t, "let a; export {a as b}", "let a;\nexport { a as b };\n")
	expectPrinted(t, "let a; export {a as 'b-c'}", "let a;\nexport { a as \"b-c\" };\n")
	expectPrinted(t, "export {a} from 'x'", "export { a } from \"x\";\n")
	expectPrinted(t, "export {default as x} from 'y'", "export { default as x } from \"y\";\n")
	expectPrinted(t, "export * from 'x'", "export * from \"x\";\n")
	expectPrinted(t, "export * as ns from 'x'", "export * as ns from \"x\";\n")
	expectPrinted(t, "export default function() {}", "export default function() {\n}\n")
	expectPrinted(t, "export default class {}", "export default class {\n}\n")
	expectPrinted(t, "export default 1", "export default 1;\n")
	expectPrinted(t, "export default (function() {})", "export default (function() {\n});\n")
	expectPrinted(t, "export const a = 1", "export const a = 1;\n")
	expectPrinted(t, "export function f() {}", "export function f() {\n}\n")
}
