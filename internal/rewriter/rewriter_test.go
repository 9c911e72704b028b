package rewriter

import (
	"errors"
	"testing"

	"github.com/jsrewrite/ramdacut/internal/js_parser"
	"github.com/jsrewrite/ramdacut/internal/js_printer"
	"github.com/jsrewrite/ramdacut/internal/logger"
	"github.com/jsrewrite/ramdacut/internal/resolver"
	"github.com/jsrewrite/ramdacut/internal/test"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Parses, rewrites and prints "contents". Returns the printed output and the
// text of every logged error.
func rewrite(t *testing.T, contents string, options Options) (js string, text string, err error) {
	t.Helper()
	log, done := logger.NewDeferLog()
	source := test.SourceForTest(contents)
	tree, ok := js_parser.Parse(log, source, js_parser.Options{})
	if !ok {
		for _, msg := range done() {
			t.Log(msg.String(logger.StderrOptions{}, logger.TerminalInfo{}))
		}
		t.Fatal("Parse error")
	}
	err = Rewrite(log, source, &tree, options)
	for _, msg := range done() {
		if msg.Kind != logger.Warning {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
	}
	if err == nil {
		js = string(js_printer.Print(tree, js_printer.Options{}))
	}
	return
}

func expectRewrittenCommon(t *testing.T, contents string, expected string, options Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		js, text, err := rewrite(t, contents, options)
		test.AssertEqualWithDiff(t, text, "")
		if err != nil {
			t.Fatal(err)
		}
		test.AssertEqualWithDiff(t, js, expected)
	})
}

func expectRewritten(t *testing.T, contents string, expected string) {
	t.Helper()
	expectRewrittenCommon(t, contents, expected, Options{})
}

func expectRewriteError(t *testing.T, contents string, kind ErrorKind, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		_, text, err := rewrite(t, contents, Options{})
		test.AssertEqualWithDiff(t, text, expected)
		var rewriteErr *Error
		if !errors.As(err, &rewriteErr) {
			t.Fatalf("Expected a rewrite error, got %v", err)
		}
		test.AssertEqual(t, rewriteErr.Kind, kind)
	})
}

func TestEndToEnd(t *testing.T) {
	expectRewritten(t, "import { add, map } from 'ramda'; map(add(1), [1,2,3]);",
		`import _map from "ramda/src/map";
import _add from "ramda/src/add";
_map(_add(1), [1, 2, 3]);
`)

	expectRewritten(t, "import * as R from 'ramda'; R.add(1,2);",
		`import _add from "ramda/src/add";
_add(1, 2);
`)

	expectRewritten(t, "export { add } from 'ramda';",
		`import _add from "ramda/src/add";
export { _add as add };
`)

	expectRewriteError(t, "export * from 'ramda';", UnsupportedPattern,
		"<stdin>: error: Wildcard re-export of \"ramda\" cannot be rewritten into per-function imports\n")

	expectRewritten(t, "import { add } from 'ramda'; function f(add) { return add(1,2); }",
		`function f(add) {
  return add(1, 2);
}
`)
	expectRewritten(t, "import { add } from 'ramda'; function f(add) { return add(1,2); } add(3, 4)",
		`import _add from "ramda/src/add";
function f(add) {
  return add(1, 2);
}
_add(3, 4);
`)
}

func TestLibraryAlias(t *testing.T) {
	expectRewritten(t, "import R from 'ramda'; R.map(R.inc, xs)",
		`import _map from "ramda/src/map";
import _inc from "ramda/src/inc";
_map(_inc, xs);
`)
	expectRewritten(t, "import { default as R } from 'ramda'; R.inc(1)",
		`import _inc from "ramda/src/inc";
_inc(1);
`)
	expectRewritten(t, "import * as R from 'ramda'; R['inc'](1)",
		`import _inc from "ramda/src/inc";
_inc(1);
`)
	expectRewritten(t, "import * as R from 'ramda'; R?.inc(1)",
		`import _inc from "ramda/src/inc";
_inc(1);
`)
	expectRewritten(t, "import * as R from 'ramda'; x = R.__",
		`import ___ from "ramda/src/__";
x = ___;
`)

	// Nothing is left for the bare alias to refer to
	expectRewritten(t, "import * as R from 'ramda'; x = R", "x = null;\n")
	expectRewritten(t, "import * as R from 'ramda'; f(...R)", "f(...null);\n")
	expectRewritten(t, "import * as R from 'ramda'; x = {R}", "x = { R: null };\n")
}

func TestFunctionAlias(t *testing.T) {
	expectRewritten(t, "import { add as plus } from 'ramda'; plus(1)",
		`import _add from "ramda/src/add";
_add(1);
`)
	expectRewritten(t, "import { add } from 'ramda'; x = add",
		`import _add from "ramda/src/add";
x = _add;
`)
	expectRewritten(t, "import { add } from 'ramda'; x = add.length",
		`import _add from "ramda/src/add";
x = _add.length;
`)
	expectRewritten(t, "import { inc, map } from 'ramda'; map(inc, xs)",
		`import _map from "ramda/src/map";
import _inc from "ramda/src/inc";
_map(_inc, xs);
`)
	expectRewritten(t, "import { inc } from 'ramda'; x = [inc, () => inc(1)]",
		`import _inc from "ramda/src/inc";
x = [_inc, () => _inc(1)];
`)
}

func TestObjectProperties(t *testing.T) {
	expectRewritten(t, "import { add } from 'ramda'; x = {add}",
		`import _add from "ramda/src/add";
x = { add: _add };
`)
	expectRewritten(t, "import { add } from 'ramda'; x = {plus: add}",
		`import _add from "ramda/src/add";
x = { plus: _add };
`)
	expectRewritten(t, "import { add } from 'ramda'; x = {[add]: 1}",
		`import _add from "ramda/src/add";
x = { [_add]: 1 };
`)

	// Keys that only share a name with an import are left alone
	expectRewritten(t, "import { add } from 'ramda'; x = {add: 1}.add", "x = { add: 1 }.add;\n")
}

func TestShadowing(t *testing.T) {
	expectRewritten(t, "import { add } from 'ramda'; { let add = 1; add }", "{\n  let add = 1;\n  add;\n}\n")
	expectRewritten(t, "import { add } from 'ramda'; try {} catch (add) { add() }", "try {\n} catch (add) {\n  add();\n}\n")
	expectRewritten(t, "import * as R from 'ramda'; (R => R.add)(x)", "((R) => R.add)(x);\n")
	expectRewritten(t, "import * as R from 'ramda'; function f() { var R = {}; return R.add }",
		`function f() {
  var R = {};
  return R.add;
}
`)
	expectRewritten(t, "import { add } from 'ramda'; x = class add { f() { return add } }",
		`x = class add {
  f() {
    return add;
  }
};
`)
	expectRewritten(t, "import { add } from 'ramda'; x = () => { let y = add; { const add = 1; y(add) } }",
		`import _add from "ramda/src/add";
x = () => {
  let y = _add;
  {
    const add = 1;
    y(add);
  }
};
`)
}

func TestExports(t *testing.T) {
	expectRewritten(t, "export { add as plus, map } from 'ramda'",
		`import _add from "ramda/src/add";
import _map from "ramda/src/map";
export { _add as plus, _map as map };
`)
	expectRewritten(t, "import { add } from 'ramda'; export { add }",
		`import _add from "ramda/src/add";
export { _add as add };
`)
	expectRewritten(t, "import { add } from 'ramda'; export { add as plus }",
		`import _add from "ramda/src/add";
export { _add as plus };
`)
	expectRewritten(t, "import { add } from 'ramda'; export default add",
		`import _add from "ramda/src/add";
export default _add;
`)
	expectRewritten(t, "import R from 'ramda'; export const inc = R.inc",
		`import _inc from "ramda/src/inc";
export const inc = _inc;
`)
}

func TestInjectedImports(t *testing.T) {
	// One import per function no matter how it was reached
	expectRewritten(t, "import R from 'ramda'; import { add } from 'ramda'; R.add(add(1))",
		`import _add from "ramda/src/add";
_add(_add(1));
`)

	// Generated names avoid every name in the unit
	expectRewritten(t, "import R from 'ramda'; const _add = 1; R.add(_add)",
		`import _add2 from "ramda/src/add";
const _add = 1;
_add2(_add);
`)
	expectRewritten(t, "import R from 'ramda'; function f(_add, _add2) { return R.add }",
		`import _add3 from "ramda/src/add";
function f(_add, _add2) {
  return _add3;
}
`)

	// After the directive prologue
	expectRewritten(t, "'use strict'; import R from 'ramda'; R.inc(1)",
		`"use strict";
import _inc from "ramda/src/inc";
_inc(1);
`)
	expectRewritten(t, "#!/usr/bin/env node\nimport R from 'ramda'; R.inc(1)",
		`#!/usr/bin/env node
import _inc from "ramda/src/inc";
_inc(1);
`)

	// Unused imports are simply dropped
	expectRewritten(t, "import R, { add } from 'ramda'; x", "x;\n")
	expectRewritten(t, "import 'ramda'; x", "x;\n")
}

func TestNoop(t *testing.T) {
	expectRewritten(t, "import R from 'lodash'; R.add(1)", "import R from \"lodash\";\nR.add(1);\n")
	expectRewritten(t, "import add from 'ramda/src/add'; add(1)", "import add from \"ramda/src/add\";\nadd(1);\n")

	// Dynamic imports and require calls are not rewritten
	expectRewritten(t, "import('ramda')", "import(\"ramda\");\n")
	expectRewritten(t, "const R = require('ramda'); R.add(1)", "const R = require(\"ramda\");\nR.add(1);\n")
}

func TestIdempotent(t *testing.T) {
	contents := "import * as R from 'ramda'; import { map } from 'ramda'; map(R.add(1), xs)"
	first, text, err := rewrite(t, contents, Options{})
	test.AssertEqualWithDiff(t, text, "")
	if err != nil {
		t.Fatal(err)
	}
	second, text, err := rewrite(t, first, Options{})
	test.AssertEqualWithDiff(t, text, "")
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqualWithDiff(t, second, first)
}

func TestOptions(t *testing.T) {
	expectRewrittenCommon(t, "import R from 'ramda'; R.inc(1)",
		`import _inc from "ramda/es/inc";
_inc(1);
`, Options{Resolver: resolver.NewResolver(resolver.ResolveOptions{UseES: true})})

	expectRewrittenCommon(t, "import R from 'rambda'; import S from 'ramda'; R.inc(1)",
		`import _inc from "rambda/src/inc";
import S from "ramda";
_inc(1);
`, Options{
			Library:  "rambda",
			Resolver: resolver.NewResolver(resolver.ResolveOptions{Library: "rambda"}),
		})
}

func TestErrors(t *testing.T) {
	expectRewriteError(t, "export * as R from 'ramda'", UnsupportedPattern,
		"<stdin>: error: Wildcard re-export of \"ramda\" cannot be rewritten into per-function imports\n")
	expectRewriteError(t, "import * as R from 'ramda'; R[name]", UnsupportedPattern,
		"<stdin>: error: Computed access on \"R\" must use a string literal\n")
	expectRewriteError(t, "import * as R from 'ramda'; export { R }", UnsupportedPattern,
		"<stdin>: error: Cannot re-export \"R\" because the whole library is no longer imported\n")
	expectRewriteError(t, "import R from 'ramda'; R = 1", UnsupportedPattern,
		"<stdin>: error: Cannot assign to \"R\" because the whole library is no longer imported\n")
	expectRewriteError(t, "import R from 'ramda'; R += 1", UnsupportedPattern,
		"<stdin>: error: Cannot assign to \"R\" because the whole library is no longer imported\n")
	expectRewriteError(t, "import * as R from 'ramda'; R++", UnsupportedPattern,
		"<stdin>: error: Cannot assign to \"R\" because the whole library is no longer imported\n")
	expectRewriteError(t, "import * as R from 'ramda'; --R", UnsupportedPattern,
		"<stdin>: error: Cannot assign to \"R\" because the whole library is no longer imported\n")
	expectRewriteError(t, "import R from 'ramda'; [a, R] = xs", UnsupportedPattern,
		"<stdin>: error: Cannot assign to \"R\" because the whole library is no longer imported\n")
	expectRewriteError(t, "import R from 'ramda'; ({ x: R } = obj)", UnsupportedPattern,
		"<stdin>: error: Cannot assign to \"R\" because the whole library is no longer imported\n")
	expectRewriteError(t, "import R from 'ramda'; for (R of xs) ;", UnsupportedPattern,
		"<stdin>: error: Cannot assign to \"R\" because the whole library is no longer imported\n")

	// Writing to a shadowing local is fine
	expectRewritten(t, "import R from 'ramda'; function f(R) { R = 1 } R.add(1, 2)",
		"import _add from \"ramda/src/add\";\nfunction f(R) {\n  R = 1;\n}\n_add(1, 2);\n")
	expectRewriteError(t, "import * as R from 'ramda'; R.notAFunction(1)", UnresolvableName,
		"<stdin>: error: Could not resolve \"notAFunction\" as a function exported by \"ramda\"\n")
	expectRewriteError(t, "import { nope } from 'ramda'; nope()", UnresolvableName,
		"<stdin>: error: Could not resolve \"nope\" as a function exported by \"ramda\"\n")
	expectRewriteError(t, "export { nope } from 'ramda'", UnresolvableName,
		"<stdin>: error: Could not resolve \"nope\" as a function exported by \"ramda\"\n")

	// Unused imports of unknown names are never resolved
	expectRewritten(t, "import { nope } from 'ramda'; x", "x;\n")
}

func TestErrorRange(t *testing.T) {
	contents := "import * as R from 'ramda';\nR.notAFunction(1)"
	log, done := logger.NewDeferLog()
	source := test.SourceForTest(contents)
	tree, ok := js_parser.Parse(log, source, js_parser.Options{})
	if !ok {
		t.Fatal("Parse error")
	}
	err := Rewrite(log, source, &tree, Options{})
	done()
	var rewriteErr *Error
	if !errors.As(err, &rewriteErr) {
		t.Fatalf("Expected a rewrite error, got %v", err)
	}
	test.AssertEqual(t, source.TextForRange(rewriteErr.Range), "notAFunction")
	test.AssertEqual(t, err.Error(), "unresolvable name: Could not resolve \"notAFunction\" as a function exported by \"ramda\"")
}

func TestOperationalLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	options := Options{Logger: zap.New(core)}

	_, _, err := rewrite(t, "import R, { add } from 'ramda'; import S from 'ramda'; R.inc(add(R.inc(1)))", options)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, logs.FilterMessage("removed library import").Len(), 2)
	test.AssertEqual(t, logs.FilterMessage("injected import").Len(), 2)
	test.AssertEqual(t, logs.FilterMessage("rewrote unit").Len(), 1)

	unused := logs.FilterMessage("library import has no uses").All()
	test.AssertEqual(t, len(unused), 1)
	test.AssertEqual(t, unused[0].ContextMap()["name"], "S")

	_, _, err = rewrite(t, "x", options)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, logs.FilterMessage("library not referenced").Len(), 1)
}
