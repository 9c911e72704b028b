package logger

import (
	"testing"
)

func assertEqual(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a != b {
		t.Fatalf("%v != %v", a, b)
	}
}

func TestMsgCounts(t *testing.T) {
	assertEqual(t, MsgCounts{}.String(), "no errors")
	assertEqual(t, MsgCounts{Errors: 1}.String(), "1 error")
	assertEqual(t, MsgCounts{Warnings: 2}.String(), "2 warnings")
	assertEqual(t, MsgCounts{Errors: 2, Warnings: 1}.String(), "1 warning and 2 errors")
}

func TestComputeLineAndColumn(t *testing.T) {
	expect := func(text string, line int, column int) {
		t.Helper()
		lineCount, columnCount, _ := ComputeLineAndColumn(text)
		assertEqual(t, lineCount, line)
		assertEqual(t, columnCount, column)
	}

	expect("", 0, 0)
	expect("abc", 0, 3)
	expect("a\nbc", 1, 2)
	expect("a\r\nbc", 1, 2)
	expect("a\rb\nc", 2, 1)
	expect("a\u2028bc", 1, 2)
}

func TestMsgString(t *testing.T) {
	source := Source{PrettyPath: "file.js", Contents: "let x = R[name];\n"}
	msg := Msg{Source: source, Start: 8, Length: 7, Text: "Cannot rewrite this", Kind: Error}

	assertEqual(t, msg.String(StderrOptions{IncludeSource: true}, TerminalInfo{}),
		"file.js:1:8: error: Cannot rewrite this\nlet x = R[name];\n        ~~~~~~~\n")
	assertEqual(t, msg.String(StderrOptions{}, TerminalInfo{}),
		"file.js: error: Cannot rewrite this\n")
	assertEqual(t, Msg{Text: "no file", Kind: Warning}.String(StderrOptions{}, TerminalInfo{}),
		"warning: no file\n")
}

func TestMsgStringTabsAndWidth(t *testing.T) {
	source := Source{PrettyPath: "file.js", Contents: "\tfoo(bar)"}
	msg := Msg{Source: source, Start: 5, Length: 3, Text: "here"}
	assertEqual(t, msg.String(StderrOptions{IncludeSource: true}, TerminalInfo{}),
		"file.js:1:5: error: here\n  foo(bar)\n      ~~~\n")

	long := Msg{Source: Source{PrettyPath: "long.js", Contents: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaX"}, Start: 40, Length: 1}
	detail := detailStruct(long, TerminalInfo{Width: 20})
	assertEqual(t, len(detail.Source), 20)
	assertEqual(t, detail.SourceMarked, "X")
}

func TestRangeOfString(t *testing.T) {
	source := Source{Contents: `import x from "ramda\"s"; y`}
	r := source.RangeOfString(Loc{Start: 14})
	assertEqual(t, source.TextForRange(r), `"ramda\"s"`)
	assertEqual(t, source.RangeOfString(Loc{Start: 0}).Len, int32(0))
}

func TestDeferLog(t *testing.T) {
	log, done := NewDeferLog()
	source := Source{PrettyPath: "a.js", Contents: "abc"}
	log.AddError(source, Loc{Start: 1}, "first")
	log.AddRangeWarning(source, Range{Loc: Loc{Start: 0}, Len: 3}, "second")
	msgs := done()

	assertEqual(t, len(msgs), 2)
	assertEqual(t, msgs[0].Kind, Error)
	assertEqual(t, msgs[0].Text, "first")
	assertEqual(t, msgs[1].Kind, Warning)
	assertEqual(t, msgs[1].Detail().SourceMarked, "abc")
}

func TestLogLevel(t *testing.T) {
	assertEqual(t, LevelInfo.allows(Warning), true)
	assertEqual(t, LevelWarning.allows(Warning), true)
	assertEqual(t, LevelError.allows(Warning), false)
	assertEqual(t, LevelError.allows(Error), true)
	assertEqual(t, LevelSilent.allows(Error), false)
}
