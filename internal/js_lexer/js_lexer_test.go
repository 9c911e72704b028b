package js_lexer

import (
	"math"
	"testing"

	"github.com/jsrewrite/ramdacut/internal/helpers"
	"github.com/jsrewrite/ramdacut/internal/logger"
	"github.com/jsrewrite/ramdacut/internal/test"
)

func lexToken(t *testing.T, contents string) T {
	log, done := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest(contents))
	done()
	return lexer.Token
}

func expectLexerError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log, done := logger.NewDeferLog()
		func() {
			defer func() {
				r := recover()
				if _, isLexerPanic := r.(LexerPanic); r != nil && !isLexerPanic {
					panic(r)
				}
			}()
			lexer := NewLexer(log, test.SourceForTest(contents))
			for lexer.Token != TEndOfFile {
				lexer.Next()
			}
		}()
		msgs := done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqual(t, text, expected)
	})
}

func TestComment(t *testing.T) {
	expectLexerError(t, "/*", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/*/", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/**/", "")
	expectLexerError(t, "//", "")
	expectLexerError(t, "a // b\nc", "")
}

func expectHashbang(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log, done := logger.NewDeferLog()
		lexer := NewLexer(log, test.SourceForTest(contents))
		msgs := done()
		test.AssertEqual(t, len(msgs), 0)
		test.AssertEqual(t, lexer.Token, THashbang)
		test.AssertEqual(t, lexer.Identifier, expected)
	})
}

func TestHashbang(t *testing.T) {
	expectHashbang(t, "#!/usr/bin/env node", "#!/usr/bin/env node")
	expectHashbang(t, "#!/usr/bin/env node\n", "#!/usr/bin/env node")
	expectHashbang(t, "#!/usr/bin/env node\nlet x", "#!/usr/bin/env node")
	expectLexerError(t, " #!/usr/bin/env node", "<stdin>: error: Syntax error \"!\"\n")
}

func expectIdentifier(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log, done := logger.NewDeferLog()
		lexer := NewLexer(log, test.SourceForTest(contents))
		msgs := done()
		test.AssertEqual(t, len(msgs), 0)
		test.AssertEqual(t, lexer.Token, TIdentifier)
		test.AssertEqual(t, lexer.Identifier, expected)
	})
}

func TestIdentifier(t *testing.T) {
	expectIdentifier(t, "_", "_")
	expectIdentifier(t, "$", "$")
	expectIdentifier(t, "add", "add")
	expectIdentifier(t, "R", "R")
	expectIdentifier(t, "ünicode", "ünicode")
	expectIdentifier(t, "\\u0061dd", "add")
	expectIdentifier(t, "\\u{61}dd", "add")
	expectIdentifier(t, "a\\u0062c", "abc")

	test.AssertEqual(t, lexToken(t, "let"), TIdentifier)
	test.AssertEqual(t, lexToken(t, "from"), TIdentifier)
	test.AssertEqual(t, lexToken(t, "import"), TImport)
	test.AssertEqual(t, lexToken(t, "\\u0069mport"), TEscapedKeyword)
	test.AssertEqual(t, lexToken(t, "#field"), TPrivateIdentifier)

	expectLexerError(t, "\\u0030x", "<stdin>: error: Invalid identifier: \"0x\"\n")
	expectLexerError(t, "\\x61", "<stdin>: error: Syntax error \"x\"\n")
}

func TestIsIdentifier(t *testing.T) {
	test.AssertEqual(t, IsIdentifier(""), false)
	test.AssertEqual(t, IsIdentifier("add"), true)
	test.AssertEqual(t, IsIdentifier("_add2"), true)
	test.AssertEqual(t, IsIdentifier("2add"), false)
	test.AssertEqual(t, IsIdentifier("a-b"), false)
	test.AssertEqual(t, IsIdentifier("π"), true)
}

func expectNumber(t *testing.T, contents string, expected float64) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log, done := logger.NewDeferLog()
		lexer := NewLexer(log, test.SourceForTest(contents))
		msgs := done()
		test.AssertEqual(t, len(msgs), 0)
		test.AssertEqual(t, lexer.Token, TNumericLiteral)
		test.AssertEqual(t, lexer.Number, expected)
	})
}

func TestNumericLiteral(t *testing.T) {
	expectNumber(t, "0", 0)
	expectNumber(t, "123", 123)
	expectNumber(t, "1_000", 1000)
	expectNumber(t, ".5", 0.5)
	expectNumber(t, "1.", 1)
	expectNumber(t, "1e3", 1000)
	expectNumber(t, "1.5E-1", 0.15)
	expectNumber(t, "0x10", 16)
	expectNumber(t, "0XfF", 255)
	expectNumber(t, "0b101", 5)
	expectNumber(t, "0o17", 15)
	expectNumber(t, "017", 15)
	expectNumber(t, "019", 19)
	expectNumber(t, "0x1_0", 16)
	expectNumber(t, "1e400", math.Inf(1))

	expectLexerError(t, "1__0", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1_", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "0b2", "<stdin>: error: Syntax error \"2\"\n")
	expectLexerError(t, "0x", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "1e", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "3in x", "<stdin>: error: Syntax error \"i\"\n")
}

func TestBigInt(t *testing.T) {
	log, done := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest("1_000n"))
	done()
	test.AssertEqual(t, lexer.Token, TBigIntegerLiteral)
	test.AssertEqual(t, lexer.Identifier, "1000")

	expectLexerError(t, "1.5n", "<stdin>: error: Syntax error \"n\"\n")
}

func expectString(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log, done := logger.NewDeferLog()
		lexer := NewLexer(log, test.SourceForTest(contents))
		msgs := done()
		test.AssertEqual(t, len(msgs), 0)
		test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), expected)
	})
}

func TestStringLiteral(t *testing.T) {
	expectString(t, "'ramda'", "ramda")
	expectString(t, "\"ramda/src/add\"", "ramda/src/add")
	expectString(t, "'\\n\\t\\b\\f\\v\\r'", "\n\t\b\f\v\r")
	expectString(t, "'\\x41\\u0042\\u{43}'", "ABC")
	expectString(t, "'\\101'", "A")
	expectString(t, "'\\0'", "\x00")
	expectString(t, "'a\\\nb'", "ab")
	expectString(t, "'a\\\r\nb'", "ab")
	expectString(t, "'\\u{1F600}'", "😀")
	expectString(t, "'ü'", "ü")
	expectString(t, "'\\''", "'")

	expectLexerError(t, "'abc", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "'a\nb'", "<stdin>: error: Unterminated string literal\n")
	expectLexerError(t, "'\\x4'", "<stdin>: error: Syntax error \"'\"\n")
	expectLexerError(t, "'\\u{110000}'", "<stdin>: error: Unicode escape sequence is out of range\n")

	test.AssertEqual(t, len(stringLiteralFor(t, "'\\u{1F600}'")), 2)
}

func stringLiteralFor(t *testing.T, contents string) []uint16 {
	log, done := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest(contents))
	done()
	return lexer.StringLiteral
}

func TestTemplate(t *testing.T) {
	log, done := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest("`a${b}c\\n${d}e`"))
	test.AssertEqual(t, lexer.Token, TTemplateHead)
	test.AssertEqual(t, lexer.RawTemplateContents(), "a")
	lexer.Next()
	test.AssertEqual(t, lexer.Identifier, "b")
	lexer.Next()
	lexer.RescanCloseBraceAsTemplateToken()
	test.AssertEqual(t, lexer.Token, TTemplateMiddle)
	test.AssertEqual(t, lexer.RawTemplateContents(), "c\\n")
	test.AssertEqual(t, helpers.UTF16ToString(lexer.StringLiteral), "c\n")
	lexer.Next()
	lexer.Next()
	lexer.RescanCloseBraceAsTemplateToken()
	test.AssertEqual(t, lexer.Token, TTemplateTail)
	test.AssertEqual(t, lexer.RawTemplateContents(), "e")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TEndOfFile)
	test.AssertEqual(t, len(done()), 0)

	test.AssertEqual(t, lexToken(t, "`abc`"), TNoSubstitutionTemplateLiteral)
}

func TestPunctuators(t *testing.T) {
	tokens := func(contents string) []T {
		log, done := logger.NewDeferLog()
		lexer := NewLexer(log, test.SourceForTest(contents))
		result := []T{}
		for lexer.Token != TEndOfFile {
			result = append(result, lexer.Token)
			lexer.Next()
		}
		done()
		return result
	}
	expect := func(contents string, expected ...T) {
		t.Helper()
		actual := tokens(contents)
		test.AssertEqual(t, len(actual), len(expected))
		for i := range expected {
			test.AssertEqual(t, actual[i], expected[i])
		}
	}

	expect(">>>=", TGreaterThanGreaterThanGreaterThanEquals)
	expect("a?.b", TIdentifier, TQuestionDot, TIdentifier)
	expect("a?.5:b", TIdentifier, TQuestion, TNumericLiteral, TColon, TIdentifier)
	expect("a??=b", TIdentifier, TQuestionQuestionEquals, TIdentifier)
	expect("...x", TDotDotDot, TIdentifier)
	expect("x=>y", TIdentifier, TEqualsGreaterThan, TIdentifier)
	expect("a ** b", TIdentifier, TAsteriskAsterisk, TIdentifier)
	expect("R.map", TIdentifier, TDot, TIdentifier)
	expect("{}", TOpenBrace, TCloseBrace)

	test.AssertEqual(t, lexToken(t, "@"), TSyntaxError)
}

func TestRegExp(t *testing.T) {
	expectRegExp := func(contents string, expected string) {
		t.Helper()
		log, done := logger.NewDeferLog()
		lexer := NewLexer(log, test.SourceForTest(contents))
		if lexer.Token != TSlash && lexer.Token != TSlashEquals {
			t.Fatalf("unexpected token %d", lexer.Token)
		}
		lexer.ScanRegExp()
		test.AssertEqual(t, lexer.Raw(), expected)
		test.AssertEqual(t, len(done()), 0)
	}

	expectRegExp("/x/", "/x/")
	expectRegExp("/x/gimsuy;", "/x/gimsuy")
	expectRegExp("/[/]/", "/[/]/")
	expectRegExp("/\\//", "/\\//")
	expectRegExp("/=/", "/=/")

	log, done := logger.NewDeferLog()
	func() {
		defer func() {
			if _, isLexerPanic := recover().(LexerPanic); !isLexerPanic {
				t.Fatal("expected a lexer panic")
			}
		}()
		lexer := NewLexer(log, test.SourceForTest("/x/z"))
		lexer.ScanRegExp()
	}()
	msgs := done()
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Text, "Syntax error \"z\"")
}

func TestRangeOfIdentifier(t *testing.T) {
	source := test.SourceForTest("let add = 1")
	r := RangeOfIdentifier(source, logger.Loc{Start: 4})
	test.AssertEqual(t, source.TextForRange(r), "add")
	test.AssertEqual(t, RangeOfIdentifier(source, logger.Loc{Start: 8}).Len, int32(0))
}
