package js_lexer

// The lexer is driven by the parser one token at a time instead of running to
// completion first. Some tokens depend on parser state: a "/" may start a
// regular expression and a "}" may continue a template literal.
//
// Identifiers are kept as UTF-8 slices of the source text. String literals are
// decoded to UTF-16 so unpaired surrogates survive a round trip.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jsrewrite/ramdacut/internal/helpers"
	"github.com/jsrewrite/ramdacut/internal/logger"
)

type T uint8

// If you add a new token, remember to add it to "tokenToString" too
const (
	TEndOfFile T = iota
	TSyntaxError

	// "#!/usr/bin/env node"
	THashbang

	// Literals
	TNoSubstitutionTemplateLiteral // Contents are in lexer.StringLiteral ([]uint16)
	TNumericLiteral                // Contents are in lexer.Number (float64)
	TStringLiteral                 // Contents are in lexer.StringLiteral ([]uint16)
	TBigIntegerLiteral             // Contents are in lexer.Identifier (string)

	// Pseudo-literals
	TTemplateHead   // Contents are in lexer.StringLiteral ([]uint16)
	TTemplateMiddle // Contents are in lexer.StringLiteral ([]uint16)
	TTemplateTail   // Contents are in lexer.StringLiteral ([]uint16)

	// Punctuation
	TAmpersand
	TAmpersandAmpersand
	TAsterisk
	TAsteriskAsterisk
	TBar
	TBarBar
	TCaret
	TCloseBrace
	TCloseBracket
	TCloseParen
	TColon
	TComma
	TDot
	TDotDotDot
	TEqualsEquals
	TEqualsEqualsEquals
	TEqualsGreaterThan
	TExclamation
	TExclamationEquals
	TExclamationEqualsEquals
	TGreaterThan
	TGreaterThanEquals
	TGreaterThanGreaterThan
	TGreaterThanGreaterThanGreaterThan
	TLessThan
	TLessThanEquals
	TLessThanLessThan
	TMinus
	TMinusMinus
	TOpenBrace
	TOpenBracket
	TOpenParen
	TPercent
	TPlus
	TPlusPlus
	TQuestion
	TQuestionDot
	TQuestionQuestion
	TSemicolon
	TSlash
	TTilde

	// Assignments
	TAmpersandAmpersandEquals
	TAmpersandEquals
	TAsteriskAsteriskEquals
	TAsteriskEquals
	TBarBarEquals
	TBarEquals
	TCaretEquals
	TEquals
	TGreaterThanGreaterThanEquals
	TGreaterThanGreaterThanGreaterThanEquals
	TLessThanLessThanEquals
	TMinusEquals
	TPercentEquals
	TPlusEquals
	TQuestionQuestionEquals
	TSlashEquals

	// Class-private fields and methods
	TPrivateIdentifier

	// Identifiers
	TIdentifier     // Contents are in lexer.Identifier (string)
	TEscapedKeyword // A keyword that has been escaped as an identifer

	// Reserved words
	TBreak
	TCase
	TCatch
	TClass
	TConst
	TContinue
	TDebugger
	TDefault
	TDelete
	TDo
	TElse
	TEnum
	TExport
	TExtends
	TFalse
	TFinally
	TFor
	TFunction
	TIf
	TImport
	TIn
	TInstanceof
	TNew
	TNull
	TReturn
	TSuper
	TSwitch
	TThis
	TThrow
	TTrue
	TTry
	TTypeof
	TVar
	TVoid
	TWhile
	TWith
)

// Contextual keywords such as "let", "async", "of" and "from" are lexed as
// identifiers. The parser checks for them with "IsContextualKeyword".
var Keywords = map[string]T{
	"break":      TBreak,
	"case":       TCase,
	"catch":      TCatch,
	"class":      TClass,
	"const":      TConst,
	"continue":   TContinue,
	"debugger":   TDebugger,
	"default":    TDefault,
	"delete":     TDelete,
	"do":         TDo,
	"else":       TElse,
	"enum":       TEnum,
	"export":     TExport,
	"extends":    TExtends,
	"false":      TFalse,
	"finally":    TFinally,
	"for":        TFor,
	"function":   TFunction,
	"if":         TIf,
	"import":     TImport,
	"in":         TIn,
	"instanceof": TInstanceof,
	"new":        TNew,
	"null":       TNull,
	"return":     TReturn,
	"super":      TSuper,
	"switch":     TSwitch,
	"this":       TThis,
	"throw":      TThrow,
	"true":       TTrue,
	"try":        TTry,
	"typeof":     TTypeof,
	"var":        TVar,
	"void":       TVoid,
	"while":      TWhile,
	"with":       TWith,
}

var StrictModeReservedWords = map[string]bool{
	"implements": true,
	"interface":  true,
	"let":        true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"static":     true,
	"yield":      true,
}

type punctuator struct {
	text  string
	token T
}

// Grouped by first byte with the longest operators first, so the first match
// in a group is the longest one
var punctuators [128][]punctuator

func init() {
	all := []punctuator{
		{">>>=", TGreaterThanGreaterThanGreaterThanEquals},
		{"...", TDotDotDot},
		{"===", TEqualsEqualsEquals},
		{"!==", TExclamationEqualsEquals},
		{"**=", TAsteriskAsteriskEquals},
		{"<<=", TLessThanLessThanEquals},
		{">>=", TGreaterThanGreaterThanEquals},
		{">>>", TGreaterThanGreaterThanGreaterThan},
		{"&&=", TAmpersandAmpersandEquals},
		{"||=", TBarBarEquals},
		{"??=", TQuestionQuestionEquals},
		{"&&", TAmpersandAmpersand},
		{"||", TBarBar},
		{"??", TQuestionQuestion},
		{"?.", TQuestionDot},
		{"**", TAsteriskAsterisk},
		{"==", TEqualsEquals},
		{"!=", TExclamationEquals},
		{"=>", TEqualsGreaterThan},
		{"<=", TLessThanEquals},
		{">=", TGreaterThanEquals},
		{"<<", TLessThanLessThan},
		{">>", TGreaterThanGreaterThan},
		{"++", TPlusPlus},
		{"--", TMinusMinus},
		{"+=", TPlusEquals},
		{"-=", TMinusEquals},
		{"*=", TAsteriskEquals},
		{"/=", TSlashEquals},
		{"%=", TPercentEquals},
		{"&=", TAmpersandEquals},
		{"|=", TBarEquals},
		{"^=", TCaretEquals},
		{"&", TAmpersand},
		{"*", TAsterisk},
		{"|", TBar},
		{"^", TCaret},
		{"}", TCloseBrace},
		{"]", TCloseBracket},
		{")", TCloseParen},
		{":", TColon},
		{",", TComma},
		{".", TDot},
		{"!", TExclamation},
		{">", TGreaterThan},
		{"<", TLessThan},
		{"-", TMinus},
		{"{", TOpenBrace},
		{"[", TOpenBracket},
		{"(", TOpenParen},
		{"%", TPercent},
		{"+", TPlus},
		{"?", TQuestion},
		{";", TSemicolon},
		{"/", TSlash},
		{"~", TTilde},
		{"=", TEquals},
	}
	for _, p := range all {
		punctuators[p.text[0]] = append(punctuators[p.text[0]], p)
	}
}

var tokenToString = map[T]string{
	TEndOfFile:   "end of file",
	TSyntaxError: "syntax error",
	THashbang:    "hashbang comment",

	// Literals
	TNoSubstitutionTemplateLiteral: "template literal",
	TNumericLiteral:                "number",
	TStringLiteral:                 "string",
	TBigIntegerLiteral:             "bigint",

	// Pseudo-literals
	TTemplateHead:   "template literal",
	TTemplateMiddle: "template literal",
	TTemplateTail:   "template literal",

	TPrivateIdentifier: "private identifier",
	TIdentifier:        "identifier",
	TEscapedKeyword:    "escaped keyword",
}

func init() {
	for text, token := range Keywords {
		tokenToString[token] = "\"" + text + "\""
	}
	for _, group := range punctuators {
		for _, p := range group {
			tokenToString[p.token] = "\"" + p.text + "\""
		}
	}
}

type Lexer struct {
	log                             logger.Log
	source                          logger.Source
	current                         int
	start                           int
	end                             int
	Token                           T
	HasNewlineBefore                bool
	codePoint                       rune
	StringLiteral                   []uint16
	Identifier                      string
	Number                          float64
	rescanCloseBraceAsTemplateToken bool
}

type LexerPanic struct{}

func NewLexer(log logger.Log, source logger.Source) Lexer {
	lexer := Lexer{
		log:    log,
		source: source,
	}
	lexer.step()
	lexer.Next()
	return lexer
}

func (lexer *Lexer) Loc() logger.Loc {
	return logger.Loc{Start: int32(lexer.start)}
}

func (lexer *Lexer) Range() logger.Range {
	return logger.Range{Loc: logger.Loc{Start: int32(lexer.start)}, Len: int32(lexer.end - lexer.start)}
}

func (lexer *Lexer) Raw() string {
	return lexer.source.Contents[lexer.start:lexer.end]
}

func (lexer *Lexer) RawTemplateContents() string {
	switch lexer.Token {
	case TNoSubstitutionTemplateLiteral, TTemplateTail:
		// "`x`" or "}x`"
		return lexer.source.Contents[lexer.start+1 : lexer.end-1]

	case TTemplateHead, TTemplateMiddle:
		// "`x${" or "}x${"
		return lexer.source.Contents[lexer.start+1 : lexer.end-2]

	default:
		return ""
	}
}

func (lexer *Lexer) IsIdentifierOrKeyword() bool {
	return lexer.Token >= TIdentifier
}

func (lexer *Lexer) IsContextualKeyword(text string) bool {
	return lexer.Token == TIdentifier && lexer.Raw() == text
}

func (lexer *Lexer) ExpectContextualKeyword(text string) {
	if !lexer.IsContextualKeyword(text) {
		lexer.ExpectedString(fmt.Sprintf("%q", text))
	}
	lexer.Next()
}

func (lexer *Lexer) SyntaxError() {
	loc := logger.Loc{Start: int32(lexer.end)}
	message := "Unexpected end of file"
	if lexer.end < len(lexer.source.Contents) {
		c, _ := utf8.DecodeRuneInString(lexer.source.Contents[lexer.end:])
		if c < 0x20 {
			message = fmt.Sprintf("Syntax error \"\\x%02X\"", c)
		} else if c >= 0x80 {
			message = fmt.Sprintf("Syntax error \"\\u{%x}\"", c)
		} else if c != '"' {
			message = fmt.Sprintf("Syntax error \"%c\"", c)
		} else {
			message = "Syntax error '\"'"
		}
	}
	lexer.log.AddError(lexer.source, loc, message)
	panic(LexerPanic{})
}

func (lexer *Lexer) ExpectedString(text string) {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.log.AddRangeError(lexer.source, lexer.Range(), fmt.Sprintf("Expected %s but found %s", text, found))
	panic(LexerPanic{})
}

func (lexer *Lexer) Expected(token T) {
	if text, ok := tokenToString[token]; ok {
		lexer.ExpectedString(text)
	} else {
		lexer.Unexpected()
	}
}

func (lexer *Lexer) Unexpected() {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.log.AddRangeError(lexer.source, lexer.Range(), fmt.Sprintf("Unexpected %s", found))
	panic(LexerPanic{})
}

func (lexer *Lexer) Expect(token T) {
	if lexer.Token != token {
		lexer.Expected(token)
	}
	lexer.Next()
}

func (lexer *Lexer) ExpectOrInsertSemicolon() {
	if lexer.Token == TSemicolon || (!lexer.HasNewlineBefore &&
		lexer.Token != TCloseBrace && lexer.Token != TEndOfFile) {
		lexer.Expect(TSemicolon)
	}
}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, codePoint := range text {
		if i == 0 {
			if !IsIdentifierStart(codePoint) {
				return false
			}
		} else if !IsIdentifierContinue(codePoint) {
			return false
		}
	}
	return true
}

func isASCIILetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func IsIdentifierStart(codePoint rune) bool {
	if isASCIILetter(codePoint) || codePoint == '_' || codePoint == '$' {
		return true
	}
	if codePoint < 0x80 {
		return false
	}
	return unicode.In(codePoint, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

func IsIdentifierContinue(codePoint rune) bool {
	if IsIdentifierStart(codePoint) || isDigit(codePoint) {
		return true
	}
	if codePoint < 0x80 {
		return false
	}

	// ZWNJ and ZWJ are allowed in identifiers
	if codePoint == 0x200C || codePoint == 0x200D {
		return true
	}

	return unicode.In(codePoint, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

func IsWhitespace(codePoint rune) bool {
	switch codePoint {
	case '\t', '\v', '\f', ' ', '\u00A0', '\uFEFF':
		return true
	}
	return codePoint >= 0x80 && unicode.Is(unicode.Zs, codePoint)
}

func RangeOfIdentifier(source logger.Source, loc logger.Loc) logger.Range {
	text := source.Contents[loc.Start:]
	if len(text) == 0 {
		return logger.Range{Loc: loc}
	}

	c, i := utf8.DecodeRuneInString(text)
	if !IsIdentifierStart(c) && c != '#' {
		return logger.Range{Loc: loc}
	}

	for i < len(text) {
		c2, width := utf8.DecodeRuneInString(text[i:])
		if !IsIdentifierContinue(c2) {
			break
		}
		i += width
	}
	return logger.Range{Loc: loc, Len: int32(i)}
}

func (lexer *Lexer) Next() {
	lexer.HasNewlineBefore = false

	for {
		lexer.start = lexer.end
		lexer.Token = 0

		switch c := lexer.codePoint; {
		case c == -1: // This indicates the end of the file
			lexer.Token = TEndOfFile

		case c == '#':
			if lexer.start == 0 && strings.HasPrefix(lexer.source.Contents, "#!") {
				lexer.skipToEndOfLine()
				lexer.Token = THashbang
				lexer.Identifier = lexer.Raw()
			} else {
				lexer.step()
				if !IsIdentifierStart(lexer.codePoint) {
					lexer.SyntaxError()
				}
				lexer.step()
				for IsIdentifierContinue(lexer.codePoint) {
					lexer.step()
				}
				lexer.Token = TPrivateIdentifier
				lexer.Identifier = lexer.Raw()
			}

		case c == '\r' || c == '\n' || c == '\u2028' || c == '\u2029':
			lexer.step()
			lexer.HasNewlineBefore = true
			continue

		case IsWhitespace(c):
			lexer.step()
			continue

		case c == '/' && lexer.peek() == '/':
			lexer.skipToEndOfLine()
			continue

		case c == '/' && lexer.peek() == '*':
			lexer.skipMultiLineComment()
			continue

		case c == '.' && isDigit(rune(lexer.peek())):
			lexer.parseNumericLiteral()

		case isDigit(c):
			lexer.parseNumericLiteral()

		case c == '\'' || c == '"' || c == '`':
			lexer.parseStringOrTemplate()

		case c == '\\':
			lexer.Identifier, lexer.Token = lexer.scanIdentifierWithEscapes()

		case IsIdentifierStart(c):
			lexer.step()
			for IsIdentifierContinue(lexer.codePoint) {
				lexer.step()
			}
			if lexer.codePoint == '\\' {
				lexer.Identifier, lexer.Token = lexer.scanIdentifierWithEscapes()
			} else {
				lexer.Identifier = lexer.Raw()
				lexer.Token = Keywords[lexer.Identifier]
				if lexer.Token == 0 {
					lexer.Token = TIdentifier
				}
			}

		case c < 0x80 && lexer.scanPunctuator():

		default:
			lexer.end = lexer.current
			lexer.Token = TSyntaxError
		}

		return
	}
}

func (lexer *Lexer) scanPunctuator() bool {
	rest := lexer.source.Contents[lexer.end:]
	for _, p := range punctuators[rest[0]] {
		if !strings.HasPrefix(rest, p.text) {
			continue
		}

		// "a?.1:b" is a conditional expression
		if p.token == TQuestionDot && len(rest) > 2 && rest[2] >= '0' && rest[2] <= '9' {
			continue
		}

		for range p.text {
			lexer.step()
		}
		lexer.Token = p.token
		return true
	}
	return false
}

func (lexer *Lexer) peek() byte {
	if lexer.current < len(lexer.source.Contents) {
		return lexer.source.Contents[lexer.current]
	}
	return 0
}

func (lexer *Lexer) skipToEndOfLine() {
	for {
		lexer.step()
		switch lexer.codePoint {
		case '\r', '\n', '\u2028', '\u2029', -1:
			return
		}
	}
}

func (lexer *Lexer) skipMultiLineComment() {
	start := lexer.Loc()
	lexer.step()
	lexer.step()
	for {
		switch lexer.codePoint {
		case '*':
			lexer.step()
			if lexer.codePoint == '/' {
				lexer.step()
				return
			}

		case '\r', '\n', '\u2028', '\u2029':
			lexer.step()
			lexer.HasNewlineBefore = true

		case -1: // This indicates the end of the file
			lexer.start = lexer.end
			lexer.log.AddRangeError(lexer.source, logger.Range{Loc: start, Len: 2},
				"Expected \"*/\" to terminate multi-line comment")
			panic(LexerPanic{})

		default:
			lexer.step()
		}
	}
}

func (lexer *Lexer) parseStringOrTemplate() {
	quote := lexer.codePoint
	needsDecode := false
	suffixLen := 1

	if quote != '`' {
		lexer.Token = TStringLiteral
	} else if lexer.rescanCloseBraceAsTemplateToken {
		lexer.Token = TTemplateTail
	} else {
		lexer.Token = TNoSubstitutionTemplateLiteral
	}
	lexer.step()

loop:
	for {
		switch lexer.codePoint {
		case '\\':
			needsDecode = true
			lexer.step()
			if lexer.codePoint == -1 {
				lexer.SyntaxError()
			}

			// Windows CRLF after a backslash is a single line continuation
			if lexer.codePoint == '\r' && lexer.peek() == '\n' {
				lexer.step()
			}

		case -1: // This indicates the end of the file
			lexer.SyntaxError()

		case '\r', '\n':
			if quote != '`' {
				lexer.log.AddError(lexer.source, logger.Loc{Start: int32(lexer.end)}, "Unterminated string literal")
				panic(LexerPanic{})
			}
			needsDecode = true

		case '$':
			if quote == '`' && lexer.peek() == '{' {
				lexer.step()
				lexer.step()
				suffixLen = 2
				if lexer.rescanCloseBraceAsTemplateToken {
					lexer.Token = TTemplateMiddle
				} else {
					lexer.Token = TTemplateHead
				}
				break loop
			}

		case quote:
			lexer.step()
			break loop

		default:
			if lexer.codePoint >= 0x80 {
				needsDecode = true
			}
		}
		lexer.step()
	}

	text := lexer.source.Contents[lexer.start+1 : lexer.end-suffixLen]

	if needsDecode {
		lexer.StringLiteral = lexer.decodeEscapeSequences(lexer.start+1, text)
	} else {
		// Fast path for ASCII without escapes
		decoded := make([]uint16, len(text))
		for i := 0; i < len(text); i++ {
			decoded[i] = uint16(text[i])
		}
		lexer.StringLiteral = decoded
	}
}

// Escaped identifiers are rare, so this doesn't need to be fast
func (lexer *Lexer) scanIdentifierWithEscapes() (string, T) {
	// First pass: find the end of the identifier
	for {
		if lexer.codePoint == '\\' {
			lexer.step()
			if lexer.codePoint != 'u' {
				lexer.SyntaxError()
			}
			lexer.step()
			if lexer.codePoint == '{' {
				lexer.step()
				for lexer.codePoint != '}' {
					if hexValue(lexer.codePoint) < 0 {
						lexer.SyntaxError()
					}
					lexer.step()
				}
				lexer.step()
			} else {
				for j := 0; j < 4; j++ {
					if hexValue(lexer.codePoint) < 0 {
						lexer.SyntaxError()
					}
					lexer.step()
				}
			}
			continue
		}
		if !IsIdentifierContinue(lexer.codePoint) {
			break
		}
		lexer.step()
	}

	// Second pass: decode using the string escape decoder
	text := helpers.UTF16ToString(lexer.decodeEscapeSequences(lexer.start, lexer.Raw()))

	if !IsIdentifier(text) {
		lexer.log.AddRangeError(lexer.source, lexer.Range(), fmt.Sprintf("Invalid identifier: %q", text))
		panic(LexerPanic{})
	}

	// Escaped keywords still act as identifiers. "foo.\u0076ar" is fine but
	// "\u0076ar foo" is not a variable declaration.
	if Keywords[text] != 0 {
		return text, TEscapedKeyword
	}
	return text, TIdentifier
}

func hexValue(c rune) rune {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c + 10 - 'a'
	case c >= 'A' && c <= 'F':
		return c + 10 - 'A'
	}
	return -1
}

// Consumes a run of digits in the given base, allowing single underscores
// between digits. Returns false if there were no digits at all.
func (lexer *Lexer) scanDigits(base rune) bool {
	count := 0
	lastWasUnderscore := false
	for {
		c := lexer.codePoint
		if c == '_' {
			if count == 0 || lastWasUnderscore {
				lexer.SyntaxError()
			}
			lastWasUnderscore = true
		} else if v := hexValue(c); v >= 0 && v < base {
			lastWasUnderscore = false
			count++
		} else {
			break
		}
		lexer.step()
	}
	if lastWasUnderscore {
		lexer.end--
		lexer.SyntaxError()
	}
	return count > 0
}

func (lexer *Lexer) parseNumericLiteral() {
	first := lexer.codePoint
	lexer.Token = TNumericLiteral
	isFloat := false
	base := rune(10)

	if first == '0' {
		switch lexer.peek() {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'x', 'X':
			base = 16
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			// Legacy octal literals such as "017" are only octal when every
			// digit is less than 8. Otherwise they are decimal.
			lexer.step()
			lexer.scanDigits(10)
			text := lexer.Raw()
			base := 8
			if strings.ContainsAny(text, "89") {
				base = 10
			}
			value, _ := strconv.ParseUint(strings.ReplaceAll(text, "_", ""), base, 64)
			lexer.Number = float64(value)
			lexer.checkAfterNumber()
			return
		}
	}

	if base != 10 {
		lexer.step()
		lexer.step()
		if !lexer.scanDigits(base) {
			lexer.SyntaxError()
		}
		lexer.Number = 0
		for _, c := range lexer.Raw()[2:] {
			if c != '_' {
				lexer.Number = lexer.Number*float64(base) + float64(hexValue(c))
			}
		}
	} else {
		lexer.scanDigits(10)
		if lexer.codePoint == '.' {
			isFloat = true
			lexer.step()
			lexer.scanDigits(10)
		}
		if lexer.codePoint == 'e' || lexer.codePoint == 'E' {
			isFloat = true
			lexer.step()
			if lexer.codePoint == '+' || lexer.codePoint == '-' {
				lexer.step()
			}
			if !lexer.scanDigits(10) {
				lexer.SyntaxError()
			}
		}
		lexer.Number, _ = strconv.ParseFloat(strings.ReplaceAll(lexer.Raw(), "_", ""), 64)
	}

	if lexer.codePoint == 'n' && !isFloat {
		// Store bigints as text to avoid precision loss
		lexer.Identifier = strings.ReplaceAll(lexer.Raw(), "_", "")
		lexer.Token = TBigIntegerLiteral
		lexer.step()
	}

	lexer.checkAfterNumber()
}

func (lexer *Lexer) checkAfterNumber() {
	// Identifiers can't occur immediately after numbers
	if IsIdentifierStart(lexer.codePoint) || isDigit(lexer.codePoint) {
		lexer.SyntaxError()
	}
}

// Called by the parser when a "/" or "/=" token is seen in a position where
// an expression is expected
func (lexer *Lexer) ScanRegExp() {
	inClass := false
	for {
		switch lexer.codePoint {
		case '\\':
			lexer.step()

		case '[':
			inClass = true

		case ']':
			inClass = false

		case '/':
			if !inClass {
				lexer.step()
				for IsIdentifierContinue(lexer.codePoint) {
					switch lexer.codePoint {
					case 'd', 'g', 'i', 'm', 's', 'u', 'v', 'y':
						lexer.step()
					default:
						lexer.SyntaxError()
					}
				}
				return
			}
		}

		switch lexer.codePoint {
		case '\r', '\n', '\u2028', '\u2029', -1:
			// Newlines aren't allowed in regular expressions
			lexer.SyntaxError()
		}
		lexer.step()
	}
}

func (lexer *Lexer) decodeEscapeSequences(start int, text string) []uint16 {
	decoded := make([]uint16, 0, len(text))
	appendRune := func(c rune) {
		if c <= 0xFFFF {
			decoded = append(decoded, uint16(c))
		} else {
			c -= 0x10000
			decoded = append(decoded, uint16(0xD800+((c>>10)&0x3FF)), uint16(0xDC00+(c&0x3FF)))
		}
	}
	fail := func(i int) {
		lexer.end = start + i
		lexer.SyntaxError()
	}

	i := 0
	for i < len(text) {
		c, width := utf8.DecodeRuneInString(text[i:])
		i += width

		// Template literals normalize "\r\n" and "\r" to "\n"
		if c == '\r' {
			if i < len(text) && text[i] == '\n' {
				i++
			}
			appendRune('\n')
			continue
		}

		if c != '\\' {
			appendRune(c)
			continue
		}

		c2, width2 := utf8.DecodeRuneInString(text[i:])
		i += width2

		switch c2 {
		case 'b':
			appendRune('\b')
		case 'f':
			appendRune('\f')
		case 'n':
			appendRune('\n')
		case 'r':
			appendRune('\r')
		case 't':
			appendRune('\t')
		case 'v':
			appendRune('\v')

		case '0', '1', '2', '3', '4', '5', '6', '7':
			// 1-3 digit octal
			value := c2 - '0'
			for n := 0; n < 2 && i < len(text) && text[i] >= '0' && text[i] <= '7'; n++ {
				next := value*8 + rune(text[i]-'0')
				if next >= 256 {
					break
				}
				value = next
				i++
			}
			appendRune(value)

		case 'x':
			value := rune(0)
			for j := 0; j < 2; j++ {
				if i >= len(text) || hexValue(rune(text[i])) < 0 {
					fail(i)
				}
				value = value*16 + hexValue(rune(text[i]))
				i++
			}
			appendRune(value)

		case 'u':
			value := rune(0)
			if i < len(text) && text[i] == '{' {
				escapeStart := i - 2
				i++
				digits := 0
				for i < len(text) && text[i] != '}' {
					v := hexValue(rune(text[i]))
					if v < 0 {
						fail(i)
					}
					value = value*16 + v
					if value > utf8.MaxRune {
						lexer.log.AddRangeError(lexer.source, logger.Range{
							Loc: logger.Loc{Start: int32(start + escapeStart)}, Len: int32(i + 1 - escapeStart)},
							"Unicode escape sequence is out of range")
						panic(LexerPanic{})
					}
					digits++
					i++
				}
				if i >= len(text) || digits == 0 {
					fail(i)
				}
				i++
			} else {
				for j := 0; j < 4; j++ {
					if i >= len(text) || hexValue(rune(text[i])) < 0 {
						fail(i)
					}
					value = value*16 + hexValue(rune(text[i]))
					i++
				}
			}
			appendRune(value)

		case '\r':
			// Line continuations are removed, including "\r\n"
			if i < len(text) && text[i] == '\n' {
				i++
			}

		case '\n', '\u2028', '\u2029':
			// Line continuations are removed

		default:
			appendRune(c2)
		}
	}

	return decoded
}

func (lexer *Lexer) RescanCloseBraceAsTemplateToken() {
	if lexer.Token != TCloseBrace {
		lexer.Expected(TCloseBrace)
	}

	lexer.rescanCloseBraceAsTemplateToken = true
	lexer.codePoint = '`'
	lexer.current = lexer.end
	lexer.end--
	lexer.Next()
	lexer.rescanCloseBraceAsTemplateToken = false
}

func (lexer *Lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])

	// Use -1 to indicate the end of the file
	if width == 0 {
		codePoint = -1
	}

	lexer.codePoint = codePoint
	lexer.end = lexer.current
	lexer.current += width
}
