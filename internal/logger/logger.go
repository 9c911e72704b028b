package logger

// Diagnostics are designed to look and feel like clang's error format. Each
// message carries the contents of the line it refers to, messages are streamed
// as they happen, and the number of errors printed is limited by default.

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

type Loc struct {
	// This is the 0-based index of this location from the start of the file
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

type Log struct {
	msgs chan Msg
}

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
)

func (kind MsgKind) String() string {
	if kind == Warning {
		return "warning"
	}
	return "error"
}

type Msg struct {
	Source Source
	Start  int32
	Length int32
	Text   string
	Kind   MsgKind
}

type Source struct {
	Index        uint32
	IsStdin      bool
	AbsolutePath string
	PrettyPath   string
	Contents     string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start:r.End()]
}

func (s *Source) RangeOfString(loc Loc) Range {
	text := s.Contents[loc.Start:]
	if len(text) == 0 {
		return Range{Loc: loc}
	}

	quote := text[0]
	if quote == '"' || quote == '\'' || quote == '`' {
		// Search for the matching quote character
		for i := 1; i < len(text); i++ {
			c := text[i]
			if c == quote {
				return Range{Loc: loc, Len: int32(i + 1)}
			} else if c == '\\' {
				i++
			}
		}
	}

	return Range{Loc: loc}
}

func NewLog(msgs chan Msg) Log {
	return Log{msgs}
}

type MsgCounts struct {
	Errors   int
	Warnings int
}

func plural(prefix string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, prefix)
	}
	return fmt.Sprintf("%d %ss", count, prefix)
}

func (counts MsgCounts) String() string {
	if counts.Errors == 0 {
		if counts.Warnings == 0 {
			return "no errors"
		}
		return plural("warning", counts.Warnings)
	}
	if counts.Warnings == 0 {
		return plural("error", counts.Errors)
	}
	return fmt.Sprintf("%s and %s",
		plural("warning", counts.Warnings),
		plural("error", counts.Errors))
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

func (level LogLevel) allows(kind MsgKind) bool {
	switch kind {
	case Warning:
		return level <= LevelWarning
	default:
		return level <= LevelError
	}
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type StderrOptions struct {
	IncludeSource      bool
	ErrorLimit         int
	ExitWhenLimitIsHit bool
	Color              StderrColor
	LogLevel           LogLevel
}

func NewStderrLog(options StderrOptions) (Log, func() MsgCounts) {
	msgs := make(chan Msg)
	done := make(chan MsgCounts)
	log := NewLog(msgs)
	terminalInfo := GetTerminalInfo(os.Stderr)

	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}

	go func(msgs chan Msg, done chan MsgCounts) {
		counts := MsgCounts{}
		for msg := range msgs {
			switch msg.Kind {
			case Error:
				counts.Errors++
			case Warning:
				counts.Warnings++
			}
			if !options.LogLevel.allows(msg.Kind) {
				continue
			}
			if options.ErrorLimit == 0 || counts.Errors <= options.ErrorLimit || msg.Kind != Error {
				os.Stderr.WriteString(msg.String(options, terminalInfo))
			}
			if options.ExitWhenLimitIsHit && options.ErrorLimit != 0 && counts.Errors >= options.ErrorLimit {
				fmt.Fprintf(os.Stderr, "%s reached (disable error limit with --error-limit=0)\n", counts.String())
				os.Exit(1)
			}
		}
		done <- counts
	}(msgs, done)

	return log, func() MsgCounts {
		close(log.msgs)
		counts := <-done
		if options.LogLevel <= LevelInfo && (counts.Warnings != 0 || counts.Errors != 0) {
			fmt.Fprintf(os.Stderr, "%s\n", counts.String())
		}
		return counts
	}
}

func NewDeferLog() (Log, func() []Msg) {
	msgs := make(chan Msg)
	done := make(chan []Msg)
	log := NewLog(msgs)

	go func(msgs chan Msg, done chan []Msg) {
		result := []Msg{}
		for msg := range msgs {
			result = append(result, msg)
		}
		done <- result
	}(msgs, done)

	return log, func() []Msg {
		close(log.msgs)
		return <-done
	}
}

// Writes a single error that has no associated source file. The "--color"
// flag is looked for in "osArgs" since this can happen before the arguments
// have been parsed.
func PrintErrorToStderr(osArgs []string, text string) {
	options := StderrOptions{IncludeSource: true}
	for _, arg := range osArgs {
		switch arg {
		case "--color=false":
			options.Color = ColorNever
		case "--color=true":
			options.Color = ColorAlways
		}
	}

	terminalInfo := GetTerminalInfo(os.Stderr)
	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}

	os.Stderr.WriteString(Msg{Kind: Error, Text: text}.String(options, terminalInfo))
}

const colorReset = "\033[0m"
const colorRed = "\033[31m"
const colorGreen = "\033[32m"
const colorMagenta = "\033[35m"
const colorBold = "\033[1m"
const colorResetBold = "\033[0;1m"

func (msg Msg) String(options StderrOptions, terminalInfo TerminalInfo) string {
	kind := msg.Kind.String()
	kindColor := colorRed

	if msg.Kind == Warning {
		kindColor = colorMagenta
	}

	if msg.Source.PrettyPath == "" {
		if terminalInfo.UseColorEscapes {
			return fmt.Sprintf("%s%s%s: %s%s%s\n",
				colorBold, kindColor, kind,
				colorResetBold, msg.Text,
				colorReset)
		}

		return fmt.Sprintf("%s: %s\n", kind, msg.Text)
	}

	if !options.IncludeSource {
		if terminalInfo.UseColorEscapes {
			return fmt.Sprintf("%s%s: %s%s: %s%s%s\n",
				colorBold, msg.Source.PrettyPath,
				kindColor, kind,
				colorResetBold, msg.Text,
				colorReset)
		}

		return fmt.Sprintf("%s: %s: %s\n", msg.Source.PrettyPath, kind, msg.Text)
	}

	d := detailStruct(msg, terminalInfo)

	if terminalInfo.UseColorEscapes {
		return fmt.Sprintf("%s%s:%d:%d: %s%s: %s%s\n%s%s%s%s%s%s\n%s%s%s%s\n",
			colorBold, d.Path,
			d.Line,
			d.Column,
			kindColor, d.Kind,
			colorResetBold, d.Message,
			colorReset, d.SourceBefore, colorGreen, d.SourceMarked, colorReset, d.SourceAfter,
			colorGreen, d.Indent, d.Marker,
			colorReset)
	}

	return fmt.Sprintf("%s:%d:%d: %s: %s\n%s\n%s%s\n",
		d.Path, d.Line, d.Column, d.Kind, d.Message, d.Source, d.Indent, d.Marker)
}

type MsgDetail struct {
	Path    string
	Line    int
	Column  int
	Kind    string
	Message string

	// Source == SourceBefore + SourceMarked + SourceAfter
	Source       string
	SourceBefore string
	SourceMarked string
	SourceAfter  string

	Indent string
	Marker string
}

// Line is 1-based and column is 0-based, counted in bytes.
func (msg Msg) Detail() MsgDetail {
	return detailStruct(msg, TerminalInfo{})
}

func ComputeLineAndColumn(text string) (lineCount int, columnCount, lastLineStart int) {
	var prevCodePoint rune

	for i, codePoint := range text {
		switch codePoint {
		case '\r', '\n', '\u2028', '\u2029':
			// "\r\n" is a single line terminator
			if codePoint != '\n' || prevCodePoint != '\r' {
				lineCount++
			}
			lastLineStart = i + utf8.RuneLen(codePoint)
		}
		prevCodePoint = codePoint
	}

	columnCount = len(text) - lastLineStart
	return
}

func detailStruct(msg Msg, terminalInfo TerminalInfo) MsgDetail {
	contents := msg.Source.Contents
	lineCount, columnCount, lineStart := ComputeLineAndColumn(contents[0:msg.Start])
	lineEnd := len(contents)

loop:
	for i, codePoint := range contents[lineStart:] {
		switch codePoint {
		case '\r', '\n', '\u2028', '\u2029':
			lineEnd = lineStart + i
			break loop
		}
	}

	spacesPerTab := 2
	lineText := renderTabStops(contents[lineStart:lineEnd], spacesPerTab)
	indent := strings.Repeat(" ", len(renderTabStops(contents[lineStart:msg.Start], spacesPerTab)))
	marker := "^"
	markerStart := len(indent)
	markerEnd := len(indent)

	// Extend markers to cover the full range of the error
	if msg.Length > 0 {
		end := int(msg.Start + msg.Length)
		if end > lineEnd {
			end = lineEnd
		}
		markerEnd = len(renderTabStops(contents[lineStart:end], spacesPerTab))
	}

	// Clip the marker to the bounds of the line
	if markerStart > len(lineText) {
		markerStart = len(lineText)
	}
	if markerEnd > len(lineText) {
		markerEnd = len(lineText)
	}
	if markerEnd < markerStart {
		markerEnd = markerStart
	}

	// Trim the line to fit the terminal width
	if terminalInfo.Width > 0 && len(lineText) > terminalInfo.Width {
		// Try to center the error
		sliceStart := (markerStart + markerEnd - terminalInfo.Width) / 2
		if sliceStart > markerStart-terminalInfo.Width/5 {
			sliceStart = markerStart - terminalInfo.Width/5
		}
		if sliceStart < 0 {
			sliceStart = 0
		}
		if sliceStart > len(lineText)-terminalInfo.Width {
			sliceStart = len(lineText) - terminalInfo.Width
		}
		sliceEnd := sliceStart + terminalInfo.Width

		slicedLine := lineText[sliceStart:sliceEnd]
		markerStart -= sliceStart
		markerEnd -= sliceStart
		if markerStart < 0 {
			markerStart = 0
		}
		if markerEnd > len(slicedLine) {
			markerEnd = len(slicedLine)
		}

		// Truncate the ends with "..."
		if len(slicedLine) > 3 && sliceStart > 0 {
			slicedLine = "..." + slicedLine[3:]
			if markerStart < 3 {
				markerStart = 3
			}
		}
		if len(slicedLine) > 3 && sliceEnd < len(lineText) {
			slicedLine = slicedLine[:len(slicedLine)-3] + "..."
			if markerEnd > len(slicedLine)-3 {
				markerEnd = len(slicedLine) - 3
			}
			if markerEnd < markerStart {
				markerEnd = markerStart
			}
		}

		indent = strings.Repeat(" ", markerStart)
		lineText = slicedLine
	}

	if markerEnd-markerStart > 1 {
		marker = strings.Repeat("~", markerEnd-markerStart)
	}

	return MsgDetail{
		Path:    msg.Source.PrettyPath,
		Line:    lineCount + 1,
		Column:  columnCount,
		Kind:    msg.Kind.String(),
		Message: msg.Text,

		Source:       lineText,
		SourceBefore: lineText[:markerStart],
		SourceMarked: lineText[markerStart:markerEnd],
		SourceAfter:  lineText[markerEnd:],

		Indent: indent,
		Marker: marker,
	}
}

func renderTabStops(withTabs string, spacesPerTab int) string {
	if !strings.ContainsRune(withTabs, '\t') {
		return withTabs
	}

	withoutTabs := strings.Builder{}
	count := 0

	for _, c := range withTabs {
		if c == '\t' {
			spaces := spacesPerTab - count%spacesPerTab
			for i := 0; i < spaces; i++ {
				withoutTabs.WriteRune(' ')
				count++
			}
		} else {
			withoutTabs.WriteRune(c)
			count++
		}
	}

	return withoutTabs.String()
}

func (log Log) AddMsg(msg Msg) {
	log.msgs <- msg
}

func (log Log) AddError(source Source, loc Loc, text string) {
	log.msgs <- Msg{source, loc.Start, 0, text, Error}
}

func (log Log) AddWarning(source Source, loc Loc, text string) {
	log.msgs <- Msg{source, loc.Start, 0, text, Warning}
}

func (log Log) AddRangeError(source Source, r Range, text string) {
	log.msgs <- Msg{source, r.Loc.Start, r.Len, text, Error}
}

func (log Log) AddRangeWarning(source Source, r Range, text string) {
	log.msgs <- Msg{source, r.Loc.Start, r.Len, text, Warning}
}

type Colors struct {
	Reset string
	Bold  string
	Dim   string
	Red   string
	Green string
}

var terminalColors = Colors{
	Reset: colorReset,
	Bold:  colorBold,
	Dim:   "\033[37m",
	Red:   colorRed,
	Green: colorGreen,
}

// Writes the text returned by "callback", which may use the escape codes it is
// given. They are all empty unless colors are enabled for "file".
func PrintTextWithColor(file *os.File, useColor StderrColor, callback func(Colors) string) {
	var useColorEscapes bool
	switch useColor {
	case ColorNever:
		useColorEscapes = false
	case ColorAlways:
		useColorEscapes = SupportsColorEscapes
	case ColorIfTerminal:
		useColorEscapes = GetTerminalInfo(file).UseColorEscapes
	}

	var colors Colors
	if useColorEscapes {
		colors = terminalColors
	}
	file.WriteString(callback(colors))
}
