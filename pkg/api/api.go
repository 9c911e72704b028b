package api

import (
	"context"

	"github.com/jsrewrite/ramdacut/internal/fs"
	"go.uber.org/zap"
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

////////////////////////////////////////////////////////////////////////////////
// Transform API

type TransformOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	// The import path to split into per-function imports. Defaults to "ramda".
	Library string

	// Import from "<library>/es/<name>" instead of "<library>/src/<name>"
	UseES bool

	MinifyWhitespace bool

	// Escape all non-ASCII characters in strings and identifiers
	ASCIIOnly bool

	// The file name used in messages. Defaults to "<stdin>".
	Sourcefile string

	// Receives debug traces of the rewrite. Defaults to a no-op logger.
	Logger *zap.Logger
}

type TransformResult struct {
	Errors   []Message
	Warnings []Message

	JS []byte
}

func Transform(input string, options TransformOptions) TransformResult {
	return transformImpl(input, options)
}

////////////////////////////////////////////////////////////////////////////////
// Files API

type FilesOptions struct {
	TransformOptions

	// The maximum number of files rewritten at the same time. Defaults to the
	// number of CPUs.
	Parallelism int

	// At most one of these may be set. With "Outdir", the directory structure
	// of the inputs below their lowest common ancestor is kept.
	Outfile string
	Outdir  string

	// Write output files to disk. Otherwise they are only returned.
	Write bool
}

type OutputFile struct {
	// Empty if neither "Outfile" nor "Outdir" was set
	Path     string
	Contents []byte
}

type FileResult struct {
	// The absolute path of the input file
	Path string

	Errors   []Message
	Warnings []Message

	// Nil if there were errors
	OutputFile *OutputFile
}

type FilesResult struct {
	// Errors that aren't about any one file, such as invalid options
	Errors []Message

	// One entry per input file in input order
	Files []FileResult
}

// Rewrites each file independently and in parallel
func TransformFiles(ctx context.Context, paths []string, options FilesOptions) FilesResult {
	return transformFilesImpl(ctx, fs.RealFS(), paths, options)
}

////////////////////////////////////////////////////////////////////////////////
// Watch API

// Rewrites all files, then polls them for changes and rewrites each file again
// when it changes. "onRebuild" is called with the initial result and then with
// the result for every changed file. Returns when "ctx" is done.
func Watch(ctx context.Context, paths []string, options FilesOptions, onRebuild func(FilesResult)) error {
	return watchImpl(ctx, fs.RealFS(), paths, options, onRebuild, watchIntervalSleep)
}
