package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jsrewrite/ramdacut/internal/config"
	"github.com/jsrewrite/ramdacut/internal/fs"
	"github.com/jsrewrite/ramdacut/internal/js_parser"
	"github.com/jsrewrite/ramdacut/internal/js_printer"
	"github.com/jsrewrite/ramdacut/internal/logger"
	"github.com/jsrewrite/ramdacut/internal/resolver"
	"github.com/jsrewrite/ramdacut/internal/rewriter"
	"go.uber.org/zap"
)

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

// The library must be a bare package name since per-function paths are built
// underneath it
func validateLibrary(log logger.Log, library string) string {
	if library == "" {
		return resolver.DefaultLibrary
	}
	if strings.HasPrefix(library, ".") || strings.HasPrefix(library, "/") ||
		strings.HasSuffix(library, "/") || strings.ContainsAny(library, "\\ \t\n") {
		log.AddError(logger.Source{}, logger.Loc{}, fmt.Sprintf("Invalid library name: %q", library))
	}
	return library
}

func validateLogger(z *zap.Logger) *zap.Logger {
	if z == nil {
		return zap.NewNop()
	}
	return z
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location

			if msg.Source.PrettyPath != "" {
				line, column, _ := logger.ComputeLineAndColumn(msg.Source.Contents[0:msg.Start])
				line++

				// Extract the line text
				lineText := msg.Source.Contents[int(msg.Start)-column:]
				endOfLine := len(lineText)
				for i, c := range lineText {
					if c == '\n' || c == '\r' || c == '\u2028' || c == '\u2029' {
						endOfLine = i
						break
					}
				}
				lineText = lineText[:endOfLine]

				location = &Location{
					File:     msg.Source.PrettyPath,
					Line:     line,
					Column:   column,
					Length:   int(msg.Length),
					LineText: lineText,
				}
			}

			filtered = append(filtered, Message{
				Text:     msg.Text,
				Location: location,
			})
		}
	}
	return filtered
}

// Messages are always collected so they can be returned. They are also
// replayed to stderr unless logging is silenced.
func printMessages(msgs []logger.Msg, options TransformOptions) {
	if options.LogLevel == LogLevelSilent || len(msgs) == 0 {
		return
	}
	log, done := logger.NewStderrLog(logger.StderrOptions{
		IncludeSource: true,
		ErrorLimit:    options.ErrorLimit,
		Color:         validateColor(options.Color),
		LogLevel:      validateLogLevel(options.LogLevel),
	})
	for _, msg := range msgs {
		log.AddMsg(msg)
	}
	done()
}

////////////////////////////////////////////////////////////////////////////////
// Transform API

func transformImpl(input string, options TransformOptions) TransformResult {
	log, join := logger.NewDeferLog()
	library := validateLibrary(log, options.Library)
	z := validateLogger(options.Logger)

	sourcefile := options.Sourcefile
	if sourcefile == "" {
		sourcefile = "<stdin>"
	}
	source := logger.Source{
		IsStdin:      options.Sourcefile == "",
		AbsolutePath: sourcefile,
		PrettyPath:   sourcefile,
		Contents:     input,
	}

	var js []byte
	start := time.Now()
	if tree, ok := js_parser.Parse(log, source, js_parser.Options{}); ok {
		err := rewriter.Rewrite(log, source, &tree, rewriter.Options{
			Library:  library,
			Resolver: resolver.NewResolver(config.Options{Library: library, UseES: options.UseES}.ResolveOptions()),
			Logger:   z,
		})
		if err == nil {
			js = js_printer.Print(tree, js_printer.Options{
				MinifyWhitespace: options.MinifyWhitespace,
				ASCIIOnly:        options.ASCIIOnly,
			})
		}
	}

	msgs := join()
	printMessages(msgs, options)
	errors := messagesOfKind(logger.Error, msgs)
	if len(errors) > 0 {
		js = nil
	}
	z.Debug("transform finished",
		zap.String("file", sourcefile),
		zap.Int("errors", len(errors)),
		zap.Duration("elapsed", time.Since(start)))

	return TransformResult{
		Errors:   errors,
		Warnings: messagesOfKind(logger.Warning, msgs),
		JS:       js,
	}
}

////////////////////////////////////////////////////////////////////////////////
// Files API

type filesPlan struct {
	options     FilesOptions
	fs          fs.FS
	z           *zap.Logger
	parallelism int

	// Absolute input paths in input order
	inputs []string

	// Input paths are made relative to this to place them under "outdir"
	outbase      string
	absOutfile   string
	absOutputDir string
}

func planFiles(fsys fs.FS, paths []string, options FilesOptions) (*filesPlan, []logger.Msg) {
	log, join := logger.NewDeferLog()
	cfg := config.Options{
		Library:     validateLibrary(log, options.Library),
		UseES:       options.UseES,
		Parallelism: options.Parallelism,
	}.Normalize()
	options.Library = cfg.Library

	plan := &filesPlan{
		options:     options,
		fs:          fsys,
		z:           validateLogger(options.Logger),
		parallelism: cfg.Parallelism,
	}

	for _, path := range paths {
		absPath, ok := fsys.Abs(path)
		if !ok {
			log.AddError(logger.Source{}, logger.Loc{}, fmt.Sprintf("Invalid path: %s", path))
			continue
		}
		plan.inputs = append(plan.inputs, absPath)
	}

	if len(paths) == 0 {
		log.AddError(logger.Source{}, logger.Loc{}, "No input files")
	}
	if options.Outfile != "" && options.Outdir != "" {
		log.AddError(logger.Source{}, logger.Loc{}, "Cannot use both \"outfile\" and \"outdir\"")
	} else if options.Outfile != "" && len(paths) > 1 {
		log.AddError(logger.Source{}, logger.Loc{}, "Must use \"outdir\" when there are multiple input files")
	} else if options.Outfile != "" {
		plan.absOutfile, _ = fsys.Abs(options.Outfile)
	} else if options.Outdir != "" {
		plan.absOutputDir, _ = fsys.Abs(options.Outdir)
		plan.outbase = lowestCommonAncestorDirectory(fsys, plan.inputs)
	} else if options.Write {
		log.AddError(logger.Source{}, logger.Loc{}, "Must use \"outfile\" or \"outdir\" to write output files")
	}

	msgs := join()
	for _, msg := range msgs {
		if msg.Kind == logger.Error {
			return nil, msgs
		}
	}
	return plan, msgs
}

// Returns the deepest directory that contains every path
func lowestCommonAncestorDirectory(fsys fs.FS, paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	lowest := fsys.Dir(paths[0])
	for _, path := range paths[1:] {
		dir := fsys.Dir(path)
		for {
			if rel, ok := fsys.Rel(lowest, dir); ok && rel != ".." && !strings.HasPrefix(rel, "../") && !strings.HasPrefix(rel, `..\`) {
				break
			}
			parent := fsys.Dir(lowest)
			if parent == lowest {
				break
			}
			lowest = parent
		}
	}
	return lowest
}

func (plan *filesPlan) outputPathFor(absPath string) string {
	if plan.absOutfile != "" {
		return plan.absOutfile
	}
	if plan.absOutputDir != "" {
		if rel, ok := plan.fs.Rel(plan.outbase, absPath); ok {
			return plan.fs.Join(plan.absOutputDir, rel)
		}
		return plan.fs.Join(plan.absOutputDir, plan.fs.Base(absPath))
	}
	return ""
}

func (plan *filesPlan) transformFile(absPath string) FileResult {
	result := FileResult{Path: absPath}
	prettyPath := fs.PrettyPath(plan.fs, absPath)

	contents, err := plan.fs.ReadFile(absPath)
	if err != nil {
		result.Errors = []Message{{Text: fmt.Sprintf("Could not read from file %q: %s", prettyPath, err.Error())}}
		plan.z.Debug("read failed", zap.String("file", prettyPath), zap.Error(err))
		return result
	}

	options := plan.options.TransformOptions
	options.Sourcefile = prettyPath
	options.Logger = plan.z
	transform := transformImpl(contents, options)
	result.Errors = transform.Errors
	result.Warnings = transform.Warnings
	if len(result.Errors) > 0 {
		return result
	}

	output := &OutputFile{Path: plan.outputPathFor(absPath), Contents: transform.JS}
	if plan.options.Write {
		if err := plan.fs.WriteFile(output.Path, output.Contents); err != nil {
			err = fmt.Errorf("write %s: %w", output.Path, err)
			result.Errors = []Message{{Text: fmt.Sprintf("Failed to write to output file: %s", err.Error())}}
			plan.z.Debug("write failed", zap.String("file", prettyPath), zap.Error(err))
			return result
		}
	}
	result.OutputFile = output
	return result
}

// Every unit gets its own parse tree and rewriter state, so the only shared
// data is the read-only plan
func (plan *filesPlan) run(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))
	sem := make(chan struct{}, plan.parallelism)
	var wg sync.WaitGroup

	canceled := func(i int, path string) {
		results[i] = FileResult{Path: path, Errors: []Message{{Text: fmt.Sprintf("Canceled: %s", ctx.Err().Error())}}}
	}

	for i, path := range paths {
		if ctx.Err() != nil {
			canceled(i, path)
			continue
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			canceled(i, path)
			continue
		}
		wg.Add(1)
		go func(i int, path string) {
			defer func() {
				<-sem
				wg.Done()
			}()
			results[i] = plan.transformFile(path)
		}(i, path)
	}

	wg.Wait()
	return results
}

func transformFilesImpl(ctx context.Context, fsys fs.FS, paths []string, options FilesOptions) FilesResult {
	plan, msgs := planFiles(fsys, paths, options)
	printMessages(msgs, options.TransformOptions)
	if plan == nil {
		return FilesResult{Errors: messagesOfKind(logger.Error, msgs)}
	}

	start := time.Now()
	files := plan.run(ctx, plan.inputs)
	failed := 0
	for _, file := range files {
		if len(file.Errors) > 0 {
			failed++
		}
	}
	plan.z.Info("transformed files",
		zap.Int("files", len(files)),
		zap.Int("failed", failed),
		zap.Int("parallelism", plan.parallelism),
		zap.Duration("elapsed", time.Since(start)))
	return FilesResult{Files: files}
}
