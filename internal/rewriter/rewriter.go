package rewriter

// This package replaces whole-library imports of a utility library with one
// import per function that is actually used:
//
//   import * as R from "ramda";          import _add from "ramda/src/add";
//   import { map } from "ramda";    =>   import _map from "ramda/src/map";
//   map(R.add(1), [1, 2, 3]);            _map(_add(1), [1, 2, 3]);
//
// Each call to Rewrite owns all of its state, so independent units can be
// rewritten concurrently.

import (
	"fmt"
	"time"

	"github.com/jsrewrite/ramdacut/internal/js_ast"
	"github.com/jsrewrite/ramdacut/internal/logger"
	"github.com/jsrewrite/ramdacut/internal/resolver"
	"go.uber.org/zap"
)

type ErrorKind uint8

const (
	// The library is used in a way that can't be statically rewritten, such as
	// "export * from 'ramda'" or "R[name]"
	UnsupportedPattern ErrorKind = iota

	// The resolver doesn't know which module exports a function
	UnresolvableName
)

func (kind ErrorKind) String() string {
	switch kind {
	case UnsupportedPattern:
		return "unsupported pattern"
	case UnresolvableName:
		return "unresolvable name"
	default:
		panic("Internal error")
	}
}

// A fatal error for one unit. The same error has also been added to the log
// passed to Rewrite.
type Error struct {
	Kind  ErrorKind
	Range logger.Range
	Text  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Text)
}

type Options struct {
	// The import path that triggers rewriting. Defaults to "ramda".
	Library string

	// Defaults to a resolver for "Library" using the CommonJS build
	Resolver resolver.Resolver

	// Operational tracing. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Used to unwind out of a unit on the first fatal error
type rewriteAbort struct {
	err *Error
}

// The state for rewriting one unit. A new one is created for every call to
// Rewrite and nothing in it outlives that call.
type rewriter struct {
	log     logger.Log
	source  logger.Source
	tree    *js_ast.AST
	library string
	zap     *zap.Logger

	tracker  tracker
	memoizer memoizer
}

// Rewrites "tree" in place. If the library is not imported or re-exported,
// the tree is left untouched. On a fatal error the tree may be partially
// rewritten and must be discarded.
func Rewrite(log logger.Log, source logger.Source, tree *js_ast.AST, options Options) (err error) {
	library := options.Library
	if library == "" {
		library = resolver.DefaultLibrary
	}
	res := options.Resolver
	if res == nil {
		res = resolver.NewResolver(resolver.ResolveOptions{Library: library})
	}
	z := options.Logger
	if z == nil {
		z = zap.NewNop()
	}

	if !referencesLibrary(tree.Stmts, library) {
		z.Debug("library not referenced", zap.String("file", source.PrettyPath), zap.String("library", library))
		return nil
	}

	r := &rewriter{
		log:      log,
		source:   source,
		tree:     tree,
		library:  library,
		zap:      z.With(zap.String("file", source.PrettyPath)),
		tracker:  newTracker(tree),
		memoizer: newMemoizer(tree, res),
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			abort, ok := recovered.(rewriteAbort)
			if !ok {
				panic(recovered)
			}
			err = abort.err
		}
	}()

	start := time.Now()
	r.rewriteModule()
	r.zap.Debug("rewrote unit",
		zap.Int("injected", len(r.memoizer.imports)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func referencesLibrary(stmts []js_ast.Stmt, library string) bool {
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SImport:
			if s.Path.Text == library {
				return true
			}
		case *js_ast.SExportFrom:
			if s.Path.Text == library {
				return true
			}
		case *js_ast.SExportStar:
			if s.Path.Text == library {
				return true
			}
		}
	}
	return false
}

func (r *rewriter) fail(kind ErrorKind, rng logger.Range, text string) {
	r.log.AddRangeError(r.source, rng, text)
	r.zap.Debug("rewrite failed", zap.Stringer("kind", kind), zap.String("reason", text))
	panic(rewriteAbort{err: &Error{Kind: kind, Range: rng, Text: text}})
}

func (r *rewriter) rewriteModule() {
	// Record and remove every import of the library before visiting anything
	// else. Uses are matched by symbol, so their position doesn't matter.
	stmts := r.tree.Stmts[:0]
	for _, stmt := range r.tree.Stmts {
		if s, ok := stmt.Data.(*js_ast.SImport); ok && s.Path.Text == r.library {
			r.tracker.recordImport(s)
			r.zap.Debug("removed library import", zap.Int("line", r.lineOf(stmt.Loc)))
			continue
		}
		stmts = append(stmts, stmt)
	}
	r.tree.Stmts = stmts

	r.visitStmts(r.tree.Stmts)

	for _, name := range r.tracker.unusedAliases() {
		r.zap.Debug("library import has no uses", zap.String("name", name))
	}

	// Injected imports go after the directive prologue in first-use order
	if len(r.memoizer.imports) > 0 {
		prologue := 0
		for prologue < len(r.tree.Stmts) {
			if _, ok := r.tree.Stmts[prologue].Data.(*js_ast.SDirective); !ok {
				break
			}
			prologue++
		}
		result := make([]js_ast.Stmt, 0, len(r.tree.Stmts)+len(r.memoizer.imports))
		result = append(result, r.tree.Stmts[:prologue]...)
		result = append(result, r.memoizer.imports...)
		result = append(result, r.tree.Stmts[prologue:]...)
		r.tree.Stmts = result
	}
}

func (r *rewriter) lineOf(loc logger.Loc) int {
	line, _, _ := logger.ComputeLineAndColumn(r.source.Contents[:loc.Start])
	return line + 1
}

// Returns a reference to the direct import of "name", injecting the import on
// first use. "rng" is where the name came from and is used for diagnostics.
func (r *rewriter) inject(loc logger.Loc, rng logger.Range, name string) js_ast.Expr {
	ref, path, isNew, ok := r.memoizer.lookup(name)
	if !ok {
		r.fail(UnresolvableName, rng, fmt.Sprintf("Could not resolve %q as a function exported by %q", name, r.library))
	}
	if isNew {
		r.zap.Debug("injected import",
			zap.String("name", name),
			zap.String("local", r.tree.SymbolName(ref)),
			zap.String("path", path))
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: ref}}
}
