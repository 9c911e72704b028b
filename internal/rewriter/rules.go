package rewriter

import (
	"fmt"

	"github.com/jsrewrite/ramdacut/internal/helpers"
	"github.com/jsrewrite/ramdacut/internal/js_ast"
	"github.com/jsrewrite/ramdacut/internal/js_lexer"
	"github.com/jsrewrite/ramdacut/internal/logger"
)

func (r *rewriter) rangeOfName(loc logger.Loc) logger.Range {
	if text := r.source.Contents[loc.Start:]; len(text) > 0 && (text[0] == '"' || text[0] == '\'') {
		return r.source.RangeOfString(loc)
	}
	return js_lexer.RangeOfIdentifier(r.source, loc)
}

func (r *rewriter) visitStmts(stmts []js_ast.Stmt) {
	for i := range stmts {
		r.visitStmt(&stmts[i])
	}
}

func (r *rewriter) visitStmt(stmt *js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty, *js_ast.SDebugger, *js_ast.SDirective, *js_ast.SImport,
		*js_ast.SBreak, *js_ast.SContinue:

	case *js_ast.SExportFrom:
		if s.Path.Text != r.library {
			return
		}

		// "export { a, b as c } from 'ramda'" => "export { _a as a, _b as c }"
		items := make([]js_ast.ClauseItem, len(s.Items))
		for i, item := range s.Items {
			value := r.inject(item.Name.Loc, r.rangeOfName(item.Name.Loc), item.OriginalName)
			items[i] = js_ast.ClauseItem{
				Alias:        item.Alias,
				AliasLoc:     item.AliasLoc,
				Name:         js_ast.LocRef{Loc: item.Name.Loc, Ref: value.Data.(*js_ast.EIdentifier).Ref},
				OriginalName: item.OriginalName,
			}
		}
		stmt.Data = &js_ast.SExportClause{Items: items}

	case *js_ast.SExportStar:
		if s.Path.Text == r.library {
			r.fail(UnsupportedPattern, r.source.RangeOfString(s.Path.Loc), fmt.Sprintf(
				"Wildcard re-export of %q cannot be rewritten into per-function imports", r.library))
		}

	case *js_ast.SExportClause:
		for i := range s.Items {
			item := &s.Items[i]
			if canonical, ok := r.tracker.isFunctionAlias(item.Name.Ref); ok {
				// The item keeps its exported name but now refers to the direct import
				r.tracker.dropUse(item.Name.Ref)
				value := r.inject(item.Name.Loc, r.rangeOfName(item.Name.Loc), canonical)
				item.Name.Ref = value.Data.(*js_ast.EIdentifier).Ref
			} else if r.tracker.isLibraryAlias(item.Name.Ref) {
				r.fail(UnsupportedPattern, r.rangeOfName(item.Name.Loc), fmt.Sprintf(
					"Cannot re-export %q because the whole library is no longer imported", r.tree.SymbolName(item.Name.Ref)))
			}
		}

	case *js_ast.SExportDefault:
		if s.Value.Expr != nil {
			r.visitExpr(s.Value.Expr)
		} else {
			r.visitStmt(s.Value.Stmt)
		}

	case *js_ast.SExpr:
		r.visitExpr(&s.Value)

	case *js_ast.SLocal:
		r.visitDecls(s.Decls)

	case *js_ast.SFunction:
		r.visitFn(&s.Fn)

	case *js_ast.SClass:
		r.visitClass(&s.Class)

	case *js_ast.SBlock:
		r.visitStmts(s.Stmts)

	case *js_ast.SLabel:
		r.visitStmt(&s.Stmt)

	case *js_ast.SIf:
		r.visitExpr(&s.Test)
		r.visitStmt(&s.Yes)
		if s.No != nil {
			r.visitStmt(s.No)
		}

	case *js_ast.SFor:
		if s.Init != nil {
			r.visitStmt(s.Init)
		}
		if s.Test != nil {
			r.visitExpr(s.Test)
		}
		if s.Update != nil {
			r.visitExpr(s.Update)
		}
		r.visitStmt(&s.Body)

	case *js_ast.SForIn:
		if init, ok := s.Init.Data.(*js_ast.SExpr); ok {
			r.checkAssignTarget(init.Value)
		}
		r.visitStmt(&s.Init)
		r.visitExpr(&s.Value)
		r.visitStmt(&s.Body)

	case *js_ast.SForOf:
		if init, ok := s.Init.Data.(*js_ast.SExpr); ok {
			r.checkAssignTarget(init.Value)
		}
		r.visitStmt(&s.Init)
		r.visitExpr(&s.Value)
		r.visitStmt(&s.Body)

	case *js_ast.SDoWhile:
		r.visitStmt(&s.Body)
		r.visitExpr(&s.Test)

	case *js_ast.SWhile:
		r.visitExpr(&s.Test)
		r.visitStmt(&s.Body)

	case *js_ast.SWith:
		r.visitExpr(&s.Value)
		r.visitStmt(&s.Body)

	case *js_ast.STry:
		r.visitStmts(s.Body)
		if s.Catch != nil {
			if s.Catch.Binding != nil {
				r.visitBinding(*s.Catch.Binding)
			}
			r.visitStmts(s.Catch.Body)
		}
		if s.Finally != nil {
			r.visitStmts(s.Finally.Stmts)
		}

	case *js_ast.SSwitch:
		r.visitExpr(&s.Test)
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.Value != nil {
				r.visitExpr(c.Value)
			}
			r.visitStmts(c.Body)
		}

	case *js_ast.SReturn:
		if s.Value != nil {
			r.visitExpr(s.Value)
		}

	case *js_ast.SThrow:
		r.visitExpr(&s.Value)

	default:
		panic(fmt.Sprintf("Unexpected statement of type %T", stmt.Data))
	}
}

func (r *rewriter) visitDecls(decls []js_ast.Decl) {
	for i := range decls {
		decl := &decls[i]
		r.visitBinding(decl.Binding)
		if decl.Value != nil {
			r.visitExpr(decl.Value)
		}
	}
}

// Bindings only contain expressions in default values and computed keys
func (r *rewriter) visitBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing, *js_ast.BIdentifier:

	case *js_ast.BArray:
		for i := range b.Items {
			item := &b.Items[i]
			r.visitBinding(item.Binding)
			if item.DefaultValue != nil {
				r.visitExpr(item.DefaultValue)
			}
		}

	case *js_ast.BObject:
		for i := range b.Properties {
			property := &b.Properties[i]
			if property.IsComputed {
				r.visitExpr(&property.Key)
			}
			r.visitBinding(property.Value)
			if property.DefaultValue != nil {
				r.visitExpr(property.DefaultValue)
			}
		}

	default:
		panic(fmt.Sprintf("Unexpected binding of type %T", binding.Data))
	}
}

func (r *rewriter) visitArgs(args []js_ast.Arg) {
	for i := range args {
		arg := &args[i]
		r.visitBinding(arg.Binding)
		if arg.Default != nil {
			r.visitExpr(arg.Default)
		}
	}
}

func (r *rewriter) visitFn(fn *js_ast.Fn) {
	r.visitArgs(fn.Args)
	r.visitStmts(fn.Body.Stmts)
}

func (r *rewriter) visitClass(class *js_ast.Class) {
	if class.Extends != nil {
		r.visitExpr(class.Extends)
	}
	r.visitProperties(class.Properties)
}

// Object literals and class bodies. A function alias used as a computed key
// or as a value is replaced directly. For a shorthand property "{ add }" the
// key stays "add" and only the value changes, so it prints as "add: _add".
func (r *rewriter) visitProperties(properties []js_ast.Property) {
	for i := range properties {
		property := &properties[i]
		if property.IsComputed && !r.rewriteFunctionAlias(&property.Key) {
			r.visitExpr(&property.Key)
		}
		if property.Value != nil && !r.rewriteFunctionAlias(property.Value) {
			r.visitExpr(property.Value)
		}
		if property.Initializer != nil {
			r.visitExpr(property.Initializer)
		}
	}
}

// Replaces "expr" if it's an identifier bound to a named import of the
// library. Returns true if it was replaced.
func (r *rewriter) rewriteFunctionAlias(expr *js_ast.Expr) bool {
	id, ok := expr.Data.(*js_ast.EIdentifier)
	if !ok {
		return false
	}
	canonical, ok := r.tracker.isFunctionAlias(id.Ref)
	if !ok {
		return false
	}
	r.tracker.dropUse(id.Ref)
	*expr = r.inject(expr.Loc, js_lexer.RangeOfIdentifier(r.source, expr.Loc), canonical)
	return true
}

// Returns true if "expr" is an identifier bound to a whole-library import
func (r *rewriter) isLibraryAliasExpr(expr js_ast.Expr) bool {
	id, ok := expr.Data.(*js_ast.EIdentifier)
	return ok && r.tracker.isLibraryAlias(id.Ref)
}

// A whole-library alias can't be replaced with "null" where it's written to,
// so this fails for "R = x", "R++" and destructuring targets like "[R] = x"
func (r *rewriter) checkAssignTarget(target js_ast.Expr) {
	switch e := target.Data.(type) {
	case *js_ast.EIdentifier:
		if r.tracker.isLibraryAlias(e.Ref) {
			r.fail(UnsupportedPattern, js_lexer.RangeOfIdentifier(r.source, target.Loc), fmt.Sprintf(
				"Cannot assign to %q because the whole library is no longer imported", r.tree.SymbolName(e.Ref)))
		}

	case *js_ast.EArray:
		for _, item := range e.Items {
			r.checkAssignTarget(item)
		}

	case *js_ast.EObject:
		for _, property := range e.Properties {
			if property.Value != nil {
				r.checkAssignTarget(*property.Value)
			}
		}

	case *js_ast.ESpread:
		r.checkAssignTarget(e.Value)

	case *js_ast.EBinary:
		// "[R = 1] = x"
		if e.Op == js_ast.BinOpAssign {
			r.checkAssignTarget(e.Left)
		}
	}
}

func (r *rewriter) visitExprs(exprs []js_ast.Expr) {
	for i := range exprs {
		r.visitExpr(&exprs[i])
	}
}

func (r *rewriter) visitExpr(expr *js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing, *js_ast.ENull, *js_ast.EThis, *js_ast.ESuper, *js_ast.EBoolean,
		*js_ast.ENumber, *js_ast.EBigInt, *js_ast.EString, *js_ast.ERegExp,
		*js_ast.ENewTarget, *js_ast.EImportMeta, *js_ast.EPrivateIdentifier:

	case *js_ast.EDot:
		// "R.add" and "R?.add" => "_add"
		if r.isLibraryAliasExpr(e.Target) {
			r.tracker.dropUse(e.Target.Data.(*js_ast.EIdentifier).Ref)
			nameRange := logger.Range{Loc: e.NameLoc, Len: int32(len(e.Name))}
			*expr = r.inject(expr.Loc, nameRange, e.Name)
			return
		}
		r.visitExpr(&e.Target)

	case *js_ast.EIndex:
		// "R['add']" => "_add"
		if r.isLibraryAliasExpr(e.Target) {
			str, ok := e.Index.Data.(*js_ast.EString)
			if !ok {
				r.fail(UnsupportedPattern, logger.Range{Loc: e.Index.Loc}, fmt.Sprintf(
					"Computed access on %q must use a string literal", r.tree.SymbolName(e.Target.Data.(*js_ast.EIdentifier).Ref)))
			}
			r.tracker.dropUse(e.Target.Data.(*js_ast.EIdentifier).Ref)
			*expr = r.inject(expr.Loc, r.source.RangeOfString(e.Index.Loc), helpers.UTF16ToString(str.Value))
			return
		}
		r.visitExpr(&e.Target)
		r.visitExpr(&e.Index)

	case *js_ast.ECall:
		// The callee and any argument that is a bare function alias are
		// replaced. Everything else is visited normally.
		if !r.rewriteFunctionAlias(&e.Target) {
			r.visitExpr(&e.Target)
		}
		for i := range e.Args {
			if !r.rewriteFunctionAlias(&e.Args[i]) {
				r.visitExpr(&e.Args[i])
			}
		}

	case *js_ast.EObject:
		r.visitProperties(e.Properties)

	case *js_ast.EIdentifier:
		// This is reached only for identifiers in positions that no rule
		// above claimed
		if canonical, ok := r.tracker.isFunctionAlias(e.Ref); ok {
			r.tracker.dropUse(e.Ref)
			*expr = r.inject(expr.Loc, js_lexer.RangeOfIdentifier(r.source, expr.Loc), canonical)
		} else if r.tracker.isLibraryAlias(e.Ref) {
			// There's nothing left to refer to once the library import is gone
			r.tracker.dropUse(e.Ref)
			*expr = js_ast.Expr{Loc: expr.Loc, Data: &js_ast.ENull{}}
		}

	case *js_ast.EArray:
		r.visitExprs(e.Items)

	case *js_ast.EUnary:
		if e.Op.IsUnaryUpdate() {
			r.checkAssignTarget(e.Value)
		}
		r.visitExpr(&e.Value)

	case *js_ast.EBinary:
		if e.Op.IsBinaryAssign() {
			r.checkAssignTarget(e.Left)
		}
		r.visitExpr(&e.Left)
		r.visitExpr(&e.Right)

	case *js_ast.EIf:
		r.visitExpr(&e.Test)
		r.visitExpr(&e.Yes)
		r.visitExpr(&e.No)

	case *js_ast.ENew:
		r.visitExpr(&e.Target)
		r.visitExprs(e.Args)

	case *js_ast.ESpread:
		r.visitExpr(&e.Value)

	case *js_ast.EAwait:
		r.visitExpr(&e.Value)

	case *js_ast.EYield:
		if e.Value != nil {
			r.visitExpr(e.Value)
		}

	case *js_ast.ETemplate:
		if e.Tag != nil {
			r.visitExpr(e.Tag)
		}
		for i := range e.Parts {
			r.visitExpr(&e.Parts[i].Value)
		}

	case *js_ast.EImport:
		// "import('ramda')" is left alone
		r.visitExpr(&e.Expr)

	case *js_ast.EArrow:
		r.visitArgs(e.Args)
		r.visitStmts(e.Body.Stmts)

	case *js_ast.EFunction:
		r.visitFn(&e.Fn)

	case *js_ast.EClass:
		r.visitClass(&e.Class)

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}
}
