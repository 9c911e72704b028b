package js_parser

import (
	"fmt"

	"github.com/jsrewrite/ramdacut/internal/js_ast"
	"github.com/jsrewrite/ramdacut/internal/js_lexer"
	"github.com/jsrewrite/ramdacut/internal/logger"
)

// The binder walks the tree produced by the parser, builds the scope tree and
// replaces every name-carrying ref with a ref into the symbol table. After
// binding, two identifiers refer to the same variable if and only if their
// refs are equal after following links.
type binder struct {
	log            logger.Log
	source         logger.Source
	tree           js_ast.AST
	scope          *js_ast.Scope
	allocatedNames []string
	exportAliases  map[string]bool
	hasErrors      bool
}

func newBinder(log logger.Log, source logger.Source, allocatedNames []string) *binder {
	return &binder{
		log:            log,
		source:         source,
		allocatedNames: allocatedNames,
		exportAliases:  make(map[string]bool),
	}
}

func (b *binder) loadNameFromRef(ref js_ast.Ref) string {
	if ref.InnerIndex&nameRefFlag == 0 {
		panic("Internal error: identifier was bound twice")
	}
	return b.allocatedNames[ref.InnerIndex&^nameRefFlag]
}

func (b *binder) addRangeError(r logger.Range, text string) {
	b.hasErrors = true
	b.log.AddRangeError(b.source, r, text)
}

func (b *binder) pushScope(kind js_ast.ScopeKind) *js_ast.Scope {
	parent := b.scope
	scope := &js_ast.Scope{
		Kind:     kind,
		Parent:   parent,
		Members:  make(map[string]js_ast.Ref),
		LabelRef: js_ast.InvalidRef,
	}
	if parent != nil {
		parent.Children = append(parent.Children, scope)
	}
	b.scope = scope
	return scope
}

func (b *binder) popScope() {
	b.scope = b.scope.Parent
}

func (b *binder) findSymbol(name string) js_ast.Ref {
	for s := b.scope; s != nil; s = s.Parent {
		if ref, ok := s.Members[name]; ok {
			b.tree.Symbols[ref.InnerIndex].UseCountEstimate++
			return ref
		}
	}

	// Allocate an "unbound" symbol in the module scope
	ref := b.tree.NewSymbol(js_ast.SymbolUnbound, name)
	b.tree.ModuleScope.Members[name] = ref
	b.tree.Symbols[ref.InnerIndex].UseCountEstimate++
	return ref
}

func (b *binder) findLabelSymbol(loc logger.Loc, name string) js_ast.Ref {
	for s := b.scope; s != nil && !s.Kind.StopsHoisting(); s = s.Parent {
		if s.Kind == js_ast.ScopeLabel && b.tree.Symbols[s.LabelRef.InnerIndex].OriginalName == name {
			return s.LabelRef
		}
	}

	r := js_lexer.RangeOfIdentifier(b.source, loc)
	b.addRangeError(r, fmt.Sprintf("There is no containing label named %q", name))
	return js_ast.InvalidRef
}

func (b *binder) alreadyDeclared(loc logger.Loc, name string) {
	r := js_lexer.RangeOfIdentifier(b.source, loc)
	b.addRangeError(r, fmt.Sprintf("%q has already been declared", name))
}

func (b *binder) declareSymbol(kind js_ast.SymbolKind, loc logger.Loc, name string) js_ast.Ref {
	if kind == js_ast.SymbolHoisted {
		return b.declareHoistedSymbol(loc, name)
	}

	scope := b.scope
	if existing, ok := scope.Members[name]; ok {
		symbol := &b.tree.Symbols[existing.InnerIndex]
		switch {
		case symbol.Kind == js_ast.SymbolUnbound:
			// Replace the unbound symbol and redirect earlier uses to the new one
			ref := b.tree.NewSymbol(kind, name)
			b.tree.Symbols[existing.InnerIndex].Link = ref
			scope.Members[name] = ref
			return ref

		case kind == js_ast.SymbolHoistedFunction && symbol.Kind.IsHoisted() && scope.Kind.StopsHoisting():
			// "var f; function f() {}"
			symbol.Kind = js_ast.SymbolHoistedFunction
			return existing

		default:
			b.alreadyDeclared(loc, name)
			return existing
		}
	}

	// Lexical declarations at the top of a function body can't reuse argument names
	if scope.Kind == js_ast.ScopeFunctionBody && kind != js_ast.SymbolHoistedFunction {
		if _, ok := scope.Parent.Members[name]; ok {
			b.alreadyDeclared(loc, name)
		}
	}

	ref := b.tree.NewSymbol(kind, name)
	scope.Members[name] = ref
	return ref
}

// "var" declarations belong to the nearest function or module scope but still
// collide with lexical declarations in every scope in between.
func (b *binder) declareHoistedSymbol(loc logger.Loc, name string) js_ast.Ref {
	var intermediate []*js_ast.Scope
	ref := js_ast.InvalidRef

	for s := b.scope; ; s = s.Parent {
		if existing, ok := s.Members[name]; ok {
			symbol := &b.tree.Symbols[existing.InnerIndex]
			switch {
			case symbol.Kind == js_ast.SymbolCatchIdentifier && s.Kind == js_ast.ScopeCatchBinding:
				// "try {} catch (e) { var e }"
				ref = existing

			case symbol.Kind == js_ast.SymbolHoisted:
				if s.Kind.StopsHoisting() {
					ref = existing
				} else {
					// Left behind by an earlier "var" in a nested block
					intermediate = append(intermediate, s)
					continue
				}

			case symbol.Kind == js_ast.SymbolHoistedFunction && s.Kind.StopsHoisting():
				ref = existing

			case symbol.Kind == js_ast.SymbolUnbound:
				ref = b.tree.NewSymbol(js_ast.SymbolHoisted, name)
				b.tree.Symbols[existing.InnerIndex].Link = ref
				s.Members[name] = ref

			default:
				b.alreadyDeclared(loc, name)
				return existing
			}
			break
		}

		if s.Kind.StopsHoisting() {
			// "function f(a) { var a }" refers to the argument
			if s.Kind == js_ast.ScopeFunctionBody {
				if existing, ok := s.Parent.Members[name]; ok {
					ref = existing
					s.Members[name] = ref
					break
				}
			}
			ref = b.tree.NewSymbol(js_ast.SymbolHoisted, name)
			s.Members[name] = ref
			break
		}

		intermediate = append(intermediate, s)
	}

	for _, s := range intermediate {
		s.Members[name] = ref
	}
	return ref
}

func (b *binder) recordExport(loc logger.Loc, alias string) {
	if b.exportAliases[alias] {
		b.addRangeError(js_lexer.RangeOfIdentifier(b.source, loc),
			fmt.Sprintf("Multiple exports with the same name %q", alias))
		return
	}
	b.exportAliases[alias] = true
}

func (b *binder) declareBinding(kind js_ast.SymbolKind, binding js_ast.Binding) {
	switch d := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		d.Ref = b.declareSymbol(kind, binding.Loc, b.loadNameFromRef(d.Ref))

	case *js_ast.BArray:
		for _, item := range d.Items {
			b.declareBinding(kind, item.Binding)
		}

	case *js_ast.BObject:
		for _, property := range d.Properties {
			b.declareBinding(kind, property.Value)
		}

	default:
		panic("Internal error")
	}
}

func (b *binder) recordBindingExports(binding js_ast.Binding) {
	switch d := binding.Data.(type) {
	case *js_ast.BIdentifier:
		b.recordExport(binding.Loc, b.tree.Symbols[d.Ref.InnerIndex].OriginalName)

	case *js_ast.BArray:
		for _, item := range d.Items {
			b.recordBindingExports(item.Binding)
		}

	case *js_ast.BObject:
		for _, property := range d.Properties {
			b.recordBindingExports(property.Value)
		}
	}
}

// Declares the "var" names of a function or module body before anything in it
// is bound, so that uses which come before the declaration resolve to it. The
// refs are left alone and are bound when the declaration itself is visited.
func (b *binder) hoistVars(stmts []js_ast.Stmt) {
	for i := range stmts {
		b.hoistVarsInStmt(&stmts[i])
	}
}

func (b *binder) hoistVarsInStmt(stmt *js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SLocal:
		if s.Kind == js_ast.LocalVar {
			for _, decl := range s.Decls {
				b.hoistBinding(decl.Binding)
			}
		}

	case *js_ast.SBlock:
		b.hoistVars(s.Stmts)

	case *js_ast.SIf:
		b.hoistVarsInStmt(&s.Yes)
		if s.No != nil {
			b.hoistVarsInStmt(s.No)
		}

	case *js_ast.SFor:
		if s.Init != nil {
			b.hoistVarsInStmt(s.Init)
		}
		b.hoistVarsInStmt(&s.Body)

	case *js_ast.SForIn:
		b.hoistVarsInStmt(&s.Init)
		b.hoistVarsInStmt(&s.Body)

	case *js_ast.SForOf:
		b.hoistVarsInStmt(&s.Init)
		b.hoistVarsInStmt(&s.Body)

	case *js_ast.SWhile:
		b.hoistVarsInStmt(&s.Body)

	case *js_ast.SDoWhile:
		b.hoistVarsInStmt(&s.Body)

	case *js_ast.SWith:
		b.hoistVarsInStmt(&s.Body)

	case *js_ast.SLabel:
		b.hoistVarsInStmt(&s.Stmt)

	case *js_ast.STry:
		b.hoistVars(s.Body)
		if s.Catch != nil {
			b.hoistVars(s.Catch.Body)
		}
		if s.Finally != nil {
			b.hoistVars(s.Finally.Stmts)
		}

	case *js_ast.SSwitch:
		for _, c := range s.Cases {
			b.hoistVars(c.Body)
		}
	}
}

func (b *binder) hoistBinding(binding js_ast.Binding) {
	switch d := binding.Data.(type) {
	case *js_ast.BIdentifier:
		b.declareHoistedSymbol(binding.Loc, b.loadNameFromRef(d.Ref))

	case *js_ast.BArray:
		for _, item := range d.Items {
			b.hoistBinding(item.Binding)
		}

	case *js_ast.BObject:
		for _, property := range d.Properties {
			b.hoistBinding(property.Value)
		}
	}
}

func (b *binder) bindModule(stmts []js_ast.Stmt) {
	b.tree.ModuleScope = b.pushScope(js_ast.ScopeEntry)
	b.hoistVars(stmts)
	b.declareAndVisitStmts(stmts)
	b.popScope()
}

func (b *binder) declareAndVisitStmts(stmts []js_ast.Stmt) {
	for i := range stmts {
		b.declareStmt(&stmts[i])
	}
	for i := range stmts {
		b.visitStmt(&stmts[i])
	}
}

// Lexical declarations are visible to the whole enclosing block, so they are
// declared before anything in the block is visited.
func (b *binder) declareStmt(stmt *js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SLocal:
		kind := js_ast.SymbolOther
		if s.Kind == js_ast.LocalVar {
			kind = js_ast.SymbolHoisted
		}
		for _, decl := range s.Decls {
			b.declareBinding(kind, decl.Binding)
			if s.IsExport {
				b.recordBindingExports(decl.Binding)
			}
		}

	case *js_ast.SFunction:
		if s.Fn.Name != nil {
			name := b.loadNameFromRef(s.Fn.Name.Ref)
			s.Fn.Name.Ref = b.declareSymbol(js_ast.SymbolHoistedFunction, s.Fn.Name.Loc, name)
			if s.IsExport {
				b.recordExport(s.Fn.Name.Loc, name)
			}
		}

	case *js_ast.SClass:
		if s.Class.Name != nil {
			name := b.loadNameFromRef(s.Class.Name.Ref)
			s.Class.Name.Ref = b.declareSymbol(js_ast.SymbolClass, s.Class.Name.Loc, name)
			if s.IsExport {
				b.recordExport(s.Class.Name.Loc, name)
			}
		}

	case *js_ast.SImport:
		if s.DefaultName != nil {
			s.DefaultName.Ref = b.declareSymbol(js_ast.SymbolImport, s.DefaultName.Loc, b.loadNameFromRef(s.DefaultName.Ref))
		}
		if s.StarNameLoc != nil {
			s.NamespaceRef = b.declareSymbol(js_ast.SymbolImport, *s.StarNameLoc, b.loadNameFromRef(s.NamespaceRef))
		}
		if s.Items != nil {
			for i := range *s.Items {
				item := &(*s.Items)[i]
				item.Name.Ref = b.declareSymbol(js_ast.SymbolImport, item.Name.Loc, b.loadNameFromRef(item.Name.Ref))
			}
		}

	case *js_ast.SExportDefault:
		if s.Value.Stmt != nil {
			b.declareStmt(s.Value.Stmt)
		}
		s.DefaultName.Ref = b.tree.NewSymbol(js_ast.SymbolOther, b.loadNameFromRef(s.DefaultName.Ref))
		b.recordExport(s.DefaultName.Loc, "default")

	case *js_ast.SExportClause:
		for _, item := range s.Items {
			b.recordExport(item.AliasLoc, item.Alias)
		}

	case *js_ast.SExportFrom:
		for _, item := range s.Items {
			b.recordExport(item.AliasLoc, item.Alias)
		}

	case *js_ast.SExportStar:
		if s.Alias != nil {
			b.recordExport(s.Alias.Loc, s.Alias.OriginalName)
		}
	}
}

// Visits a statement that is the body of another statement. These can still
// contain declarations ("if (a) function b() {}") which must not leak out.
func (b *binder) visitSingleStmt(stmt *js_ast.Stmt) {
	if _, ok := stmt.Data.(*js_ast.SBlock); ok {
		b.visitStmt(stmt)
		return
	}
	b.pushScope(js_ast.ScopeBlock)
	b.declareStmt(stmt)
	b.visitStmt(stmt)
	b.popScope()
}

func (b *binder) visitStmt(stmt *js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty, *js_ast.SDebugger, *js_ast.SDirective, *js_ast.SImport,
		*js_ast.SExportStar:

	case *js_ast.SExportFrom:
		// These names belong to the other module and never become symbols here
		for i := range s.Items {
			s.Items[i].Name.Ref = js_ast.InvalidRef
		}

	case *js_ast.SExportClause:
		for i := range s.Items {
			item := &s.Items[i]
			item.Name.Ref = b.findSymbol(b.loadNameFromRef(item.Name.Ref))
		}

	case *js_ast.SExportDefault:
		if s.Value.Stmt != nil {
			b.visitStmt(s.Value.Stmt)
		} else {
			b.visitExpr(s.Value.Expr)
		}

	case *js_ast.SBlock:
		b.pushScope(js_ast.ScopeBlock)
		b.declareAndVisitStmts(s.Stmts)
		b.popScope()

	case *js_ast.SExpr:
		b.visitExpr(&s.Value)

	case *js_ast.SReturn:
		if s.Value != nil {
			b.visitExpr(s.Value)
		}

	case *js_ast.SThrow:
		b.visitExpr(&s.Value)

	case *js_ast.SLocal:
		for i := range s.Decls {
			decl := &s.Decls[i]
			b.visitBinding(decl.Binding)
			if decl.Value != nil {
				b.visitExpr(decl.Value)
			}
		}

	case *js_ast.SFunction:
		b.visitFn(&s.Fn)

	case *js_ast.SClass:
		b.visitClass(&s.Class)

	case *js_ast.SLabel:
		scope := b.pushScope(js_ast.ScopeLabel)
		s.Name.Ref = b.tree.NewSymbol(js_ast.SymbolOther, b.loadNameFromRef(s.Name.Ref))
		scope.LabelRef = s.Name.Ref
		b.visitSingleStmt(&s.Stmt)
		b.popScope()

	case *js_ast.SBreak:
		if s.Label != nil {
			s.Label.Ref = b.findLabelSymbol(s.Label.Loc, b.loadNameFromRef(s.Label.Ref))
		}

	case *js_ast.SContinue:
		if s.Label != nil {
			s.Label.Ref = b.findLabelSymbol(s.Label.Loc, b.loadNameFromRef(s.Label.Ref))
		}

	case *js_ast.SIf:
		b.visitExpr(&s.Test)
		b.visitSingleStmt(&s.Yes)
		if s.No != nil {
			b.visitSingleStmt(s.No)
		}

	case *js_ast.SFor:
		b.pushScope(js_ast.ScopeBlock)
		if s.Init != nil {
			b.declareStmt(s.Init)
			b.visitStmt(s.Init)
		}
		if s.Test != nil {
			b.visitExpr(s.Test)
		}
		if s.Update != nil {
			b.visitExpr(s.Update)
		}
		b.visitSingleStmt(&s.Body)
		b.popScope()

	case *js_ast.SForIn:
		b.pushScope(js_ast.ScopeBlock)
		b.declareStmt(&s.Init)
		b.visitStmt(&s.Init)
		b.visitExpr(&s.Value)
		b.visitSingleStmt(&s.Body)
		b.popScope()

	case *js_ast.SForOf:
		b.pushScope(js_ast.ScopeBlock)
		b.declareStmt(&s.Init)
		b.visitStmt(&s.Init)
		b.visitExpr(&s.Value)
		b.visitSingleStmt(&s.Body)
		b.popScope()

	case *js_ast.SDoWhile:
		b.visitSingleStmt(&s.Body)
		b.visitExpr(&s.Test)

	case *js_ast.SWhile:
		b.visitExpr(&s.Test)
		b.visitSingleStmt(&s.Body)

	case *js_ast.SWith:
		b.visitExpr(&s.Value)
		b.pushScope(js_ast.ScopeWith)
		b.visitSingleStmt(&s.Body)
		b.popScope()

	case *js_ast.STry:
		b.pushScope(js_ast.ScopeBlock)
		b.declareAndVisitStmts(s.Body)
		b.popScope()

		if s.Catch != nil {
			b.pushScope(js_ast.ScopeCatchBinding)
			if s.Catch.Binding != nil {
				kind := js_ast.SymbolOther
				if _, ok := s.Catch.Binding.Data.(*js_ast.BIdentifier); ok {
					kind = js_ast.SymbolCatchIdentifier
				}
				b.declareBinding(kind, *s.Catch.Binding)
				b.visitBinding(*s.Catch.Binding)
			}
			b.pushScope(js_ast.ScopeBlock)
			b.declareAndVisitStmts(s.Catch.Body)
			b.popScope()
			b.popScope()
		}

		if s.Finally != nil {
			b.pushScope(js_ast.ScopeBlock)
			b.declareAndVisitStmts(s.Finally.Stmts)
			b.popScope()
		}

	case *js_ast.SSwitch:
		b.visitExpr(&s.Test)
		b.pushScope(js_ast.ScopeBlock)
		for i := range s.Cases {
			for j := range s.Cases[i].Body {
				b.declareStmt(&s.Cases[i].Body[j])
			}
		}
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.Value != nil {
				b.visitExpr(c.Value)
			}
			for j := range c.Body {
				b.visitStmt(&c.Body[j])
			}
		}
		b.popScope()

	default:
		panic("Internal error")
	}
}

// Binds the identifiers used inside a binding pattern. The names it declares
// have already been handled by "declareBinding".
func (b *binder) visitBinding(binding js_ast.Binding) {
	switch d := binding.Data.(type) {
	case *js_ast.BMissing, *js_ast.BIdentifier:

	case *js_ast.BArray:
		for _, item := range d.Items {
			b.visitBinding(item.Binding)
			if item.DefaultValue != nil {
				b.visitExpr(item.DefaultValue)
			}
		}

	case *js_ast.BObject:
		for i := range d.Properties {
			property := &d.Properties[i]
			if property.IsComputed {
				b.visitExpr(&property.Key)
			}
			b.visitBinding(property.Value)
			if property.DefaultValue != nil {
				b.visitExpr(property.DefaultValue)
			}
		}

	default:
		panic("Internal error")
	}
}

func (b *binder) visitFn(fn *js_ast.Fn) {
	b.visitFnBody(fn.Args, &fn.Body, false /* isArrow */)
}

func (b *binder) visitFnBody(args []js_ast.Arg, body *js_ast.FnBody, isArrow bool) {
	b.pushScope(js_ast.ScopeFunctionArgs)
	for _, arg := range args {
		b.declareBinding(js_ast.SymbolHoisted, arg.Binding)
	}
	if _, ok := b.scope.Members["arguments"]; !ok && !isArrow {
		b.scope.Members["arguments"] = b.tree.NewSymbol(js_ast.SymbolArguments, "arguments")
	}
	for i := range args {
		b.visitBinding(args[i].Binding)
		if args[i].Default != nil {
			b.visitExpr(args[i].Default)
		}
	}

	b.pushScope(js_ast.ScopeFunctionBody)
	b.hoistVars(body.Stmts)
	b.declareAndVisitStmts(body.Stmts)
	b.popScope()
	b.popScope()
}

func (b *binder) visitClass(class *js_ast.Class) {
	if class.Extends != nil {
		b.visitExpr(class.Extends)
	}
	b.visitProperties(class.Properties)
}

func (b *binder) visitProperties(properties []js_ast.Property) {
	for i := range properties {
		property := &properties[i]
		if property.IsComputed {
			b.visitExpr(&property.Key)
		}
		if property.Value != nil {
			b.visitExpr(property.Value)
		}
		if property.Initializer != nil {
			b.visitExpr(property.Initializer)
		}
	}
}

func (b *binder) visitExprs(exprs []js_ast.Expr) {
	for i := range exprs {
		b.visitExpr(&exprs[i])
	}
}

func (b *binder) visitExpr(expr *js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing, *js_ast.ENull, *js_ast.ESuper, *js_ast.EBoolean, *js_ast.ENumber,
		*js_ast.EBigInt, *js_ast.EString, *js_ast.ERegExp, *js_ast.EThis, *js_ast.ENewTarget,
		*js_ast.EImportMeta, *js_ast.EPrivateIdentifier:

	case *js_ast.EIdentifier:
		e.Ref = b.findSymbol(b.loadNameFromRef(e.Ref))

	case *js_ast.ETemplate:
		if e.Tag != nil {
			b.visitExpr(e.Tag)
		}
		for i := range e.Parts {
			b.visitExpr(&e.Parts[i].Value)
		}

	case *js_ast.EBinary:
		b.visitExpr(&e.Left)
		b.visitExpr(&e.Right)

	case *js_ast.EUnary:
		b.visitExpr(&e.Value)

	case *js_ast.EDot:
		b.visitExpr(&e.Target)

	case *js_ast.EIndex:
		b.visitExpr(&e.Target)
		b.visitExpr(&e.Index)

	case *js_ast.EIf:
		b.visitExpr(&e.Test)
		b.visitExpr(&e.Yes)
		b.visitExpr(&e.No)

	case *js_ast.EAwait:
		b.visitExpr(&e.Value)

	case *js_ast.EYield:
		if e.Value != nil {
			b.visitExpr(e.Value)
		}

	case *js_ast.EArray:
		b.visitExprs(e.Items)

	case *js_ast.EObject:
		b.visitProperties(e.Properties)

	case *js_ast.ESpread:
		b.visitExpr(&e.Value)

	case *js_ast.EImport:
		b.visitExpr(&e.Expr)

	case *js_ast.ECall:
		b.visitExpr(&e.Target)
		b.visitExprs(e.Args)

	case *js_ast.ENew:
		b.visitExpr(&e.Target)
		b.visitExprs(e.Args)

	case *js_ast.EArrow:
		b.visitFnBody(e.Args, &e.Body, true /* isArrow */)

	case *js_ast.EFunction:
		// The name of a function expression is only visible inside it
		if e.Fn.Name != nil {
			b.pushScope(js_ast.ScopeBlock)
			e.Fn.Name.Ref = b.declareSymbol(js_ast.SymbolOther, e.Fn.Name.Loc, b.loadNameFromRef(e.Fn.Name.Ref))
			b.visitFn(&e.Fn)
			b.popScope()
		} else {
			b.visitFn(&e.Fn)
		}

	case *js_ast.EClass:
		if e.Class.Name != nil {
			b.pushScope(js_ast.ScopeClassName)
			e.Class.Name.Ref = b.declareSymbol(js_ast.SymbolClass, e.Class.Name.Loc, b.loadNameFromRef(e.Class.Name.Ref))
			b.visitClass(&e.Class)
			b.popScope()
		} else {
			b.visitClass(&e.Class)
		}

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}
}
