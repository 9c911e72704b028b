package rewriter

import (
	"strconv"

	"github.com/jsrewrite/ramdacut/internal/js_ast"
	"github.com/jsrewrite/ramdacut/internal/resolver"
)

// Hands out one default import per function. All use sites of a function
// share the symbol of its import but each gets its own identifier node.
type memoizer struct {
	tree     *js_ast.AST
	resolver resolver.Resolver

	// Canonical function name to the symbol of its injected import
	cache map[string]js_ast.Ref

	// Injected import statements in first-use order
	imports []js_ast.Stmt

	// Every name that appears in the unit, so generated names never collide
	usedNames map[string]bool
}

func newMemoizer(tree *js_ast.AST, resolver resolver.Resolver) memoizer {
	usedNames := make(map[string]bool, len(tree.Symbols))
	for _, symbol := range tree.Symbols {
		usedNames[symbol.OriginalName] = true
	}
	return memoizer{
		tree:      tree,
		resolver:  resolver,
		cache:     make(map[string]js_ast.Ref),
		usedNames: usedNames,
	}
}

// Returns the symbol of the import for "name". "isNew" is true when the import
// was created by this call. "ok" is false when the resolver doesn't know the
// name, in which case nothing is injected.
func (m *memoizer) lookup(name string) (ref js_ast.Ref, path string, isNew bool, ok bool) {
	if ref, ok := m.cache[name]; ok {
		return ref, "", false, true
	}

	path, ok = m.resolver.Resolve(name)
	if !ok {
		return js_ast.InvalidRef, "", false, false
	}

	ref = m.tree.NewSymbol(js_ast.SymbolImport, m.generateName(name))
	m.tree.ModuleScope.Members[m.tree.SymbolName(ref)] = ref
	m.cache[name] = ref
	m.imports = append(m.imports, js_ast.Stmt{Data: &js_ast.SImport{
		NamespaceRef: js_ast.InvalidRef,
		DefaultName:  &js_ast.LocRef{Ref: ref},
		Path:         js_ast.Path{Text: path},
	}})
	return ref, path, true, true
}

// "add" becomes "_add", then "_add2", "_add3" and so on
func (m *memoizer) generateName(hint string) string {
	name := "_" + hint
	for i := 2; m.usedNames[name]; i++ {
		name = "_" + hint + strconv.Itoa(i)
	}
	m.usedNames[name] = true
	return name
}
