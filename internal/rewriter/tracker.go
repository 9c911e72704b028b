package rewriter

import (
	"sort"

	"github.com/jsrewrite/ramdacut/internal/js_ast"
)

type functionAlias struct {
	canonical string
	ref       js_ast.Ref
}

// Remembers which local names were bound by imports of the library. Names
// alone aren't enough: a lookup only matches when the identifier's symbol is
// the import binding itself, so "function f(add) { add() }" is left alone.
type tracker struct {
	tree *js_ast.AST

	// "import R from 'ramda'" and "import * as R from 'ramda'"
	libraryAliases map[string]js_ast.Ref

	// "import { add as plus } from 'ramda'" maps "plus" to "add"
	functionAliases map[string]functionAlias

	// Use counts taken when each import was recorded
	initialUses map[js_ast.Ref]uint32
}

func newTracker(tree *js_ast.AST) tracker {
	return tracker{
		tree:            tree,
		libraryAliases:  make(map[string]js_ast.Ref),
		functionAliases: make(map[string]functionAlias),
		initialUses:     make(map[js_ast.Ref]uint32),
	}
}

// Several imports of the library in the same unit are merged. Local names
// can't collide since redeclaring an import is a syntax error.
func (t *tracker) recordImport(s *js_ast.SImport) {
	if s.DefaultName != nil {
		t.recordLibraryAlias(s.DefaultName.Ref)
	}
	if s.StarNameLoc != nil {
		t.recordLibraryAlias(s.NamespaceRef)
	}
	if s.Items != nil {
		for _, item := range *s.Items {
			// "import { default as R }" is another spelling of "import R"
			if item.Alias == "default" {
				t.recordLibraryAlias(item.Name.Ref)
				continue
			}
			ref := js_ast.FollowSymbols(t.tree.Symbols, item.Name.Ref)
			t.functionAliases[t.tree.SymbolName(ref)] = functionAlias{canonical: item.Alias, ref: ref}
			t.initialUses[ref] = t.tree.Symbols[ref.InnerIndex].UseCountEstimate
		}
	}
}

func (t *tracker) recordLibraryAlias(ref js_ast.Ref) {
	ref = js_ast.FollowSymbols(t.tree.Symbols, ref)
	t.libraryAliases[t.tree.SymbolName(ref)] = ref
	t.initialUses[ref] = t.tree.Symbols[ref.InnerIndex].UseCountEstimate
}

func (t *tracker) isLibraryAlias(ref js_ast.Ref) bool {
	ref = js_ast.FollowSymbols(t.tree.Symbols, ref)
	alias, ok := t.libraryAliases[t.tree.SymbolName(ref)]
	return ok && alias == ref
}

// Returns the name of the function in the library
func (t *tracker) isFunctionAlias(ref js_ast.Ref) (string, bool) {
	ref = js_ast.FollowSymbols(t.tree.Symbols, ref)
	alias, ok := t.functionAliases[t.tree.SymbolName(ref)]
	if !ok || alias.ref != ref {
		return "", false
	}
	return alias.canonical, true
}

// A use of an import was rewritten away
func (t *tracker) dropUse(ref js_ast.Ref) {
	ref = js_ast.FollowSymbols(t.tree.Symbols, ref)
	if symbol := &t.tree.Symbols[ref.InnerIndex]; symbol.UseCountEstimate > 0 {
		symbol.UseCountEstimate--
	}
}

// Returns the local names of imports that were never used, in sorted order
func (t *tracker) unusedAliases() []string {
	var names []string
	for ref, uses := range t.initialUses {
		if uses == 0 {
			names = append(names, t.tree.SymbolName(ref))
		}
	}
	sort.Strings(names)
	return names
}
