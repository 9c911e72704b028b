package js_ast

import (
	"github.com/jsrewrite/ramdacut/internal/logger"
)

// Every file is parsed into a separate AST. The parser also resolves scopes
// and binds symbols, so identifiers in the tree are a Ref into the symbol
// table stored on the AST instead of a name. Two identifiers with the same
// name but different declarations have different refs.
//
// Unlike a compiler AST these trees are mutated in place by the rewriter.
// Nodes are never shared between two positions in the tree.

type L int

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode int

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) IsUnaryUpdate() bool {
	return op >= UnOpPreDec && op <= UnOpPostInc
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma && op != BinOpPow
}

func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

func (op OpCode) IsBinaryAssign() bool {
	return op >= BinOpAssign
}

// If you add a new token, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign
)

type opTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []opTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"**", LExponentiation, false}, // Right-associative
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"**=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
	{"??=", LAssign, false},
	{"||=", LAssign, false},
	{"&&=", LAssign, false},
}

type LocRef struct {
	Loc logger.Loc
	Ref Ref
}

type Path struct {
	Loc  logger.Loc
	Text string
}

type PropertyKind int

const (
	PropertyNormal PropertyKind = iota
	PropertyGet
	PropertySet
	PropertySpread
)

type Property struct {
	Kind       PropertyKind
	IsComputed bool
	IsMethod   bool
	IsStatic   bool

	// This is "nil" for spread properties
	Key Expr

	// This is omitted for class fields
	Value *Expr

	// This is used when parsing a pattern that uses default values:
	//
	//   [a = 1] = [];
	//   ({a = 1} = {});
	//
	// It's also used for class fields:
	//
	//   class Foo { a = 1 }
	//
	Initializer *Expr
}

type PropertyBinding struct {
	IsComputed   bool
	IsSpread     bool
	Key          Expr
	Value        Binding
	DefaultValue *Expr
}

type Arg struct {
	Binding Binding
	Default *Expr
}

type FnBody struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type Fn struct {
	Name        *LocRef
	Args        []Arg
	Body        FnBody
	IsAsync     bool
	IsGenerator bool
	HasRestArg  bool
}

type Class struct {
	Name       *LocRef
	Extends    *Expr
	BodyLoc    logger.Loc
	Properties []Property
}

type ArrayBinding struct {
	Binding      Binding
	DefaultValue *Expr
}

type Binding struct {
	Loc  logger.Loc
	Data B
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type B interface{ isBinding() }

type BMissing struct{}

type BIdentifier struct{ Ref Ref }

type BArray struct {
	Items     []ArrayBinding
	HasSpread bool
}

type BObject struct{ Properties []PropertyBinding }

func (*BMissing) isBinding()    {}
func (*BIdentifier) isBinding() {}
func (*BArray) isBinding()      {}
func (*BObject) isBinding()     {}

type Expr struct {
	Loc  logger.Loc
	Data E
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type E interface{ isExpr() }

type EArray struct {
	Items []Expr
}

type EUnary struct {
	Op    OpCode
	Value Expr
}

type EBinary struct {
	Op    OpCode
	Left  Expr
	Right Expr
}

type EBoolean struct{ Value bool }

type ESuper struct{}

type ENull struct{}

type EThis struct{}

type ENewTarget struct{}

type EImportMeta struct{}

type ENew struct {
	Target Expr
	Args   []Expr
}

type OptionalChain uint8

const (
	// "a.b"
	OptionalChainNone OptionalChain = iota

	// "a?.b"
	OptionalChainStart

	// "a?.b.c" => ".c" is OptionalChainContinue
	// "(a?.b).c" => ".c" is OptionalChainNone
	OptionalChainContinue
)

type ECall struct {
	Target        Expr
	Args          []Expr
	OptionalChain OptionalChain
}

type EDot struct {
	Target        Expr
	Name          string
	NameLoc       logger.Loc
	OptionalChain OptionalChain
}

type EIndex struct {
	Target        Expr
	Index         Expr
	OptionalChain OptionalChain
}

type EArrow struct {
	Args       []Arg
	Body       FnBody
	IsAsync    bool
	HasRestArg bool
	PreferExpr bool // Use shorthand if true and "Body" is a single return statement
}

type EFunction struct{ Fn Fn }

type EClass struct{ Class Class }

type EIdentifier struct {
	Ref Ref
}

type ESpread struct{ Value Expr }

// A class-private name such as "#x". These only appear as class member keys
// and as the left operand of "in". Member accesses like "this.#x" use EDot.
type EPrivateIdentifier struct{ Name string }

// This is used for both strings and no-substitution template literals to reduce
// the number of cases that need to be checked for string optimization code
type EString struct {
	Value []uint16
}

type TemplatePart struct {
	Value   Expr
	TailRaw string // This is only the raw text, escapes are kept as written
}

type ETemplate struct {
	Tag     *Expr
	HeadRaw string
	Parts   []TemplatePart
}

type ERegExp struct{ Value string }

type EBigInt struct{ Value string }

type ENumber struct{ Value float64 }

type EObject struct {
	Properties []Property
}

type EAwait struct {
	Value Expr
}

type EYield struct {
	Value  *Expr
	IsStar bool
}

type EIf struct {
	Test Expr
	Yes  Expr
	No   Expr
}

type EImport struct {
	Expr Expr
}

// Elisions in array literals such as "[a, , b]"
type EMissing struct{}

func (*EArray) isExpr()      {}
func (*EUnary) isExpr()      {}
func (*EBinary) isExpr()     {}
func (*EBoolean) isExpr()    {}
func (*ESuper) isExpr()      {}
func (*ENull) isExpr()       {}
func (*EThis) isExpr()       {}
func (*ENewTarget) isExpr()  {}
func (*EImportMeta) isExpr() {}
func (*ENew) isExpr()        {}
func (*ECall) isExpr()       {}
func (*EDot) isExpr()        {}
func (*EIndex) isExpr()      {}
func (*EArrow) isExpr()      {}
func (*EFunction) isExpr()   {}
func (*EClass) isExpr()      {}
func (*EIdentifier) isExpr() {}
func (*ESpread) isExpr()     {}
func (*EString) isExpr()     {}
func (*ETemplate) isExpr()   {}
func (*ERegExp) isExpr()     {}
func (*EBigInt) isExpr()     {}
func (*ENumber) isExpr()     {}
func (*EObject) isExpr()     {}
func (*EAwait) isExpr()      {}
func (*EYield) isExpr()      {}
func (*EIf) isExpr()         {}
func (*EImport) isExpr()     {}
func (*EMissing) isExpr()    {}

func (*EPrivateIdentifier) isExpr() {}

func IsOptionalChain(value Expr) bool {
	switch e := value.Data.(type) {
	case *EDot:
		return e.OptionalChain != OptionalChainNone
	case *EIndex:
		return e.OptionalChain != OptionalChainNone
	case *ECall:
		return e.OptionalChain != OptionalChainNone
	}
	return false
}

type ExprOrStmt struct {
	Expr *Expr
	Stmt *Stmt
}

type Stmt struct {
	Loc  logger.Loc
	Data S
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type S interface{ isStmt() }

type SBlock struct {
	Stmts []Stmt
}

type SEmpty struct{}

type SDebugger struct{}

type SDirective struct {
	Value []uint16
}

type SExportClause struct {
	Items []ClauseItem
}

type SExportFrom struct {
	Items []ClauseItem
	Path  Path
}

type SExportDefault struct {
	DefaultName LocRef
	Value       ExprOrStmt // May be a SFunction or SClass
}

type ExportStarAlias struct {
	Loc          logger.Loc
	OriginalName string
}

type SExportStar struct {
	Alias *ExportStarAlias
	Path  Path
}

type SExpr struct {
	Value Expr
}

type LocalKind int

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

type SLocal struct {
	Kind     LocalKind
	Decls    []Decl
	IsExport bool
}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

type SClass struct {
	Class    Class
	IsExport bool
}

type SLabel struct {
	Name LocRef
	Stmt Stmt
}

type SIf struct {
	Test Expr
	Yes  Stmt
	No   *Stmt
}

type SFor struct {
	Init   *Stmt // May be a SLocal or SExpr
	Test   *Expr
	Update *Expr
	Body   Stmt
}

type SForIn struct {
	Init  Stmt // May be a SLocal or SExpr
	Value Expr
	Body  Stmt
}

type SForOf struct {
	IsAwait bool
	Init    Stmt // May be a SLocal or SExpr
	Value   Expr
	Body    Stmt
}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type SWith struct {
	Value Expr
	Body  Stmt
}

type Catch struct {
	Loc     logger.Loc
	Binding *Binding
	Body    []Stmt
}

type Finally struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type STry struct {
	Body    []Stmt
	Catch   *Catch
	Finally *Finally
}

type Case struct {
	Value *Expr
	Body  []Stmt
}

type SSwitch struct {
	Test  Expr
	Cases []Case
}

// This object represents all of these types of import statements:
//
//	import 'path'
//	import {item1, item2} from 'path'
//	import * as ns from 'path'
//	import defaultItem, {item1, item2} from 'path'
//	import defaultItem, * as ns from 'path'
//
// Many parts are optional and can be combined in different ways. The only
// restriction is that you cannot have both a clause and a star namespace.
type SImport struct {
	// If "StarNameLoc" is nil, this is InvalidRef
	NamespaceRef Ref

	DefaultName *LocRef
	Items       *[]ClauseItem
	StarNameLoc *logger.Loc
	Path        Path
}

type SReturn struct {
	Value *Expr
}

type SThrow struct {
	Value Expr
}

type SBreak struct {
	Label *LocRef
}

type SContinue struct {
	Label *LocRef
}

func (*SBlock) isStmt()         {}
func (*SDebugger) isStmt()      {}
func (*SDirective) isStmt()     {}
func (*SEmpty) isStmt()         {}
func (*SExportClause) isStmt()  {}
func (*SExportFrom) isStmt()    {}
func (*SExportDefault) isStmt() {}
func (*SExportStar) isStmt()    {}
func (*SExpr) isStmt()          {}
func (*SLocal) isStmt()         {}
func (*SFunction) isStmt()      {}
func (*SClass) isStmt()         {}
func (*SLabel) isStmt()         {}
func (*SIf) isStmt()            {}
func (*SFor) isStmt()           {}
func (*SForIn) isStmt()         {}
func (*SForOf) isStmt()         {}
func (*SDoWhile) isStmt()       {}
func (*SWhile) isStmt()         {}
func (*SWith) isStmt()          {}
func (*STry) isStmt()           {}
func (*SSwitch) isStmt()        {}
func (*SImport) isStmt()        {}
func (*SReturn) isStmt()        {}
func (*SThrow) isStmt()         {}
func (*SBreak) isStmt()         {}
func (*SContinue) isStmt()      {}

// For an import clause such as "import {a as b}", "Alias" is "a" and "Name"
// is the local binding of "b". For an export clause such as "export {a as b}",
// "Alias" is "b" and "Name" is the local binding of "a". For
// "export {a as b} from 'path'" nothing is bound locally, so "Name.Ref" is
// InvalidRef and "OriginalName" is "a". Otherwise "OriginalName" is the name
// of the local binding as written.
type ClauseItem struct {
	Alias        string
	AliasLoc     logger.Loc
	Name         LocRef
	OriginalName string
}

type Decl struct {
	Binding Binding
	Value   *Expr
}

type SymbolKind uint8

const (
	// An unbound symbol is one that isn't declared in the file it's referenced
	// in. For example, using "window" without declaring it will be unbound.
	SymbolUnbound SymbolKind = iota

	// This has special merging behavior. You're allowed to re-declare these
	// symbols more than once in the same scope. These represent symbols
	// declared with "var" and function declarations in function bodies.
	SymbolHoisted

	// Function declarations. These merge with "var" declarations of the same
	// name but are scoped to the enclosing block instead of the function.
	SymbolHoistedFunction

	// There's a weird special case where catch variables can be re-declared
	// using "var" inside the catch body.
	SymbolCatchIdentifier

	// Classes can merge with TypeScript namespaces in other compilers but not
	// here. This kind only exists to report redeclarations precisely.
	SymbolClass

	// The implicit "arguments" variable of non-arrow functions
	SymbolArguments

	// A binding introduced by an import statement. These are the only bindings
	// that the import rewriter is allowed to follow back to another module.
	SymbolImport

	// This annotates all other symbols that don't have special behavior
	SymbolOther
)

func (kind SymbolKind) IsHoisted() bool {
	return kind == SymbolHoisted || kind == SymbolHoistedFunction
}

var symbolKindToString = [...]string{
	SymbolUnbound:         "unbound",
	SymbolHoisted:         "hoisted",
	SymbolHoistedFunction: "hoisted-function",
	SymbolCatchIdentifier: "catch-identifier",
	SymbolClass:           "class",
	SymbolArguments:       "arguments",
	SymbolImport:          "import",
	SymbolOther:           "other",
}

func (kind SymbolKind) String() string {
	return symbolKindToString[kind]
}

type Ref struct {
	InnerIndex uint32
}

var InvalidRef Ref = Ref{^uint32(0)}

type Symbol struct {
	// This is the name that came from the parser. Printed names may be renamed
	// during minification or to avoid name collisions. Do not use the original
	// name during printing.
	OriginalName string

	// This is used to avoid conflicts when two unbound symbols with the same
	// name are merged by a later declaration. Use "FollowSymbols" to resolve.
	Link Ref

	// An estimate of the number of uses of this symbol. Uses that are rewritten
	// away are subtracted again so that unused imports can be detected.
	UseCountEstimate uint32

	Kind SymbolKind
}

type ScopeKind int

const (
	ScopeBlock ScopeKind = iota
	ScopeWith
	ScopeLabel
	ScopeClassName
	ScopeCatchBinding

	// The scopes below stop hoisted variables from extending into parent scopes
	ScopeEntry // This is a module or script
	ScopeFunctionArgs
	ScopeFunctionBody
)

func (kind ScopeKind) StopsHoisting() bool {
	return kind >= ScopeEntry
}

type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Children []*Scope
	Members  map[string]Ref

	// Only used for ScopeLabel
	LabelRef Ref
}

type AST struct {
	Hashbang string
	Stmts    []Stmt

	// Indexed by Ref.InnerIndex
	Symbols     []Symbol
	ModuleScope *Scope
}

func (tree *AST) NewSymbol(kind SymbolKind, name string) Ref {
	ref := Ref{InnerIndex: uint32(len(tree.Symbols))}
	tree.Symbols = append(tree.Symbols, Symbol{
		Kind:         kind,
		OriginalName: name,
		Link:         InvalidRef,
	})
	return ref
}

// Returns the final symbol after following the "Link" chain. The chain is
// flattened as a side effect.
func FollowSymbols(symbols []Symbol, ref Ref) Ref {
	symbol := &symbols[ref.InnerIndex]
	if symbol.Link == InvalidRef {
		return ref
	}

	link := FollowSymbols(symbols, symbol.Link)

	symbol.Link = link

	return link
}

func (tree *AST) SymbolName(ref Ref) string {
	return tree.Symbols[FollowSymbols(tree.Symbols, ref).InnerIndex].OriginalName
}
