// Package ast defines the parse tree produced by the grammar. Nodes
// preserve enough surface detail (raw literal text, canonical command
// names, positions) for editor tooling to highlight, query and rewrite
// scripts without re-reading the source.
package ast

// Pos locates a node in the source, 1-based.
//
type Pos struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Diag is a recoverable parse error attached to the tree.
//
type Diag struct {
	At  Pos
	Msg string
}

// Tree is the parse result: a root plus any diagnostics collected while
// error-recovering. A tree with diagnostics is still fully traversable.
//
type Tree struct {
	Root  *Script
	Diags []Diag
}

// Node is implemented by every parse-tree node.
//
type Node interface {
	Pos() Pos
	node()
}

// Stmt nodes appear in statement lists.
//
type Stmt interface {
	Node
	stmt()
}

// Expr nodes appear in expression positions.
//
type Expr interface {
	Node
	expr()
}

// StmtBase carries the position of a statement node; embed it.
//
type StmtBase struct {
	At Pos
}

func (b StmtBase) Pos() Pos { return b.At }
func (StmtBase) node()      {}
func (StmtBase) stmt()      {}

// ExprBase carries the position of an expression node; embed it.
//
type ExprBase struct {
	At Pos
}

func (b ExprBase) Pos() Pos { return b.At }
func (ExprBase) node()      {}
func (ExprBase) expr()      {}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Script is the root node, a statement list.
//
type Script struct {
	StmtBase
	Stmts []Stmt
}

// Vim9Script is the 'vim9script' mode directive.
//
type Vim9Script struct {
	StmtBase
}

// Comment is a whole-line or trailing '"' comment, text kept verbatim
// including the quote.
//
type Comment struct {
	StmtBase
	Text string
}

// VarDecl covers 'var', 'const', 'final' and legacy 'let' declarations.
// Targets holds one entry normally, several for list destructuring.
//
type VarDecl struct {
	StmtBase
	Kw      string // var | const | final | let
	Export  bool
	Targets []Expr
	Type    string // raw type annotation span, "" when absent
	Op      string // = += -= *= /= ..=, "" for a bare declaration
	Init    Expr   // nil for a bare declaration
}

// Assignment is an assignment to an existing lvalue.
//
type Assignment struct {
	StmtBase
	Targets []Expr
	Op      string
	Value   Expr
}

// Param is one formal parameter of a function definition or lambda.
//
type Param struct {
	At      Pos
	Name    string
	Type    string // raw type annotation span, "" when absent
	Default Expr   // nil when required
}

// FuncDef covers both 'def' and legacy 'function' definitions.
//
type FuncDef struct {
	StmtBase
	Export  bool
	Legacy  bool // function/endfunction rather than def/enddef
	Bang    bool
	Name    Expr
	Params  []Param
	RetType string
	Body    []Stmt
}

// ElseIf is one 'elseif' arm of an If.
//
type ElseIf struct {
	At   Pos
	Cond Expr
	Body []Stmt
}

type If struct {
	StmtBase
	Cond    Expr
	Then    []Stmt
	ElseIfs []ElseIf
	Else    []Stmt // nil when no else arm
}

type For struct {
	StmtBase
	Targets []Expr // one entry, or several for destructuring
	Iter    Expr
	Body    []Stmt
}

type While struct {
	StmtBase
	Cond Expr
	Body []Stmt
}

type Return struct {
	StmtBase
	Value Expr // nil for a bare return
}

type Break struct {
	StmtBase
}

type Continue struct {
	StmtBase
}

// ExCmd is a recognized ex command with a free-form argument tail
// (set, echo, map, autocmd, ...). Name is as written, possibly
// abbreviated; Canonical is the table-resolved full name.
//
type ExCmd struct {
	StmtBase
	Name      string
	Canonical string
	Bang      bool
	Args      []Node // parsed expressions where the command takes them
	Tail      string // unparsed remainder, "" when fully structured
}

// SubstCmd is a paired-separator command: :s, :g, :v, :sort.
//
type SubstCmd struct {
	StmtBase
	Name      string
	Canonical string
	Sep       string // the user-chosen delimiter
	Pattern   string
	Replace   string // "" for :g / :v / :sort forms without one
	Flags     string
}

// GlobalCmd is :g/pat/cmd or :v/pat/cmd, whose trailing part is itself
// a command applied to matching lines.
//
type GlobalCmd struct {
	StmtBase
	Name      string
	Canonical string
	Invert    bool
	Sep       string
	Pattern   string
	Cmd       Stmt // nil when absent
}

// ExprStmt is an expression evaluated as a statement (a call, usually).
//
type ExprStmt struct {
	StmtBase
	X Expr
}

// Bad is an unparseable statement; the raw text to end-of-line is kept
// so the tree still spans the whole source.
//
type Bad struct {
	StmtBase
	Text string
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// NumberLit keeps the literal text (decimal or 0x hex).
//
type NumberLit struct {
	ExprBase
	Text string
}

type FloatLit struct {
	ExprBase
	Text string
}

// StringLit keeps the quotes and escapes exactly as written.
//
type StringLit struct {
	ExprBase
	Text string
}

type Ident struct {
	ExprBase
	Name string
}

// ScopeVar is a scoped name: g:count, l:x, <SID>Helper.
//
type ScopeVar struct {
	ExprBase
	Scope string // "g:", "l:", "<SID>", ...
	Name  string
}

// ScopeDict is a scope used as a value on its own: g: as a dictionary.
//
type ScopeDict struct {
	ExprBase
	Scope string
}

type OptionExpr struct {
	ExprBase
	Name string // includes '&' and any l:/g: qualifier
}

type EnvExpr struct {
	ExprBase
	Name string // includes '$'
}

// KeyExpr is a special-key notation token used as a value: <CR>, <C-x>.
//
type KeyExpr struct {
	ExprBase
	Name string // includes the angle brackets
}

type ListLit struct {
	ExprBase
	Items []Expr
}

// DictEntry is one key-value pair of a DictLit.
//
type DictEntry struct {
	At    Pos
	Key   Expr
	Value Expr
}

type DictLit struct {
	ExprBase
	Entries []DictEntry
}

type Call struct {
	ExprBase
	Fn   Expr
	Args []Expr
}

// MethodCall is the '->' pipeline form: recv->Fn(args).
//
type MethodCall struct {
	ExprBase
	Recv Expr
	Fn   Expr
	Args []Expr
}

type Index struct {
	ExprBase
	X   Expr
	Idx Expr
}

// Slice is x[low : high]; either bound may be nil.
//
type Slice struct {
	ExprBase
	X    Expr
	Low  Expr
	High Expr
}

// Entry is dot access: dict.key.
//
type Entry struct {
	ExprBase
	X   Expr
	Key string
}

type Unary struct {
	ExprBase
	Op string // ! - +
	X  Expr
}

type Binary struct {
	ExprBase
	Op string // operator text as written, case suffix included
	X  Expr
	Y  Expr
}

type Ternary struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

// Lambda is the arrow form: (x, y) => expr. The body is either a
// single expression or a braced statement block; exactly one of Body
// and Block is set.
//
type Lambda struct {
	ExprBase
	Params []Param
	Body   Expr
	Block  []Stmt
}

// Paren is an explicitly grouped sub-expression, kept so printing
// round-trips.
//
type Paren struct {
	ExprBase
	X Expr
}

// Heredoc is the value side of 'let x =<< [trim] [eval] MARKER'.
//
type Heredoc struct {
	ExprBase
	Trim   bool
	Eval   bool
	Marker string
	Lines  []string // raw body lines, newlines stripped
}

// BadExpr marks an expression position that could not be parsed.
//
type BadExpr struct {
	ExprBase
	Text string
}
