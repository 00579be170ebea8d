// Package ast defines the abstract syntax tree produced by the parser.
// Statement and Expr are the two node categories from spec.md section 3;
// the interface split (rather than a class hierarchy) follows the
// teacher's pkg/compiler/ast package and the tagged-variant guidance in
// spec.md section 9.
package ast

import (
	"github.com/nlangtools/nlangc/pkg/compiler/token"
	"github.com/nlangtools/nlangc/pkg/compiler/types"
)

// Node is any AST node; Pos anchors diagnostics to source position.
type Node interface {
	Pos() token.Token
}

// Expr is an expression that yields a value. After semantic analysis,
// Type() reports its resolved type (never types.Unknown on a checked
// tree, per spec.md's invariant).
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

// Statement is a standalone unit of execution.
type Statement interface {
	Node
	stmtNode()
}

// exprBase centralizes the position + resolved-type bookkeeping shared by
// every expression node so individual node types stay tag-and-payload
// only.
type exprBase struct {
	Token token.Token
	typ   types.Type
}

func (e *exprBase) Pos() token.Token     { return e.Token }
func (e *exprBase) exprNode()            {}
func (e *exprBase) Type() types.Type     { return e.typ }
func (e *exprBase) SetType(t types.Type) { e.typ = t }

// Program is the root node: a set of top-level declarations.
type Program struct {
	Declarations []Statement
}

// ---- Statements ----

// VarDecl: store NAME = EXPR;
type VarDecl struct {
	Token token.Token
	Name  string
	Value Expr
	// ResolvedType is filled in by semantic analysis.
	ResolvedType types.Type
}

func (n *VarDecl) Pos() token.Token { return n.Token }
func (n *VarDecl) stmtNode()        {}

// Assign: NAME = EXPR;
type Assign struct {
	Token token.Token
	Name  string
	Value Expr
}

func (n *Assign) Pos() token.Token { return n.Token }
func (n *Assign) stmtNode()        {}

// ExprStmt wraps a bare expression used as a statement (e.g. a call).
type ExprStmt struct {
	Token token.Token
	X     Expr
}

func (n *ExprStmt) Pos() token.Token { return n.Token }
func (n *ExprStmt) stmtNode()        {}

// Return: return EXPR?;
type Return struct {
	Token token.Token
	Value Expr // nil for a bare "return;"
}

func (n *Return) Pos() token.Token { return n.Token }
func (n *Return) stmtNode()        {}

// If: if (COND) BLOCK (else BLOCK)?
type If struct {
	Token     token.Token
	Cond      Expr
	Then      []Statement
	Else      []Statement // nil if no else branch
}

func (n *If) Pos() token.Token { return n.Token }
func (n *If) stmtNode()        {}

// While: while (COND) BLOCK
type While struct {
	Token token.Token
	Cond  Expr
	Body  []Statement
}

func (n *While) Pos() token.Token { return n.Token }
func (n *While) stmtNode()        {}

// Break: break;
type Break struct{ Token token.Token }

func (n *Break) Pos() token.Token { return n.Token }
func (n *Break) stmtNode()        {}

// Continue: continue;
type Continue struct{ Token token.Token }

func (n *Continue) Pos() token.Token { return n.Token }
func (n *Continue) stmtNode()        {}

// Param is a function parameter: just a name, per spec.md's untyped
// grammar; its type is resolved during semantic analysis (see
// pkg/compiler/sema).
type Param struct {
	Name  string
	Token token.Token
}

// FuncDecl: def NAME(PARAMS) BLOCK
type FuncDecl struct {
	Token    token.Token
	Name     string
	Params   []Param
	Body     []Statement
	Exported bool

	// ResolvedType is the function's Function type, filled in during
	// hoisting (Unknown params/return) and mutated in place as semantic
	// analysis resolves it (see sema.Analyzer).
	ResolvedType types.Type
}

func (n *FuncDecl) Pos() token.Token { return n.Token }
func (n *FuncDecl) stmtNode()        {}

// Import: import MODULE (as ALIAS)?;
type Import struct {
	Token  token.Token
	Module string
	Alias  string // "" if no alias
}

func (n *Import) Pos() token.Token { return n.Token }
func (n *Import) stmtNode()        {}

// FromImport: from MODULE { NAMES };
type FromImport struct {
	Token  token.Token
	Module string
	Names  []string
}

func (n *FromImport) Pos() token.Token { return n.Token }
func (n *FromImport) stmtNode()        {}

// AssignMain: assign_main NAME;
type AssignMain struct {
	Token    token.Token
	FuncName string
}

func (n *AssignMain) Pos() token.Token { return n.Token }
func (n *AssignMain) stmtNode()        {}

// ---- Expressions ----

type IntLit struct {
	exprBase
	Value int64
}

type FloatLit struct {
	exprBase
	Value float64
}

type StringLit struct {
	exprBase
	Value string
}

type BoolLit struct {
	exprBase
	Value bool
}

type NullLit struct{ exprBase }

type Identifier struct {
	exprBase
	Name string
}

// BinaryOp: LEFT OP RIGHT
type BinaryOp struct {
	exprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// UnaryOp: OP OPERAND, where OP is '-', '!' or 'not'.
type UnaryOp struct {
	exprBase
	Op      token.Kind
	Operand Expr
}

// Call: CALLEE(ARGS)
type Call struct {
	exprBase
	Callee string
	Args   []Expr
}

// Paren: (EXPR) — kept as its own node so pretty-printing can round-trip
// explicit parenthesization, per spec.md's testable round-trip property.
type Paren struct {
	exprBase
	Inner Expr
}

func newExprBase(tok token.Token) exprBase { return exprBase{Token: tok} }

func NewIntLit(tok token.Token, v int64) *IntLit       { return &IntLit{exprBase: newExprBase(tok), Value: v} }
func NewFloatLit(tok token.Token, v float64) *FloatLit { return &FloatLit{exprBase: newExprBase(tok), Value: v} }
func NewStringLit(tok token.Token, v string) *StringLit {
	return &StringLit{exprBase: newExprBase(tok), Value: v}
}
func NewBoolLit(tok token.Token, v bool) *BoolLit { return &BoolLit{exprBase: newExprBase(tok), Value: v} }
func NewNullLit(tok token.Token) *NullLit         { return &NullLit{exprBase: newExprBase(tok)} }
func NewIdentifier(tok token.Token, name string) *Identifier {
	return &Identifier{exprBase: newExprBase(tok), Name: name}
}
func NewBinaryOp(tok token.Token, op token.Kind, left, right Expr) *BinaryOp {
	return &BinaryOp{exprBase: newExprBase(tok), Op: op, Left: left, Right: right}
}
func NewUnaryOp(tok token.Token, op token.Kind, operand Expr) *UnaryOp {
	return &UnaryOp{exprBase: newExprBase(tok), Op: op, Operand: operand}
}
func NewCall(tok token.Token, callee string, args []Expr) *Call {
	return &Call{exprBase: newExprBase(tok), Callee: callee, Args: args}
}
func NewParen(tok token.Token, inner Expr) *Paren {
	return &Paren{exprBase: newExprBase(tok), Inner: inner}
}
