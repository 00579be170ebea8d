// Package interp implements spec.md section 4.4: a tree-walking
// evaluator over the checked AST, using pkg/core/value's runtime
// tagged values. Its shape — a Machine-like driver holding an
// activation-record stack and dispatching built-ins by tag — is
// grounded in the teacher's pkg/vm.Machine, adapted from a fixed-size
// bytecode array to a recursive AST walk since there is no bytecode
// stage in this pipeline.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nlangtools/nlangc/pkg/builtins"
	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/token"
	"github.com/nlangtools/nlangc/pkg/core/value"
)

// Interpreter executes one checked program to completion.
type Interpreter struct {
	global *Environment
	funcs  map[string]*ast.FuncDecl
	out    io.Writer
	in     *bufio.Reader
}

// New creates an Interpreter writing built-in output to out and reading
// input() calls from in.
func New(out io.Writer, in io.Reader) *Interpreter {
	return &Interpreter{
		global: newEnvironment(nil),
		funcs:  make(map[string]*ast.FuncDecl),
		out:    out,
		in:     bufio.NewReader(in),
	}
}

// Run executes prog starting at the function named entryName, returning
// the process exit code (the entry function's Int return value, or 0)
// and any runtime error. A non-nil error means execution aborted; the
// exit code in that case is meaningless and callers should use the
// fixed code 2 per spec.md section 6.
func (it *Interpreter) Run(prog *ast.Program, entryName string) (int, error) {
	for _, decl := range prog.Declarations {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			it.funcs[fd.Name] = fd
		}
	}
	for _, decl := range prog.Declarations {
		switch decl.(type) {
		case *ast.FuncDecl, *ast.Import, *ast.FromImport, *ast.AssignMain:
			continue
		default:
			if _, err := it.execStmt(it.global, decl); err != nil {
				return 2, err
			}
		}
	}

	entry, ok := it.funcs[entryName]
	if !ok {
		return 2, fmt.Errorf("interp: no entry function %q", entryName)
	}
	result, err := it.callFunction(entry, nil)
	if err != nil {
		return 2, err
	}
	if result.Type == value.Int {
		return int(result.I), nil
	}
	return 0, nil
}

func (it *Interpreter) callFunction(fd *ast.FuncDecl, args []value.Value) (value.Value, error) {
	env := newEnvironment(it.global)
	for i, p := range fd.Params {
		env.Define(p.Name, args[i])
	}
	f, err := it.execBlock(env, fd.Body)
	if err != nil {
		return value.Value{}, err
	}
	if f.sig == sigReturning {
		return f.value, nil
	}
	return value.Nil, nil
}

// execBlock runs stmts in a fresh nested environment, stopping early and
// propagating the first non-Normal signal.
func (it *Interpreter) execBlock(parent *Environment, stmts []ast.Statement) (flow, error) {
	env := newEnvironment(parent)
	for _, stmt := range stmts {
		f, err := it.execStmt(env, stmt)
		if err != nil {
			return flow{}, err
		}
		if f.sig != sigNormal {
			return f, nil
		}
	}
	return normal, nil
}

func (it *Interpreter) execStmt(env *Environment, stmt ast.Statement) (flow, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		v, err := it.evalExpr(env, s.Value)
		if err != nil {
			return flow{}, err
		}
		env.Define(s.Name, v)
		return normal, nil

	case *ast.Assign:
		v, err := it.evalExpr(env, s.Value)
		if err != nil {
			return flow{}, err
		}
		env.Assign(s.Name, v)
		return normal, nil

	case *ast.ExprStmt:
		_, err := it.evalExpr(env, s.X)
		if err != nil {
			return flow{}, err
		}
		return normal, nil

	case *ast.Return:
		if s.Value == nil {
			return returning(value.Nil), nil
		}
		v, err := it.evalExpr(env, s.Value)
		if err != nil {
			return flow{}, err
		}
		return returning(v), nil

	case *ast.If:
		cond, err := it.evalExpr(env, s.Cond)
		if err != nil {
			return flow{}, err
		}
		if cond.Truthy() {
			return it.execBlock(env, s.Then)
		}
		if s.Else != nil {
			return it.execBlock(env, s.Else)
		}
		return normal, nil

	case *ast.While:
		for {
			cond, err := it.evalExpr(env, s.Cond)
			if err != nil {
				return flow{}, err
			}
			if !cond.Truthy() {
				return normal, nil
			}
			f, err := it.execBlock(env, s.Body)
			if err != nil {
				return flow{}, err
			}
			switch f.sig {
			case sigBreaking:
				return normal, nil
			case sigReturning:
				return f, nil
			case sigContinuing, sigNormal:
				// fall through to next iteration
			}
		}

	case *ast.Break:
		return breaking, nil

	case *ast.Continue:
		return continuing, nil

	default:
		// FuncDecl / Import / FromImport / AssignMain carry no runtime
		// behavior; the semantic analyzer already rejects them anywhere
		// but the top level.
		return normal, nil
	}
}

func (it *Interpreter) evalExpr(env *Environment, expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return value.NewInt(e.Value), nil
	case *ast.FloatLit:
		return value.NewFloat(e.Value), nil
	case *ast.StringLit:
		return value.NewString(e.Value), nil
	case *ast.BoolLit:
		return value.NewBool(e.Value), nil
	case *ast.NullLit:
		return value.Nil, nil
	case *ast.Identifier:
		v, ok := env.Get(e.Name)
		if !ok {
			return value.Value{}, runtimeError(e.Pos(), "undefined identifier %q", e.Name)
		}
		return v, nil
	case *ast.Paren:
		return it.evalExpr(env, e.Inner)
	case *ast.UnaryOp:
		return it.evalUnary(env, e)
	case *ast.BinaryOp:
		return it.evalBinary(env, e)
	case *ast.Call:
		return it.evalCall(env, e)
	default:
		return value.Value{}, runtimeError(expr.Pos(), "unsupported expression")
	}
}

func (it *Interpreter) evalUnary(env *Environment, e *ast.UnaryOp) (value.Value, error) {
	v, err := it.evalExpr(env, e.Operand)
	if err != nil {
		return value.Value{}, err
	}
	switch e.Op {
	case token.Minus:
		if v.Type == value.Float {
			return value.NewFloat(-v.F), nil
		}
		return value.NewInt(-v.I), nil
	case token.Not, token.Bang:
		return value.NewBool(!v.Truthy()), nil
	default:
		return value.Value{}, runtimeError(e.Pos(), "unsupported unary operator %s", e.Op)
	}
}

func floatOf(v value.Value) float64 {
	if v.Type == value.Float {
		return v.F
	}
	return float64(v.I)
}

func (it *Interpreter) evalBinary(env *Environment, e *ast.BinaryOp) (value.Value, error) {
	l, err := it.evalExpr(env, e.Left)
	if err != nil {
		return value.Value{}, err
	}

	// and/or short-circuit before the right operand is ever evaluated.
	switch e.Op {
	case token.And:
		if !l.Truthy() {
			return value.NewBool(false), nil
		}
		r, err := it.evalExpr(env, e.Right)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(r.Truthy()), nil
	case token.Or:
		if l.Truthy() {
			return value.NewBool(true), nil
		}
		r, err := it.evalExpr(env, e.Right)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(r.Truthy()), nil
	}

	r, err := it.evalExpr(env, e.Right)
	if err != nil {
		return value.Value{}, err
	}

	switch e.Op {
	case token.Plus:
		if l.Type == value.String && r.Type == value.String {
			return value.NewString(l.S + r.S), nil
		}
		if l.Type == value.Float || r.Type == value.Float {
			return value.NewFloat(floatOf(l) + floatOf(r)), nil
		}
		return value.NewInt(l.I + r.I), nil

	case token.Minus:
		if l.Type == value.Float || r.Type == value.Float {
			return value.NewFloat(floatOf(l) - floatOf(r)), nil
		}
		return value.NewInt(l.I - r.I), nil

	case token.Star:
		if l.Type == value.Float || r.Type == value.Float {
			return value.NewFloat(floatOf(l) * floatOf(r)), nil
		}
		return value.NewInt(l.I * r.I), nil

	case token.Slash:
		if l.Type == value.Float || r.Type == value.Float {
			return value.NewFloat(floatOf(l) / floatOf(r)), nil
		}
		if r.I == 0 {
			return value.Value{}, runtimeError(e.Pos(), "division by zero")
		}
		return value.NewInt(l.I / r.I), nil

	case token.Percent:
		if r.I == 0 {
			return value.Value{}, runtimeError(e.Pos(), "modulo by zero")
		}
		return value.NewInt(l.I % r.I), nil

	case token.EqEq:
		return value.NewBool(valuesEqual(l, r)), nil
	case token.NotEq:
		return value.NewBool(!valuesEqual(l, r)), nil

	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return value.NewBool(compare(e.Op, l, r)), nil

	default:
		return value.Value{}, runtimeError(e.Pos(), "unsupported binary operator %s", e.Op)
	}
}

func valuesEqual(l, r value.Value) bool {
	if l.Type == value.Int || l.Type == value.Float || r.Type == value.Int || r.Type == value.Float {
		if (l.Type == value.Int || l.Type == value.Float) && (r.Type == value.Int || r.Type == value.Float) {
			return floatOf(l) == floatOf(r)
		}
	}
	if l.Type != r.Type {
		return false
	}
	switch l.Type {
	case value.Bool:
		return l.B == r.B
	case value.String:
		return l.S == r.S
	case value.Null:
		return true
	default:
		return false
	}
}

func compare(op token.Kind, l, r value.Value) bool {
	if l.Type == value.String && r.Type == value.String {
		c := strings.Compare(l.S, r.S)
		switch op {
		case token.Lt:
			return c < 0
		case token.LtEq:
			return c <= 0
		case token.Gt:
			return c > 0
		default:
			return c >= 0
		}
	}
	lf, rf := floatOf(l), floatOf(r)
	switch op {
	case token.Lt:
		return lf < rf
	case token.LtEq:
		return lf <= rf
	case token.Gt:
		return lf > rf
	default:
		return lf >= rf
	}
}

func (it *Interpreter) evalCall(env *Environment, call *ast.Call) (value.Value, error) {
	args := make([]value.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := it.evalExpr(env, a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	if bd, ok := builtins.Lookup(call.Callee); ok {
		return it.callBuiltin(call, bd, args)
	}

	fd, ok := it.funcs[call.Callee]
	if !ok {
		return value.Value{}, runtimeError(call.Pos(), "no such built-in dispatch for %q", call.Callee)
	}
	return it.callFunction(fd, args)
}

func (it *Interpreter) callBuiltin(call *ast.Call, bd builtins.Descriptor, args []value.Value) (value.Value, error) {
	switch bd.InterpTag {
	case "print":
		fmt.Fprint(it.out, args[0].String())
		return value.Nil, nil
	case "println":
		fmt.Fprintln(it.out, args[0].String())
		return value.Nil, nil
	case "input":
		line, _ := it.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		return value.NewString(line), nil
	case "len":
		return value.NewInt(int64(len(args[0].S))), nil
	case "str":
		return value.NewString(args[0].String()), nil
	case "int":
		return parseIntBuiltin(call, args[0])
	case "float":
		return parseFloatBuiltin(call, args[0])
	case "bool":
		return value.NewBool(args[0].Truthy()), nil
	case "abs":
		return absBuiltin(args[0]), nil
	case "max":
		return minMaxBuiltin(args[0], args[1], true), nil
	case "min":
		return minMaxBuiltin(args[0], args[1], false), nil
	case "pow":
		return powBuiltin(args[0], args[1]), nil
	default:
		return value.Value{}, runtimeError(call.Pos(), "no such built-in dispatch for %q", call.Callee)
	}
}
