package sema

import (
	"github.com/nlangtools/nlangc/pkg/builtins"
	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/token"
	"github.com/nlangtools/nlangc/pkg/compiler/types"
)

func (a *Analyzer) checkBlock(scope *Scope, stmts []ast.Statement, ctx funcCtx) {
	block := newScope(scope)
	for _, stmt := range stmts {
		a.checkStmt(block, stmt, ctx)
	}
}

func (a *Analyzer) checkStmt(scope *Scope, stmt ast.Statement, ctx funcCtx) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		t := a.checkExpr(scope, s.Value, ctx)
		s.ResolvedType = t
		if !scope.Declare(Symbol{Name: s.Name, Kind: KindVariable, Type: t}) {
			a.errorf(s.Token, "%q is already declared in this scope", s.Name)
		}

	case *ast.Assign:
		sym, ok := scope.Resolve(s.Name)
		if !ok {
			a.errorf(s.Token, "undefined identifier %q", s.Name)
			a.checkExpr(scope, s.Value, ctx)
			return
		}
		if sym.Kind != KindVariable && sym.Kind != KindParameter {
			a.errorf(s.Token, "%q is not assignable", s.Name)
		}
		t := a.checkExpr(scope, s.Value, ctx)
		if sym.Kind == KindVariable || sym.Kind == KindParameter {
			if !types.Widens(t, sym.Type) {
				a.errorf(s.Token, "cannot assign %s to %q of type %s", t, s.Name, sym.Type)
			}
		}

	case *ast.ExprStmt:
		a.checkExpr(scope, s.X, ctx)

	case *ast.Return:
		var t types.Type
		if s.Value != nil {
			t = a.checkExpr(scope, s.Value, ctx)
		} else {
			t = types.TNull
		}
		if ctx.decl == nil {
			a.errorf(s.Token, "return outside of a function")
			return
		}
		ret := ctx.decl.ResolvedType.Return
		if ret.Kind == types.Unknown {
			*ret = t
		} else if !types.Widens(t, *ret) {
			a.errorf(s.Token, "function %q returns %s here but %s elsewhere", ctx.decl.Name, t, *ret)
		}

	case *ast.If:
		condT := a.checkExpr(scope, s.Cond, ctx)
		if condT.Kind != types.Bool {
			a.errorf(s.Token, "if condition must be bool, got %s", condT)
		}
		a.checkBlock(scope, s.Then, ctx)
		if s.Else != nil {
			a.checkBlock(scope, s.Else, ctx)
		}

	case *ast.While:
		condT := a.checkExpr(scope, s.Cond, ctx)
		if condT.Kind != types.Bool {
			a.errorf(s.Token, "while condition must be bool, got %s", condT)
		}
		loopCtx := ctx
		loopCtx.inLoop = true
		a.checkBlock(scope, s.Body, loopCtx)

	case *ast.Break:
		if !ctx.inLoop {
			a.errorf(s.Token, "break outside of a while loop")
		}

	case *ast.Continue:
		if !ctx.inLoop {
			a.errorf(s.Token, "continue outside of a while loop")
		}

	case *ast.FuncDecl:
		a.errorf(s.Token, "nested function definitions are not supported")

	case *ast.Import, *ast.FromImport, *ast.AssignMain:
		a.errorf(stmt.Pos(), "%s is only allowed at the top level", describeStmt(stmt))

	default:
		a.errorf(stmt.Pos(), "unsupported statement")
	}
}

func describeStmt(stmt ast.Statement) string {
	switch stmt.(type) {
	case *ast.Import:
		return "import"
	case *ast.FromImport:
		return "from-import"
	case *ast.AssignMain:
		return "assign_main"
	default:
		return "statement"
	}
}

func (a *Analyzer) checkExpr(scope *Scope, expr ast.Expr, ctx funcCtx) types.Type {
	var t types.Type
	switch e := expr.(type) {
	case *ast.IntLit:
		t = types.TInt
	case *ast.FloatLit:
		t = types.TFloat
	case *ast.StringLit:
		t = types.TString
	case *ast.BoolLit:
		t = types.TBool
	case *ast.NullLit:
		t = types.TNull
	case *ast.Identifier:
		sym, ok := scope.Resolve(e.Name)
		if !ok {
			a.errorf(e.Pos(), "undefined identifier %q", e.Name)
			t = types.TUnknown
		} else {
			t = sym.Type
		}
	case *ast.Paren:
		t = a.checkExpr(scope, e.Inner, ctx)
	case *ast.UnaryOp:
		t = a.checkUnary(scope, e, ctx)
	case *ast.BinaryOp:
		t = a.checkBinary(scope, e, ctx)
	case *ast.Call:
		t = a.checkCall(scope, e, ctx)
	default:
		a.errorf(expr.Pos(), "unsupported expression")
		t = types.TUnknown
	}
	expr.SetType(t)
	return t
}

func (a *Analyzer) checkUnary(scope *Scope, e *ast.UnaryOp, ctx funcCtx) types.Type {
	operand := a.checkExpr(scope, e.Operand, ctx)
	switch e.Op {
	case token.Minus:
		if !operand.IsNumeric() {
			a.errorf(e.Pos(), "unary '-' requires a numeric operand, got %s", operand)
			return types.TUnknown
		}
		return operand
	case token.Not, token.Bang:
		if operand.Kind != types.Bool {
			a.errorf(e.Pos(), "unary '%s' requires a bool operand, got %s", e.Op, operand)
			return types.TBool
		}
		return types.TBool
	default:
		a.errorf(e.Pos(), "unsupported unary operator %s", e.Op)
		return types.TUnknown
	}
}

func (a *Analyzer) checkBinary(scope *Scope, e *ast.BinaryOp, ctx funcCtx) types.Type {
	lt := a.checkExpr(scope, e.Left, ctx)
	rt := a.checkExpr(scope, e.Right, ctx)

	switch e.Op {
	case token.Plus:
		if lt.Kind == types.String && rt.Kind == types.String {
			return types.TString
		}
		if joined, ok := types.Join(lt, rt); ok {
			return joined
		}
		a.errorf(e.Pos(), "'+' requires two numbers or two strings, got %s and %s", lt, rt)
		return types.TUnknown

	case token.Minus, token.Star, token.Slash:
		if joined, ok := types.Join(lt, rt); ok {
			return joined
		}
		a.errorf(e.Pos(), "'%s' requires numeric operands, got %s and %s", e.Op, lt, rt)
		return types.TUnknown

	case token.Percent:
		if lt.Kind == types.Int && rt.Kind == types.Int {
			return types.TInt
		}
		a.errorf(e.Pos(), "'%%' requires int operands, got %s and %s", lt, rt)
		return types.TUnknown

	case token.EqEq, token.NotEq:
		if types.Widens(lt, rt) || types.Widens(rt, lt) {
			return types.TBool
		}
		a.errorf(e.Pos(), "cannot compare %s with %s", lt, rt)
		return types.TBool

	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if types.Widens(lt, rt) || types.Widens(rt, lt) {
			return types.TBool
		}
		a.errorf(e.Pos(), "cannot compare %s with %s", lt, rt)
		return types.TBool

	case token.And, token.Or:
		if lt.Kind != types.Bool || rt.Kind != types.Bool {
			a.errorf(e.Pos(), "'%s' requires bool operands, got %s and %s", e.Op, lt, rt)
			return types.TBool
		}
		return types.TBool

	default:
		a.errorf(e.Pos(), "unsupported binary operator %s", e.Op)
		return types.TUnknown
	}
}

func (a *Analyzer) checkCall(scope *Scope, call *ast.Call, ctx funcCtx) types.Type {
	argTypes := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = a.checkExpr(scope, arg, ctx)
	}

	if bd, ok := builtins.Lookup(call.Callee); ok {
		return a.checkBuiltinCall(call, bd, argTypes)
	}

	fd, ok := a.funcs[call.Callee]
	if !ok {
		a.errorf(call.Pos(), "undefined function %q", call.Callee)
		return types.TUnknown
	}

	if len(argTypes) != len(fd.Params) {
		a.errorf(call.Pos(), "%q expects %d argument(s), got %d", call.Callee, len(fd.Params), len(argTypes))
		return types.TUnknown
	}

	for i, at := range argTypes {
		pt := fd.ResolvedType.Params[i]
		if pt.Kind == types.Unknown {
			fd.ResolvedType.Params[i] = at
		} else if !types.Widens(at, pt) {
			a.errorf(call.Args[i].Pos(), "argument %d of %q: got %s, want %s", i+1, call.Callee, at, pt)
		}
	}

	if a.inProgress[fd.Name] {
		if fd.ResolvedType.Return.Kind == types.Unknown {
			a.errorf(call.Pos(), "cannot infer return type of %q from this recursive call: its base case return must appear before the recursive call", fd.Name)
			return types.TUnknown
		}
		return *fd.ResolvedType.Return
	}

	if !a.checked[fd.Name] {
		a.checkFuncBody(fd)
	}
	return *fd.ResolvedType.Return
}

func (a *Analyzer) checkBuiltinCall(call *ast.Call, bd builtins.Descriptor, argTypes []types.Type) types.Type {
	switch {
	case bd.AnyArg:
		if len(argTypes) != 1 {
			a.errorf(call.Pos(), "%q expects 1 argument, got %d", call.Callee, len(argTypes))
			return bd.Return
		}
		return bd.Return

	case bd.Polymorphic:
		if len(argTypes) != bd.Arity {
			a.errorf(call.Pos(), "%q expects %d argument(s), got %d", call.Callee, bd.Arity, len(argTypes))
			return types.TUnknown
		}
		result := argTypes[0]
		if !result.IsNumeric() {
			a.errorf(call.Args[0].Pos(), "%q requires numeric arguments, got %s", call.Callee, result)
			return types.TUnknown
		}
		for i := 1; i < len(argTypes); i++ {
			joined, ok := types.Join(result, argTypes[i])
			if !ok {
				a.errorf(call.Args[i].Pos(), "%q requires numeric arguments, got %s", call.Callee, argTypes[i])
				return types.TUnknown
			}
			result = joined
		}
		return result

	default:
		if len(argTypes) != len(bd.Params) {
			a.errorf(call.Pos(), "%q expects %d argument(s), got %d", call.Callee, len(bd.Params), len(argTypes))
			return bd.Return
		}
		for i, at := range argTypes {
			if !types.Widens(at, bd.Params[i]) {
				a.errorf(call.Args[i].Pos(), "argument %d of %q: got %s, want %s", i+1, call.Callee, at, bd.Params[i])
			}
		}
		return bd.Return
	}
}
