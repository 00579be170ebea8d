package cemit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nlangtools/nlangc/pkg/builtins"
	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/token"
	"github.com/nlangtools/nlangc/pkg/compiler/types"
)

// emitExpr renders expr as a parenthesized C expression, per spec.md
// 4.6's "parentheses always emitted to preserve precedence safely."
func (e *Emitter) emitExpr(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.IntLit:
		return strconv.FormatInt(x.Value, 10) + "LL"
	case *ast.FloatLit:
		// A whole value such as 10.0 formats as "10", which C reads as an
		// integer literal; a trailing ".0" keeps it a double constant.
		s := strconv.FormatFloat(x.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return s
	case *ast.BoolLit:
		if x.Value {
			return "1"
		}
		return "0"
	case *ast.NullLit:
		return "0"
	case *ast.StringLit:
		return e.internString(x.Value)
	case *ast.Identifier:
		return x.Name
	case *ast.Paren:
		return "(" + e.emitExpr(x.Inner) + ")"
	case *ast.UnaryOp:
		return e.emitUnary(x)
	case *ast.BinaryOp:
		return e.emitBinary(x)
	case *ast.Call:
		return e.emitCall(x)
	default:
		return "0"
	}
}

func (e *Emitter) emitCast(v string, from, to types.Type) string {
	if from.Kind == types.Int && to.Kind == types.Float {
		return fmt.Sprintf("((double)(%s))", v)
	}
	return v
}

func (e *Emitter) emitUnary(x *ast.UnaryOp) string {
	v := e.emitExpr(x.Operand)
	switch x.Op {
	case token.Minus:
		return fmt.Sprintf("(-(%s))", v)
	case token.Not, token.Bang:
		return fmt.Sprintf("(!(%s))", v)
	default:
		return v
	}
}

func (e *Emitter) emitBinary(x *ast.BinaryOp) string {
	lt, rt := x.Left.Type(), x.Right.Type()
	l := e.emitExpr(x.Left)
	r := e.emitExpr(x.Right)

	if lt.Kind == types.String && rt.Kind == types.String {
		switch x.Op {
		case token.Plus:
			return fmt.Sprintf("nlang_concat(%s, %s)", l, r)
		case token.EqEq:
			return fmt.Sprintf("(strcmp(%s, %s) == 0)", l, r)
		case token.NotEq:
			return fmt.Sprintf("(strcmp(%s, %s) != 0)", l, r)
		default:
			return fmt.Sprintf("(strcmp(%s, %s) %s 0)", l, r, cCompareOp(x.Op))
		}
	}

	resultFloat := x.Type().Kind == types.Float
	if resultFloat {
		l = e.emitCast(l, lt, types.TFloat)
		r = e.emitCast(r, rt, types.TFloat)
	}

	switch x.Op {
	case token.Plus:
		return fmt.Sprintf("(%s + %s)", l, r)
	case token.Minus:
		return fmt.Sprintf("(%s - %s)", l, r)
	case token.Star:
		return fmt.Sprintf("(%s * %s)", l, r)
	case token.Slash:
		if resultFloat {
			return fmt.Sprintf("(%s / %s)", l, r)
		}
		// Integer division/modulo by zero must not be undefined behavior;
		// route through a checked helper, per spec.md 4.6.
		return fmt.Sprintf("nlang_checked_div(%s, %s)", l, r)
	case token.Percent:
		return fmt.Sprintf("nlang_checked_mod(%s, %s)", l, r)
	case token.EqEq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		cmpL, cmpR := l, r
		if !resultFloat && (lt.Kind == types.Float || rt.Kind == types.Float) {
			cmpL = e.emitCast(l, lt, types.TFloat)
			cmpR = e.emitCast(r, rt, types.TFloat)
		}
		return fmt.Sprintf("(%s %s %s)", cmpL, cCompareOp(x.Op), cmpR)
	case token.And:
		return fmt.Sprintf("(%s && %s)", l, r)
	case token.Or:
		return fmt.Sprintf("(%s || %s)", l, r)
	default:
		return "0"
	}
}

func cCompareOp(op token.Kind) string {
	switch op {
	case token.EqEq:
		return "=="
	case token.NotEq:
		return "!="
	case token.Lt:
		return "<"
	case token.LtEq:
		return "<="
	case token.Gt:
		return ">"
	default:
		return ">="
	}
}

func (e *Emitter) emitCall(call *ast.Call) string {
	args := make([]string, len(call.Args))
	argTypes := make([]types.Type, len(call.Args))
	for i, a := range call.Args {
		args[i] = e.emitExpr(a)
		argTypes[i] = a.Type()
	}

	if bd, ok := builtins.Lookup(call.Callee); ok {
		return e.emitBuiltinCall(bd, args, argTypes)
	}

	return fmt.Sprintf("%s(%s)", e.cName(call.Callee), strings.Join(args, ", "))
}

func (e *Emitter) emitBuiltinCall(bd builtins.Descriptor, args []string, argTypes []types.Type) string {
	switch bd.CTag {
	case "print":
		return e.emitPrintf(args[0], argTypes[0], false)
	case "println":
		return e.emitPrintf(args[0], argTypes[0], true)
	case "input":
		return "nlang_input()"
	case "len":
		return fmt.Sprintf("((long long)strlen(%s))", args[0])
	case "str":
		return e.emitToString(args[0], argTypes[0])
	case "int":
		return fmt.Sprintf("atoll(%s)", args[0])
	case "float":
		return fmt.Sprintf("atof(%s)", args[0])
	case "bool":
		return e.emitTruthy(args[0], argTypes[0])
	case "abs":
		if argTypes[0].Kind == types.Float {
			return fmt.Sprintf("fabs(%s)", args[0])
		}
		return fmt.Sprintf("llabs(%s)", args[0])
	case "max":
		return e.emitMinMax(args[0], args[1], argTypes[0], argTypes[1], true)
	case "min":
		return e.emitMinMax(args[0], args[1], argTypes[0], argTypes[1], false)
	case "pow":
		return e.emitPow(args[0], args[1], argTypes[0], argTypes[1])
	default:
		return "0"
	}
}

// emitPrintf formats a display value according to its static type,
// resolving the Open Question flagged in spec.md section 9: the
// original's float display path is bugged (formats via an integer
// conversion); here float display always uses %g against the double
// value directly.
func (e *Emitter) emitPrintf(v string, t types.Type, newline bool) string {
	suffix := ""
	if newline {
		suffix = `\n`
	}
	switch t.Kind {
	case types.Int:
		return fmt.Sprintf(`printf("%%lld%s", %s)`, suffix, v)
	case types.Float:
		return fmt.Sprintf(`printf("%%g%s", %s)`, suffix, v)
	case types.String:
		return fmt.Sprintf(`printf("%%s%s", %s)`, suffix, v)
	case types.Bool:
		return fmt.Sprintf(`printf("%%s%s", nlang_bool_to_str(%s))`, suffix, v)
	default:
		return fmt.Sprintf(`printf("null%s")`, suffix)
	}
}

func (e *Emitter) emitToString(v string, t types.Type) string {
	switch t.Kind {
	case types.Int:
		return fmt.Sprintf("nlang_int_to_str(%s)", v)
	case types.Float:
		return fmt.Sprintf("nlang_float_to_str(%s)", v)
	case types.Bool:
		return fmt.Sprintf("nlang_bool_to_str(%s)", v)
	case types.Null:
		return `"null"`
	default:
		return v
	}
}

func (e *Emitter) emitTruthy(v string, t types.Type) string {
	switch t.Kind {
	case types.String:
		return fmt.Sprintf("(strlen(%s) > 0)", v)
	case types.Null:
		return "0"
	default:
		return fmt.Sprintf("(%s != 0)", v)
	}
}

// emitMinMax routes max/min through a runtime helper rather than a
// textual ternary. A ternary would paste each operand into the emitted
// C twice (once per branch), evaluating it twice at runtime; since
// nlang's arguments can carry side effects (e.g. a call to print), that
// would diverge from the interpreter and the IR back-end, which each
// evaluate an argument exactly once. Passing both operands as C function
// arguments evaluates each exactly once regardless of which one wins.
func (e *Emitter) emitMinMax(l, r string, lt, rt types.Type, wantMax bool) string {
	if lt.Kind == types.Float || rt.Kind == types.Float {
		l = e.emitCast(l, lt, types.TFloat)
		r = e.emitCast(r, rt, types.TFloat)
		if wantMax {
			return fmt.Sprintf("nlang_max_d(%s, %s)", l, r)
		}
		return fmt.Sprintf("nlang_min_d(%s, %s)", l, r)
	}
	if wantMax {
		return fmt.Sprintf("nlang_max_ll(%s, %s)", l, r)
	}
	return fmt.Sprintf("nlang_min_ll(%s, %s)", l, r)
}

func (e *Emitter) emitPow(base, exp string, bt, et types.Type) string {
	if bt.Kind == types.Int && et.Kind == types.Int {
		return fmt.Sprintf("nlang_ipow(%s, %s)", base, exp)
	}
	baseF := e.emitCast(base, bt, types.TFloat)
	expF := e.emitCast(exp, et, types.TFloat)
	return fmt.Sprintf("pow(%s, %s)", baseF, expF)
}
