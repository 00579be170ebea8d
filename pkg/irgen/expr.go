package irgen

import (
	"fmt"
	"strconv"

	"github.com/nlangtools/nlangc/pkg/builtins"
	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/token"
	"github.com/nlangtools/nlangc/pkg/compiler/types"
)

// emitExpr lowers expr and returns the SSA value (a %temp, a constant
// literal, or a global reference) holding its result.
func (e *Emitter) emitExpr(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.IntLit:
		return strconv.FormatInt(x.Value, 10)
	case *ast.FloatLit:
		return formatIRFloat(x.Value)
	case *ast.BoolLit:
		if x.Value {
			return "1"
		}
		return "0"
	case *ast.NullLit:
		return "null"
	case *ast.StringLit:
		return e.stringPointer(x.Value)
	case *ast.Identifier:
		return e.loadLocal(x.Name)
	case *ast.Paren:
		return e.emitExpr(x.Inner)
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

// stringPointer materializes a pointer to the module's interned global
// for a string literal, decaying the [N x i8] array to i8*.
func (e *Emitter) stringPointer(s string) string {
	global := e.internString(s)
	t := e.newTemp()
	e.out.WriteString(fmt.Sprintf("  %s = getelementptr [%d x i8], [%d x i8]* %s, i64 0, i64 0\n",
		t, len(s)+1, len(s)+1, global))
	return t
}

func (e *Emitter) loadLocal(name string) string {
	slot, ok := e.locals[name]
	if !ok {
		return "0"
	}
	t := e.newTemp()
	ty := llvmType(e.localType[name])
	e.out.WriteString(fmt.Sprintf("  %s = load %s, %s* %s\n", t, ty, ty, slot))
	return t
}

func formatIRFloat(f float64) string {
	return strconv.FormatFloat(f, 'x', -1, 64)
}

// emitWiden inserts an explicit sitofp conversion when moving an Int
// value into a Float-typed slot, per spec.md 4.5's widening contract.
func (e *Emitter) emitWiden(v string, from, to types.Type) string {
	if from.Kind == types.Int && to.Kind == types.Float {
		t := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = sitofp i64 %s to double\n", t, v))
		return t
	}
	return v
}

func (e *Emitter) emitUnary(x *ast.UnaryOp) string {
	v := e.emitExpr(x.Operand)
	t := e.newTemp()
	switch x.Op {
	case token.Minus:
		if x.Operand.Type().Kind == types.Float {
			e.out.WriteString(fmt.Sprintf("  %s = fneg double %s\n", t, v))
		} else {
			e.out.WriteString(fmt.Sprintf("  %s = sub i64 0, %s\n", t, v))
		}
	case token.Not, token.Bang:
		e.out.WriteString(fmt.Sprintf("  %s = xor i1 %s, 1\n", t, v))
	}
	return t
}

// emitShortCircuit lowers and/or without evaluating the right operand
// unless it can affect the result, matching the interpreter's
// short-circuit semantics so a right-hand side with an observable
// side effect behaves identically across every back end.
func (e *Emitter) emitShortCircuit(x *ast.BinaryOp) string {
	slot := e.newTemp()
	e.out.WriteString(fmt.Sprintf("  %s = alloca i1\n", slot))

	l := e.emitExpr(x.Left)
	rhsLabel := e.newLabel("sc.rhs")
	shortLabel := e.newLabel("sc.short")
	endLabel := e.newLabel("sc.end")

	if x.Op == token.And {
		e.out.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", l, rhsLabel, shortLabel))
	} else {
		e.out.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", l, shortLabel, rhsLabel))
	}

	e.out.WriteString(rhsLabel + ":\n")
	r := e.emitExpr(x.Right)
	e.out.WriteString(fmt.Sprintf("  store i1 %s, i1* %s\n", r, slot))
	e.out.WriteString(fmt.Sprintf("  br label %%%s\n", endLabel))

	e.out.WriteString(shortLabel + ":\n")
	shortValue := "0"
	if x.Op == token.Or {
		shortValue = "1"
	}
	e.out.WriteString(fmt.Sprintf("  store i1 %s, i1* %s\n", shortValue, slot))
	e.out.WriteString(fmt.Sprintf("  br label %%%s\n", endLabel))

	e.out.WriteString(endLabel + ":\n")
	res := e.newTemp()
	e.out.WriteString(fmt.Sprintf("  %s = load i1, i1* %s\n", res, slot))
	return res
}

func (e *Emitter) emitBinary(x *ast.BinaryOp) string {
	lt, rt := x.Left.Type(), x.Right.Type()

	if x.Op == token.And || x.Op == token.Or {
		return e.emitShortCircuit(x)
	}

	l := e.emitExpr(x.Left)
	r := e.emitExpr(x.Right)

	if lt.Kind == types.String && rt.Kind == types.String {
		if x.Op == token.Plus {
			t := e.newTemp()
			e.out.WriteString(fmt.Sprintf("  %s = call i8* @nlang_concat(i8* %s, i8* %s)\n", t, l, r))
			return t
		}
		if x.Op == token.EqEq || x.Op == token.NotEq {
			eq := e.newTemp()
			e.out.WriteString(fmt.Sprintf("  %s = call i32 @nlang_str_eq(i8* %s, i8* %s)\n", eq, l, r))
			t := e.newTemp()
			pred := "ne"
			if x.Op == token.NotEq {
				pred = "eq"
			}
			e.out.WriteString(fmt.Sprintf("  %s = icmp %s i32 %s, 0\n", t, pred, eq))
			return t
		}
		// Lt/LtEq/Gt/GtEq: lexicographic order via a strcmp-style helper.
		cmp := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i32 @nlang_strcmp(i8* %s, i8* %s)\n", cmp, l, r))
		t := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = icmp %s i32 %s, 0\n", t, icmpCode(x.Op), cmp))
		return t
	}

	// Numeric operators: widen either operand to double if the join is
	// Float, matching the join rule the semantic analyzer already applied
	// to the static types of this node.
	resultFloat := x.Type().Kind == types.Float
	if resultFloat {
		l = e.emitWiden(l, lt, types.TFloat)
		r = e.emitWiden(r, rt, types.TFloat)
	}

	t := e.newTemp()
	switch x.Op {
	case token.Plus:
		if resultFloat {
			e.out.WriteString(fmt.Sprintf("  %s = fadd double %s, %s\n", t, l, r))
		} else {
			e.out.WriteString(fmt.Sprintf("  %s = add i64 %s, %s\n", t, l, r))
		}
	case token.Minus:
		if resultFloat {
			e.out.WriteString(fmt.Sprintf("  %s = fsub double %s, %s\n", t, l, r))
		} else {
			e.out.WriteString(fmt.Sprintf("  %s = sub i64 %s, %s\n", t, l, r))
		}
	case token.Star:
		if resultFloat {
			e.out.WriteString(fmt.Sprintf("  %s = fmul double %s, %s\n", t, l, r))
		} else {
			e.out.WriteString(fmt.Sprintf("  %s = mul i64 %s, %s\n", t, l, r))
		}
	case token.Slash:
		if resultFloat {
			e.out.WriteString(fmt.Sprintf("  %s = fdiv double %s, %s\n", t, l, r))
		} else {
			e.out.WriteString(fmt.Sprintf("  call void (...) @nlang_div_zero(i64 %s)\n  %s = sdiv i64 %s, %s\n", r, t, l, r))
		}
	case token.Percent:
		e.out.WriteString(fmt.Sprintf("  call void (...) @nlang_div_zero(i64 %s)\n  %s = srem i64 %s, %s\n", r, t, l, r))
	case token.EqEq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		if resultFloatCmp := lt.Kind == types.Float || rt.Kind == types.Float; resultFloatCmp {
			e.out.WriteString(fmt.Sprintf("  %s = fcmp %s double %s, %s\n", t, fcmpCode(x.Op), l, r))
		} else {
			e.out.WriteString(fmt.Sprintf("  %s = icmp %s i64 %s, %s\n", t, icmpCode(x.Op), l, r))
		}
	}
	return t
}

func icmpCode(op token.Kind) string {
	switch op {
	case token.EqEq:
		return "eq"
	case token.NotEq:
		return "ne"
	case token.Lt:
		return "slt"
	case token.LtEq:
		return "sle"
	case token.Gt:
		return "sgt"
	default:
		return "sge"
	}
}

func fcmpCode(op token.Kind) string {
	switch op {
	case token.EqEq:
		return "oeq"
	case token.NotEq:
		return "one"
	case token.Lt:
		return "olt"
	case token.LtEq:
		return "ole"
	case token.Gt:
		return "ogt"
	default:
		return "oge"
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
		return e.emitBuiltinCall(call, bd, args, argTypes)
	}

	t := e.newTemp()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s %s", llvmType(argTypes[i]), a)
	}
	retType := call.Type()
	if retType.Kind == types.Null {
		e.out.WriteString(fmt.Sprintf("  call void @%s(%s)\n", call.Callee, joinArgs(parts)))
		return "0"
	}
	e.out.WriteString(fmt.Sprintf("  %s = call %s @%s(%s)\n", t, llvmType(retType), call.Callee, joinArgs(parts)))
	return t
}

func joinArgs(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func (e *Emitter) emitBuiltinCall(call *ast.Call, bd builtins.Descriptor, args []string, argTypes []types.Type) string {
	switch bd.IRTag {
	case "print", "println":
		return e.emitPrint(call, args, argTypes, bd.IRTag == "println")
	case "input":
		buf := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i8* @malloc(i64 256)\n", buf))
		stdin := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i8* (...) @nlang_stdin()\n", stdin))
		e.out.WriteString(fmt.Sprintf("  call i8* @fgets(i8* %s, i32 256, i8* %s)\n", buf, stdin))
		return buf
	case "len":
		t := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i32 @nlang_strlen(i8* %s)\n", t, args[0]))
		ext := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = sext i32 %s to i64\n", ext, t))
		return ext
	case "str":
		return e.emitToString(args[0], argTypes[0])
	case "int":
		t := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i64 @nlang_str_to_int(i8* %s)\n", t, args[0]))
		return t
	case "float":
		t := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call double @nlang_str_to_float(i8* %s)\n", t, args[0]))
		return t
	case "bool":
		return e.emitTruthy(args[0], argTypes[0])
	case "abs":
		return e.emitAbs(args[0], argTypes[0])
	case "max", "min":
		return e.emitMinMax(args[0], args[1], argTypes[0], argTypes[1], bd.IRTag == "max")
	case "pow":
		return e.emitPow(args[0], args[1], argTypes[0], argTypes[1])
	default:
		return "0"
	}
}

// emitPrint coerces argTypes[0] to a canonical textual form before handing
// it to printf, per spec.md 4.4. Bool and Null carry no printf-compatible
// scalar value (an i1 or a void constant is not a valid vararg), so both
// are rendered as pre-formatted string constants instead of a %-conversion
// against the raw value, mirroring original_source's @.str.bool_true /
// @.str.bool_false constants.
func (e *Emitter) emitPrint(call *ast.Call, args []string, argTypes []types.Type, newline bool) string {
	t := argTypes[0]
	switch t.Kind {
	case types.Bool:
		truePtr := e.stringPointer(boolText(true, newline))
		falsePtr := e.stringPointer(boolText(false, newline))
		sel := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = select i1 %s, i8* %s, i8* %s\n", sel, args[0], truePtr, falsePtr))
		e.out.WriteString(fmt.Sprintf("  call i32 (i8*, ...) @printf(i8* %s)\n", sel))
	case types.Null:
		nullPtr := e.stringPointer(nullText(newline))
		e.out.WriteString(fmt.Sprintf("  call i32 (i8*, ...) @printf(i8* %s)\n", nullPtr))
	default:
		format := formatStringFor(t, newline)
		fmtPtr := e.stringPointer(format)
		e.out.WriteString(fmt.Sprintf("  call i32 (i8*, ...) @printf(i8* %s, %s %s)\n", fmtPtr, llvmType(t), args[0]))
	}
	return "0"
}

func boolText(v, newline bool) string {
	s := "false"
	if v {
		s = "true"
	}
	if newline {
		s += "\n"
	}
	return s
}

func nullText(newline bool) string {
	if newline {
		return "null\n"
	}
	return "null"
}

func formatStringFor(t types.Type, newline bool) string {
	base := "%lld"
	switch t.Kind {
	case types.Float:
		base = "%g"
	case types.String:
		base = "%s"
	}
	if newline {
		return base + "\n"
	}
	return base
}

// emitToString implements str(x)'s coercion to a fresh heap string,
// matching the interpreter's Value.String and the C emitter's
// emitToString: Int/Float/Bool go through a runtime formatter, Null
// becomes the literal "null", and a String argument passes through.
func (e *Emitter) emitToString(v string, t types.Type) string {
	switch t.Kind {
	case types.Int:
		res := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i8* @nlang_int_to_str(i64 %s)\n", res, v))
		return res
	case types.Float:
		res := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i8* @nlang_float_to_str(double %s)\n", res, v))
		return res
	case types.Bool:
		res := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i8* @nlang_bool_to_str(i1 %s)\n", res, v))
		return res
	case types.Null:
		return e.stringPointer("null")
	default:
		return v
	}
}

// emitTruthy implements bool(x): the same non-zero/non-empty rule as
// value.Value.Truthy and the C emitter's emitTruthy, lowered to an i1.
func (e *Emitter) emitTruthy(v string, t types.Type) string {
	switch t.Kind {
	case types.Bool:
		return v
	case types.Int:
		res := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = icmp ne i64 %s, 0\n", res, v))
		return res
	case types.Float:
		res := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = fcmp one double %s, 0.000000e+00\n", res, v))
		return res
	case types.String:
		lenT := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i32 @nlang_strlen(i8* %s)\n", lenT, v))
		res := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = icmp ne i32 %s, 0\n", res, lenT))
		return res
	default:
		return "0"
	}
}

func (e *Emitter) emitAbs(v string, t types.Type) string {
	res := e.newTemp()
	if t.Kind == types.Float {
		e.out.WriteString(fmt.Sprintf("  %s = call double @llvm.fabs.f64(double %s)\n", res, v))
		return res
	}
	neg := e.newTemp()
	e.out.WriteString(fmt.Sprintf("  %s = sub i64 0, %s\n", neg, v))
	cmp := e.newTemp()
	e.out.WriteString(fmt.Sprintf("  %s = icmp slt i64 %s, 0\n", cmp, v))
	e.out.WriteString(fmt.Sprintf("  %s = select i1 %s, i64 %s, i64 %s\n", res, cmp, neg, v))
	return res
}

func (e *Emitter) emitMinMax(l, r string, lt, rt types.Type, wantMax bool) string {
	if lt.Kind == types.Float || rt.Kind == types.Float {
		l = e.emitWiden(l, lt, types.TFloat)
		r = e.emitWiden(r, rt, types.TFloat)
		cmp := e.newTemp()
		pred := "ogt"
		if !wantMax {
			pred = "olt"
		}
		e.out.WriteString(fmt.Sprintf("  %s = fcmp %s double %s, %s\n", cmp, pred, l, r))
		res := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = select i1 %s, double %s, double %s\n", res, cmp, l, r))
		return res
	}
	cmp := e.newTemp()
	pred := "sgt"
	if !wantMax {
		pred = "slt"
	}
	e.out.WriteString(fmt.Sprintf("  %s = icmp %s i64 %s, %s\n", cmp, pred, l, r))
	res := e.newTemp()
	e.out.WriteString(fmt.Sprintf("  %s = select i1 %s, i64 %s, i64 %s\n", res, cmp, l, r))
	return res
}

// emitPow keeps Int**Int on an exact integer path (a declared
// @nlang_ipow doing repeated multiplication, matching the
// interpreter's pow builtin exactly) rather than routing through the
// double-precision @pow and losing precision on large exponents.
func (e *Emitter) emitPow(base, exp string, bt, et types.Type) string {
	if bt.Kind == types.Int && et.Kind == types.Int {
		res := e.newTemp()
		e.out.WriteString(fmt.Sprintf("  %s = call i64 @nlang_ipow(i64 %s, i64 %s)\n", res, base, exp))
		return res
	}
	baseF := e.emitWiden(base, bt, types.TFloat)
	expF := e.emitWiden(exp, et, types.TFloat)
	res := e.newTemp()
	e.out.WriteString(fmt.Sprintf("  %s = call double @pow(double %s, double %s)\n", res, baseF, expF))
	return res
}
