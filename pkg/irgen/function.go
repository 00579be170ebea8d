package irgen

import (
	"fmt"

	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/types"
)

func (e *Emitter) emitFunction(fd *ast.FuncDecl, emittedName string) {
	e.resetFunction()

	retType := *fd.ResolvedType.Return
	e.out.WriteString(fmt.Sprintf("define %s @%s(", llvmType(retType), emittedName))
	for i, p := range fd.Params {
		if i > 0 {
			e.out.WriteString(", ")
		}
		pt := fd.ResolvedType.Params[i]
		e.out.WriteString(fmt.Sprintf("%s %%arg.%s", llvmType(pt), p.Name))
	}
	e.out.WriteString(") {\nentry:\n")

	for i, p := range fd.Params {
		pt := fd.ResolvedType.Params[i]
		slot := fmt.Sprintf("%%%s", p.Name)
		e.out.WriteString(fmt.Sprintf("  %s = alloca %s\n", slot, llvmType(pt)))
		e.out.WriteString(fmt.Sprintf("  store %s %%arg.%s, %s* %s\n", llvmType(pt), p.Name, llvmType(pt), slot))
		e.locals[p.Name] = slot
		e.localType[p.Name] = pt
	}

	terminated := e.emitBlock(fd.Body)
	if !terminated {
		switch retType.Kind {
		case types.Null:
			e.out.WriteString("  ret void\n")
		case types.Int:
			e.out.WriteString("  ret i64 0\n")
		case types.Float:
			e.out.WriteString("  ret double 0.0\n")
		case types.Bool:
			e.out.WriteString("  ret i1 0\n")
		case types.String:
			e.out.WriteString("  ret i8* null\n")
		}
	}
	e.out.WriteString("}\n\n")
}

// emitBlock lowers stmts, returning true if the block's last statement
// was a terminator (return/break/continue) so callers can skip emitting
// a redundant fallthrough.
func (e *Emitter) emitBlock(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		if e.emitStmt(stmt) {
			return true
		}
	}
	return false
}

func (e *Emitter) emitStmt(stmt ast.Statement) (terminated bool) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		v := e.emitExpr(s.Value)
		t := s.Value.Type()
		slot := fmt.Sprintf("%%%s", s.Name)
		e.out.WriteString(fmt.Sprintf("  %s = alloca %s\n", slot, llvmType(t)))
		e.out.WriteString(fmt.Sprintf("  store %s %s, %s* %s\n", llvmType(t), v, llvmType(t), slot))
		e.locals[s.Name] = slot
		e.localType[s.Name] = t
		return false

	case *ast.Assign:
		v := e.emitExpr(s.Value)
		slot := e.locals[s.Name]
		t := e.localType[s.Name]
		v = e.emitWiden(v, s.Value.Type(), t)
		e.out.WriteString(fmt.Sprintf("  store %s %s, %s* %s\n", llvmType(t), v, llvmType(t), slot))
		return false

	case *ast.ExprStmt:
		e.emitExpr(s.X)
		return false

	case *ast.Return:
		if s.Value == nil {
			e.out.WriteString("  ret void\n")
			return true
		}
		v := e.emitExpr(s.Value)
		e.out.WriteString(fmt.Sprintf("  ret %s %s\n", llvmType(s.Value.Type()), v))
		return true

	case *ast.If:
		cond := e.emitExpr(s.Cond)
		thenL, elseL, endL := e.newLabel("if.then"), e.newLabel("if.else"), e.newLabel("if.end")
		target := elseL
		if s.Else == nil {
			target = endL
		}
		e.out.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", cond, thenL, target))
		e.out.WriteString(thenL + ":\n")
		thenTerm := e.emitBlock(s.Then)
		if !thenTerm {
			e.out.WriteString(fmt.Sprintf("  br label %%%s\n", endL))
		}
		if s.Else != nil {
			e.out.WriteString(elseL + ":\n")
			elseTerm := e.emitBlock(s.Else)
			if !elseTerm {
				e.out.WriteString(fmt.Sprintf("  br label %%%s\n", endL))
			}
			if thenTerm && elseTerm {
				return true
			}
		}
		e.out.WriteString(endL + ":\n")
		return false

	case *ast.While:
		headL, bodyL, endL := e.newLabel("while.cond"), e.newLabel("while.body"), e.newLabel("while.end")
		e.loops = append(e.loops, loopCtx{continueLabel: headL, breakLabel: endL})
		e.out.WriteString(fmt.Sprintf("  br label %%%s\n", headL))
		e.out.WriteString(headL + ":\n")
		cond := e.emitExpr(s.Cond)
		e.out.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", cond, bodyL, endL))
		e.out.WriteString(bodyL + ":\n")
		bodyTerm := e.emitBlock(s.Body)
		if !bodyTerm {
			e.out.WriteString(fmt.Sprintf("  br label %%%s\n", headL))
		}
		e.loops = e.loops[:len(e.loops)-1]
		e.out.WriteString(endL + ":\n")
		return false

	case *ast.Break:
		top := e.loops[len(e.loops)-1]
		e.out.WriteString(fmt.Sprintf("  br label %%%s\n", top.breakLabel))
		return true

	case *ast.Continue:
		top := e.loops[len(e.loops)-1]
		e.out.WriteString(fmt.Sprintf("  br label %%%s\n", top.continueLabel))
		return true

	default:
		return false
	}
}
