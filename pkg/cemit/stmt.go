package cemit

import (
	"fmt"

	"github.com/nlangtools/nlangc/pkg/compiler/ast"
)

func (e *Emitter) emitBlock(stmts []ast.Statement, depth int) {
	for _, stmt := range stmts {
		e.emitStmt(stmt, depth)
	}
}

func (e *Emitter) emitStmt(stmt ast.Statement, depth int) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		v := e.emitExpr(s.Value)
		e.locals[s.Name] = s.Value.Type()
		e.writeIndent(depth)
		e.out.WriteString(fmt.Sprintf("%s %s = %s;\n", cType(s.Value.Type()), s.Name, v))

	case *ast.Assign:
		v := e.emitExpr(s.Value)
		target := e.locals[s.Name]
		v = e.emitCast(v, s.Value.Type(), target)
		e.writeIndent(depth)
		e.out.WriteString(fmt.Sprintf("%s = %s;\n", s.Name, v))

	case *ast.ExprStmt:
		v := e.emitExpr(s.X)
		e.writeIndent(depth)
		e.out.WriteString(v + ";\n")

	case *ast.Return:
		e.writeIndent(depth)
		if s.Value == nil {
			e.out.WriteString("return;\n")
			return
		}
		v := e.emitExpr(s.Value)
		e.out.WriteString(fmt.Sprintf("return %s;\n", v))

	case *ast.If:
		cond := e.emitExpr(s.Cond)
		e.writeIndent(depth)
		e.out.WriteString(fmt.Sprintf("if (%s) {\n", cond))
		e.emitBlock(s.Then, depth+1)
		e.writeIndent(depth)
		if s.Else != nil {
			e.out.WriteString("} else {\n")
			e.emitBlock(s.Else, depth+1)
			e.writeIndent(depth)
		}
		e.out.WriteString("}\n")

	case *ast.While:
		cond := e.emitExpr(s.Cond)
		e.writeIndent(depth)
		e.out.WriteString(fmt.Sprintf("while (%s) {\n", cond))
		e.emitBlock(s.Body, depth+1)
		e.writeIndent(depth)
		e.out.WriteString("}\n")

	case *ast.Break:
		e.writeIndent(depth)
		e.out.WriteString("break;\n")

	case *ast.Continue:
		e.writeIndent(depth)
		e.out.WriteString("continue;\n")
	}
}
