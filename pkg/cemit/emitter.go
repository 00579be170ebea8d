// Package cemit implements spec.md section 4.6: a C emitter producing a
// single self-contained translation unit from the checked AST. The
// two-pass shape (collect string literals, then forward-declare every
// function before defining any of them) and the string-constant pool
// are grounded in original_source/src/c_codegen/mod.rs; the emitted C
// itself follows the header/prologue/body layout common to the other
// small C back-ends in the retrieval pack (DQNEO's 8cc, bminor).
package cemit

import (
	"fmt"
	"strings"

	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/types"
)

// Emitter lowers one checked program to a C99 translation unit.
type Emitter struct {
	out strings.Builder

	strings     map[string]string
	stringOrder []string

	locals map[string]types.Type

	// entryName is the source name of the program's entry function;
	// entryCName is the C symbol it is emitted under. They differ only
	// when the entry function is itself literally named "main": C
	// requires `int main(void)`, but the entry may be declared with any
	// return type, so that function is emitted under an internal name
	// and a conforming `int main` wrapper always calls it.
	entryName  string
	entryCName string
}

// New creates an Emitter.
func New() *Emitter {
	return &Emitter{strings: make(map[string]string)}
}

// Emit lowers prog to C text. entryName's function becomes (or is called
// by) the emitted `main`, per spec.md 4.6.
func (e *Emitter) Emit(prog *ast.Program, entryName string) (string, error) {
	e.entryName = entryName
	e.entryCName = entryName
	if entryName == "main" {
		e.entryCName = "nlang_main"
	}

	e.out.WriteString("#include <stdio.h>\n")
	e.out.WriteString("#include <string.h>\n")
	e.out.WriteString("#include <stdlib.h>\n")
	e.out.WriteString("#include <math.h>\n\n")

	e.writePrologueHelpers()

	e.collectStrings(prog)
	for _, content := range e.stringOrder {
		e.out.WriteString(fmt.Sprintf("static const char %s[] = \"%s\";\n", e.strings[content], escapeC(content)))
	}
	if len(e.stringOrder) > 0 {
		e.out.WriteString("\n")
	}

	var funcs []*ast.FuncDecl
	for _, decl := range prog.Declarations {
		if fd, ok := decl.(*ast.FuncDecl); ok && !isDeadFunction(fd) {
			funcs = append(funcs, fd)
		}
	}

	for _, fd := range funcs {
		e.out.WriteString(e.functionSignature(fd) + ";\n")
	}
	if len(funcs) > 0 {
		e.out.WriteString("\n")
	}

	for _, fd := range funcs {
		e.emitFunction(fd)
	}

	e.emitCMain(entryName, funcs)

	return e.out.String(), nil
}

func (e *Emitter) writePrologueHelpers() {
	e.out.WriteString(`static void nlang_fatal(const char *msg) {
    fprintf(stderr, "%s\n", msg);
    exit(1);
}

static long long nlang_checked_div(long long a, long long b) {
    if (b == 0) nlang_fatal("division by zero");
    return a / b;
}

static long long nlang_checked_mod(long long a, long long b) {
    if (b == 0) nlang_fatal("modulo by zero");
    return a % b;
}

static char *nlang_int_to_str(long long v) {
    char *buf = malloc(32);
    snprintf(buf, 32, "%lld", v);
    return buf;
}

static char *nlang_float_to_str(double v) {
    char *buf = malloc(64);
    snprintf(buf, 64, "%g", v);
    return buf;
}

static char *nlang_bool_to_str(int v) {
    return v ? "true" : "false";
}

static char *nlang_concat(const char *a, const char *b) {
    char *buf = malloc(strlen(a) + strlen(b) + 1);
    strcpy(buf, a);
    strcat(buf, b);
    return buf;
}

static long long nlang_max_ll(long long a, long long b) {
    return a > b ? a : b;
}

static long long nlang_min_ll(long long a, long long b) {
    return a < b ? a : b;
}

static double nlang_max_d(double a, double b) {
    return a > b ? a : b;
}

static double nlang_min_d(double a, double b) {
    return a < b ? a : b;
}

static long long nlang_ipow(long long base, long long exp) {
    long long result = 1;
    for (long long i = 0; i < exp; i++) {
        result *= base;
    }
    return result;
}

static char *nlang_input(void) {
    char *buf = malloc(256);
    if (!fgets(buf, 256, stdin)) {
        buf[0] = '\0';
        return buf;
    }
    buf[strcspn(buf, "\n")] = '\0';
    return buf;
}

`)
}

func escapeC(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (e *Emitter) internString(s string) string {
	if name, ok := e.strings[s]; ok {
		return name
	}
	name := fmt.Sprintf("nlang_str_%d", len(e.stringOrder))
	e.strings[s] = name
	e.stringOrder = append(e.stringOrder, s)
	return name
}

func (e *Emitter) collectStrings(prog *ast.Program) {
	for _, decl := range prog.Declarations {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			for _, s := range fd.Body {
				e.collectStmtStrings(s)
			}
		}
	}
}

func (e *Emitter) collectStmtStrings(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		e.collectExprStrings(s.Value)
	case *ast.Assign:
		e.collectExprStrings(s.Value)
	case *ast.ExprStmt:
		e.collectExprStrings(s.X)
	case *ast.Return:
		if s.Value != nil {
			e.collectExprStrings(s.Value)
		}
	case *ast.If:
		e.collectExprStrings(s.Cond)
		for _, st := range s.Then {
			e.collectStmtStrings(st)
		}
		for _, st := range s.Else {
			e.collectStmtStrings(st)
		}
	case *ast.While:
		e.collectExprStrings(s.Cond)
		for _, st := range s.Body {
			e.collectStmtStrings(st)
		}
	}
}

func (e *Emitter) collectExprStrings(expr ast.Expr) {
	switch x := expr.(type) {
	case *ast.StringLit:
		e.internString(x.Value)
	case *ast.Paren:
		e.collectExprStrings(x.Inner)
	case *ast.UnaryOp:
		e.collectExprStrings(x.Operand)
	case *ast.BinaryOp:
		e.collectExprStrings(x.Left)
		e.collectExprStrings(x.Right)
	case *ast.Call:
		for _, a := range x.Args {
			e.collectExprStrings(a)
		}
	}
}

// cType maps spec.md's static types to C99, per section 4.6: Int -> a
// 64-bit signed integer, Float -> double, Bool -> int (0/1),
// String -> const char *, Null -> void in return position.
func cType(t types.Type) string {
	switch t.Kind {
	case types.Int:
		return "long long"
	case types.Float:
		return "double"
	case types.Bool:
		return "int"
	case types.String:
		return "const char *"
	case types.Null:
		return "void"
	default:
		return "long long"
	}
}

// isDeadFunction reports whether fd was never called, so the analyzer's
// call-driven inference (pkg/compiler/sema) left its parameter and/or
// return types Unknown. Such a function is dropped before emission
// rather than emitted against a fabricated numeric signature, matching
// pkg/irgen's treatment of the same case.
func isDeadFunction(fd *ast.FuncDecl) bool {
	if fd.ResolvedType.Return.Kind == types.Unknown {
		return true
	}
	for _, pt := range fd.ResolvedType.Params {
		if pt.Kind == types.Unknown {
			return true
		}
	}
	return false
}

// cName returns the C symbol a source-level function name is emitted
// under, applying the entry/"main" rename described on Emitter.
func (e *Emitter) cName(name string) string {
	if name == e.entryName {
		return e.entryCName
	}
	return name
}

func (e *Emitter) functionSignature(fd *ast.FuncDecl) string {
	params := make([]string, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = fmt.Sprintf("%s %s", cType(fd.ResolvedType.Params[i]), p.Name)
	}
	if len(params) == 0 {
		params = []string{"void"}
	}
	return fmt.Sprintf("%s %s(%s)", cType(*fd.ResolvedType.Return), e.cName(fd.Name), strings.Join(params, ", "))
}

func (e *Emitter) emitFunction(fd *ast.FuncDecl) {
	e.locals = make(map[string]types.Type)
	for i, p := range fd.Params {
		e.locals[p.Name] = fd.ResolvedType.Params[i]
	}

	e.out.WriteString(e.functionSignature(fd) + " {\n")
	e.emitBlock(fd.Body, 1)
	if !endsWithReturn(fd.Body) && fd.ResolvedType.Return.Kind != types.Null {
		e.writeIndent(1)
		e.out.WriteString(fmt.Sprintf("return (%s)0;\n", cType(*fd.ResolvedType.Return)))
	}
	e.out.WriteString("}\n\n")
}

func endsWithReturn(stmts []ast.Statement) bool {
	if len(stmts) == 0 {
		return false
	}
	_, ok := stmts[len(stmts)-1].(*ast.Return)
	return ok
}

func (e *Emitter) writeIndent(depth int) {
	e.out.WriteString(strings.Repeat("    ", depth))
}

// emitCMain implements spec.md 4.6 point 4: a conforming `int main(void)`
// that calls the entry function and returns its numeric result or 0.
// This wrapper is always emitted, even when the entry function is itself
// named "main" in source, since that function is emitted under the
// renamed C symbol e.entryCName rather than as C's own main.
func (e *Emitter) emitCMain(entryName string, funcs []*ast.FuncDecl) {
	var entry *ast.FuncDecl
	for _, fd := range funcs {
		if fd.Name == entryName {
			entry = fd
		}
	}
	if entry == nil {
		return
	}
	e.out.WriteString("int main(void) {\n")
	if entry.ResolvedType.Return.Kind == types.Int {
		e.out.WriteString(fmt.Sprintf("    return (int)%s();\n", e.entryCName))
	} else {
		e.out.WriteString(fmt.Sprintf("    %s();\n    return 0;\n", e.entryCName))
	}
	e.out.WriteString("}\n")
}
