// Package sema implements spec.md section 4.3: scope resolution, type
// inference, and type checking over the parsed AST. The two-pass shape
// (hoist declarations, then check) and the scope-stack-plus-diagnostic-
// list structure follow the teacher's semantic analysis pass; the
// checking rules themselves are rewritten for this language's untyped
// parameter syntax.
//
// Parameter types are not written in source, so spec.md's "type
// inference as local unification... flows along assignment and return
// edges only" is realized here as call-driven binding: a function's
// Unknown parameter types are filled in from the argument types at its
// first call site, and its Unknown return type is filled in from the
// first `return` statement reached while walking its body (in source
// order). Because AST statements are visited in the order they appear,
// a recursive function whose base-case return precedes its recursive
// call resolves its own return type before that recursive call needs
// it; a function whose only return follows its recursive call cannot be
// resolved and is reported as a semantic error, per the "fail fast on
// ambiguity" design note.
package sema

import (
	"github.com/nlangtools/nlangc/pkg/builtins"
	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/token"
	"github.com/nlangtools/nlangc/pkg/compiler/types"
	"github.com/nlangtools/nlangc/pkg/diag"
)

// Analyzer performs semantic analysis over a single parsed program.
type Analyzer struct {
	global *Scope
	diags  diag.List

	funcs      map[string]*ast.FuncDecl
	inProgress map[string]bool
	checked    map[string]bool

	entry *ast.FuncDecl
}

// EntryName returns the resolved entry function's name, or "" if entry
// resolution failed (in which case Analyze's diagnostics explain why).
func (a *Analyzer) EntryName() string {
	if a.entry == nil {
		return ""
	}
	return a.entry.Name
}

// New creates an Analyzer with a global scope seeded from the built-in
// registry.
func New() *Analyzer {
	a := &Analyzer{
		global:     newScope(nil),
		funcs:      make(map[string]*ast.FuncDecl),
		inProgress: make(map[string]bool),
		checked:    make(map[string]bool),
	}
	for name := range builtins.Registry {
		a.global.Declare(Symbol{Name: name, Kind: KindBuiltIn, Type: types.TUnknown})
	}
	return a
}

func (a *Analyzer) errorf(tok token.Token, format string, args ...any) {
	a.diags.Addf(diag.Semantic, diag.Position{Line: tok.Line, Column: tok.Column}, format, args...)
}

// funcCtx tracks the function currently being checked (for return-type
// binding) and whether the current statement is inside a while loop
// (for break/continue validation). decl is nil for top-level statements
// outside any function.
type funcCtx struct {
	decl   *ast.FuncDecl
	inLoop bool
}

// Analyze runs both passes and returns the accumulated diagnostics. The
// AST's expression nodes and FuncDecl.ResolvedType fields are annotated
// in place; callers should treat the AST as unusable if diags reports
// any errors.
func (a *Analyzer) Analyze(prog *ast.Program) diag.List {
	globalStmts := a.hoist(prog)
	a.resolveEntry(prog)

	top := funcCtx{}
	for _, stmt := range globalStmts {
		a.checkStmt(a.global, stmt, top)
	}

	if a.entry != nil {
		a.checkFuncBody(a.entry)
	}

	// Functions never reached from the entry point but that take no
	// parameters can still be fully checked without any call site.
	for _, fd := range a.funcs {
		if !a.checked[fd.Name] && len(fd.Params) == 0 {
			a.checkFuncBody(fd)
		}
	}

	return a.diags
}

// hoist inserts every top-level function into global scope with Unknown
// parameter/return types and binds from-import names to same-named
// built-ins; assign_main is left for resolveEntry. It returns the top-level
// statements that are not declarations (global variable initialization
// and the like), in source order.
func (a *Analyzer) hoist(prog *ast.Program) []ast.Statement {
	var globalStmts []ast.Statement
	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			params := make([]types.Type, len(d.Params))
			for i := range params {
				params[i] = types.TUnknown
			}
			ret := types.TUnknown
			fnType := types.Func(params, ret)
			d.ResolvedType = fnType
			if !a.global.Declare(Symbol{Name: d.Name, Kind: KindFunction, Type: fnType}) {
				a.errorf(d.Token, "function %q is already declared", d.Name)
				continue
			}
			a.funcs[d.Name] = d
		case *ast.Import:
			// Single-translation-unit compilation inlines imports; there is
			// nothing further to bind.
		case *ast.FromImport:
			for _, name := range d.Names {
				if _, ok := builtins.Lookup(name); ok {
					a.global.Declare(Symbol{Name: name, Kind: KindBuiltIn, Type: types.TUnknown})
				}
				// A name with no matching built-in binds to nothing, per
				// spec's open-question resolution: selective imports are a
				// no-op beyond binding names that happen to name a built-in.
			}
		case *ast.AssignMain:
			// Handled in resolveEntry once every function has been hoisted.
		default:
			globalStmts = append(globalStmts, decl)
		}
	}
	return globalStmts
}

// resolveEntry implements spec.md's data-model invariant that exactly
// one function is the program entry, plus the open-question resolution
// that a literal `main` and an `assign_main` directive naming a
// different function is a semantic error.
func (a *Analyzer) resolveEntry(prog *ast.Program) {
	literalMain, hasLiteralMain := a.funcs["main"]

	var assignedName string
	var assignedTok token.Token
	haveAssign := false
	for _, decl := range prog.Declarations {
		if am, ok := decl.(*ast.AssignMain); ok {
			if haveAssign && assignedName != am.FuncName {
				a.errorf(am.Token, "conflicting assign_main directives: %q and %q", assignedName, am.FuncName)
			}
			assignedName = am.FuncName
			assignedTok = am.Token
			haveAssign = true
		}
	}

	switch {
	case haveAssign && hasLiteralMain && assignedName != "main":
		a.errorf(assignedTok, "assign_main names %q but a function literally named 'main' also exists", assignedName)
	case haveAssign:
		fd, ok := a.funcs[assignedName]
		if !ok {
			a.errorf(assignedTok, "assign_main names undefined function %q", assignedName)
			return
		}
		a.entry = fd
	case hasLiteralMain:
		a.entry = literalMain
	default:
		a.diags.Addf(diag.Semantic, diag.Position{}, "no entry function: define 'main' or an 'assign_main' directive")
	}
}

// checkFuncBody type-checks fd's body, assuming its parameter types (if
// previously Unknown) have already been bound by the caller. The first
// `return` statement encountered while Unknown fills in fd's return
// type; if the body never returns, the return type defaults to Null.
func (a *Analyzer) checkFuncBody(fd *ast.FuncDecl) {
	if a.checked[fd.Name] || a.inProgress[fd.Name] {
		return
	}
	a.inProgress[fd.Name] = true

	local := newScope(a.global)
	for i, p := range fd.Params {
		local.Declare(Symbol{Name: p.Name, Kind: KindParameter, Type: fd.ResolvedType.Params[i]})
	}

	ctx := funcCtx{decl: fd}
	for _, stmt := range fd.Body {
		a.checkStmt(local, stmt, ctx)
	}

	if fd.ResolvedType.Return.Kind == types.Unknown {
		*fd.ResolvedType.Return = types.TNull
	}

	delete(a.inProgress, fd.Name)
	a.checked[fd.Name] = true
}
