package sema_test

import (
	"testing"

	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/parser"
	"github.com/nlangtools/nlangc/pkg/compiler/sema"
	"github.com/nlangtools/nlangc/pkg/compiler/types"
)

func analyze(t *testing.T, src string) (*ast.Program, *sema.Analyzer, []string) {
	t.Helper()
	p := parser.New([]byte(src))
	prog, pdiags := p.Parse()
	if pdiags.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", pdiags.Items())
	}
	a := sema.New()
	diags := a.Analyze(prog)
	var msgs []string
	for _, d := range diags.Items() {
		msgs = append(msgs, d.String())
	}
	return prog, a, msgs
}

func findFunc(prog *ast.Program, name string) *ast.FuncDecl {
	for _, d := range prog.Declarations {
		if fd, ok := d.(*ast.FuncDecl); ok && fd.Name == name {
			return fd
		}
	}
	return nil
}

func TestHelloWorldTypeChecks(t *testing.T) {
	_, _, msgs := analyze(t, `def main(){ println("Hello, World!"); return 0; }`)
	if len(msgs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
}

func TestRecursiveFactorialInfersIntParamAndReturn(t *testing.T) {
	prog, _, msgs := analyze(t, `
		def factorial(n) {
			if (n <= 1) { return 1; }
			return n * factorial(n - 1);
		}
		def main() {
			println(factorial(5));
		}
	`)
	if len(msgs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
	fact := findFunc(prog, "factorial")
	if fact.ResolvedType.Params[0].Kind != types.Int {
		t.Errorf("factorial param inferred as %s, want int", fact.ResolvedType.Params[0])
	}
	if fact.ResolvedType.Return.Kind != types.Int {
		t.Errorf("factorial return inferred as %s, want int", *fact.ResolvedType.Return)
	}
}

func TestRecursionWithLateBaseCaseFails(t *testing.T) {
	_, _, msgs := analyze(t, `
		def bad(n) {
			return n * bad(n - 1);
		}
		def main() { bad(5); }
	`)
	if len(msgs) == 0 {
		t.Fatal("expected a diagnostic for an unresolvable recursive return type")
	}
}

func TestUndefinedIdentifier(t *testing.T) {
	_, _, msgs := analyze(t, `def main() { println(foo); }`)
	if len(msgs) == 0 {
		t.Fatal("expected an undefined identifier diagnostic")
	}
}

func TestDivisionByZeroIsRuntimeNotSemantic(t *testing.T) {
	_, _, msgs := analyze(t, `def main() { println(10 / 0); }`)
	if len(msgs) != 0 {
		t.Fatalf("division by zero must type-check; runtime error is a later concern, got: %v", msgs)
	}
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	_, _, msgs := analyze(t, `def main() { break; }`)
	if len(msgs) == 0 {
		t.Fatal("expected a diagnostic for break outside of a loop")
	}
}

func TestMismatchedAssignmentType(t *testing.T) {
	_, _, msgs := analyze(t, `
		def main() {
			store x = 1;
			x = "oops";
		}
	`)
	if len(msgs) == 0 {
		t.Fatal("expected a diagnostic for assigning a string to an int variable")
	}
}

func TestIntWidensToFloatOnAssignment(t *testing.T) {
	_, _, msgs := analyze(t, `
		def main() {
			store x = 1.0;
			x = 2;
		}
	`)
	if len(msgs) != 0 {
		t.Fatalf("int -> float widening on assignment should be allowed, got: %v", msgs)
	}
}

func TestMissingEntryFunction(t *testing.T) {
	_, _, msgs := analyze(t, `def helper() { return 1; }`)
	if len(msgs) == 0 {
		t.Fatal("expected a diagnostic for a missing entry function")
	}
}

func TestAssignMainConflictWithLiteralMain(t *testing.T) {
	_, _, msgs := analyze(t, `
		def main() {}
		def other() {}
		assign_main other;
	`)
	if len(msgs) == 0 {
		t.Fatal("expected a diagnostic for conflicting assign_main and literal main")
	}
}

func TestAssignMainSelectsNamedEntry(t *testing.T) {
	prog, a, msgs := analyze(t, `
		def start() { return 0; }
		assign_main start;
	`)
	if len(msgs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
	if findFunc(prog, "start") == nil {
		t.Fatal("expected 'start' to be declared")
	}
	if got := a.EntryName(); got != "start" {
		t.Errorf("entry = %q, want start", got)
	}
}

func TestUnaryNotAndBangRequireBool(t *testing.T) {
	_, _, msgs := analyze(t, `def main() { store x = !1; }`)
	if len(msgs) == 0 {
		t.Fatal("expected a diagnostic for '!' applied to a non-bool operand")
	}
	_, _, msgs = analyze(t, `def main() { store x = not 1; }`)
	if len(msgs) == 0 {
		t.Fatal("expected a diagnostic for 'not' applied to a non-bool operand")
	}
}

func TestPolymorphicBuiltinJoinsNumericTypes(t *testing.T) {
	_, _, msgs := analyze(t, `
		def main() {
			store x = max(1, 2.5);
			println(x);
		}
	`)
	if len(msgs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
}
