package cemit_test

import (
	"strings"
	"testing"

	"github.com/nlangtools/nlangc/pkg/cemit"
	"github.com/nlangtools/nlangc/pkg/compiler/parser"
	"github.com/nlangtools/nlangc/pkg/compiler/sema"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	p := parser.New([]byte(src))
	prog, pdiags := p.Parse()
	if pdiags.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", pdiags.Items())
	}
	a := sema.New()
	if diags := a.Analyze(prog); diags.HasErrors() {
		t.Fatalf("unexpected semantic errors: %v", diags.Items())
	}
	out, err := cemit.New().Emit(prog, a.EntryName())
	if err != nil {
		t.Fatalf("unexpected emit error: %v", err)
	}
	return out
}

func TestEmitHelloWorldUsesPrintf(t *testing.T) {
	c := compile(t, `def main() { println("Hello, World!"); return 0; }`)
	if !strings.Contains(c, `printf("%s\n"`) {
		t.Errorf("expected a printf call with newline format, got:\n%s", c)
	}
	if !strings.Contains(c, "Hello, World!") {
		t.Errorf("expected the string literal to be interned, got:\n%s", c)
	}
}

func TestEmitEntryBecomesMain(t *testing.T) {
	c := compile(t, `def start() { return 0; } assign_main start;`)
	if !strings.Contains(c, "int main(void)") {
		t.Errorf("expected a generated int main(void), got:\n%s", c)
	}
	if !strings.Contains(c, "return (int)start();") {
		t.Errorf("expected main to call start(), got:\n%s", c)
	}
}

func TestEmitLiteralMainAlwaysGetsAnIntWrapper(t *testing.T) {
	// A source function literally named "main" may resolve to any return
	// type; C requires main to return int, so it must be emitted under a
	// different C symbol with a conforming int main(void) always wrapping
	// it, never as `long long main(void)` or `void main(void)`.
	c := compile(t, `def main() { return 0; }`)
	if strings.Count(c, "int main(void)") != 1 {
		t.Errorf("expected exactly one int main(void), got:\n%s", c)
	}
	if !strings.Contains(c, "nlang_main(void)") {
		t.Errorf("expected the source-level main to be renamed to nlang_main, got:\n%s", c)
	}
	if !strings.Contains(c, "return (int)nlang_main();") {
		t.Errorf("expected the wrapper to call nlang_main and cast to int, got:\n%s", c)
	}
}

func TestEmitIntDivisionUsesCheckedHelper(t *testing.T) {
	c := compile(t, `def main() { store x = 10 / 2; return x; }`)
	if !strings.Contains(c, "nlang_checked_div(10LL, 2LL)") {
		t.Errorf("expected integer division to route through nlang_checked_div, got:\n%s", c)
	}
}

func TestEmitFloatDivisionIsNative(t *testing.T) {
	c := compile(t, `def main() { store x = 10.0 / 2.0; return 0; }`)
	// The prologue always defines nlang_checked_div; no call may follow it.
	if strings.Count(c, "nlang_checked_div(") != 1 {
		t.Errorf("float division must not use the integer checked-div helper, got:\n%s", c)
	}
	if !strings.Contains(c, "(10.0 / 2.0)") {
		t.Errorf("expected a native C division operator, got:\n%s", c)
	}
}

func TestEmitStringConcatUsesHelper(t *testing.T) {
	c := compile(t, `def main() { store x = "a" + "b"; println(x); }`)
	if !strings.Contains(c, "nlang_concat(nlang_str_0, nlang_str_1)") {
		t.Errorf("expected string concatenation to call nlang_concat, got:\n%s", c)
	}
}

func TestEmitStringEqualityUsesStrcmp(t *testing.T) {
	c := compile(t, `def main() { store x = "a" == "b"; return 0; }`)
	if !strings.Contains(c, "strcmp(") {
		t.Errorf("expected string equality to lower to strcmp, got:\n%s", c)
	}
}

func TestEmitWhileLoopEmbedsCondition(t *testing.T) {
	c := compile(t, `
		def main() {
			store i = 0;
			while (i < 3) {
				i = i + 1;
			}
		}
	`)
	if !strings.Contains(c, "while (") {
		t.Errorf("expected a native while loop, got:\n%s", c)
	}
}

func TestEmitFunctionCallLowersDirectly(t *testing.T) {
	c := compile(t, `
		def add(a, b) { return a + b; }
		def main() { println(add(1, 2)); }
	`)
	if !strings.Contains(c, "add(1LL, 2LL)") {
		t.Errorf("expected a direct call to add(), got:\n%s", c)
	}
}

func TestEmitMaxMinRouteThroughHelpersNotATernary(t *testing.T) {
	// A ternary would paste each operand's C text into both branches,
	// evaluating whichever wins twice; an argument with a side effect
	// would then fire twice under generate-c but once under run.
	c := compile(t, `def main() { store x = max(1, 2); store y = min(1.0, 2.0); return 0; }`)
	if !strings.Contains(c, "nlang_max_ll(1LL, 2LL)") {
		t.Errorf("expected integer max to call nlang_max_ll, got:\n%s", c)
	}
	if !strings.Contains(c, "nlang_min_d(1.0, 2.0)") {
		t.Errorf("expected float min to call nlang_min_d, got:\n%s", c)
	}
}

func TestEmitDropsUncalledFunctionsWithUnknownTypes(t *testing.T) {
	c := compile(t, `
		def helper(a, b) { return a + b; }
		def main() { return 0; }
	`)
	if strings.Contains(c, "helper(") {
		t.Errorf("expected uncalled helper() to be dropped, got:\n%s", c)
	}
}

func TestEmitStrBuiltinHandlesBool(t *testing.T) {
	c := compile(t, `def main() { store x = str(true); return 0; }`)
	if !strings.Contains(c, "nlang_bool_to_str(1)") {
		t.Errorf("expected str(bool) to call nlang_bool_to_str, got:\n%s", c)
	}
}

func TestEmitForwardDeclaresBeforeMain(t *testing.T) {
	c := compile(t, `
		def helper() { return 1; }
		def main() { return helper(); }
	`)
	declIdx := strings.Index(c, "long long helper(void);")
	mainIdx := strings.Index(c, "int main(void)")
	if declIdx == -1 || mainIdx == -1 || declIdx > mainIdx {
		t.Errorf("expected helper() forward-declared before main, got:\n%s", c)
	}
}
