package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nlangtools/nlangc/pkg/compiler/parser"
	"github.com/nlangtools/nlangc/pkg/compiler/sema"
	"github.com/nlangtools/nlangc/pkg/interp"
)

func run(t *testing.T, src, stdin string) (string, int, error) {
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
	var out bytes.Buffer
	it := interp.New(&out, strings.NewReader(stdin))
	code, err := it.Run(prog, "main")
	return out.String(), code, err
}

func TestHelloWorld(t *testing.T) {
	out, code, err := run(t, `def main(){ println("Hello, World!"); return 0; }`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hello, World!\n" {
		t.Errorf("stdout = %q", out)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestFactorial(t *testing.T) {
	out, _, err := run(t, `
		def factorial(n) {
			if (n <= 1) { return 1; }
			return n * factorial(n - 1);
		}
		def main() { println(factorial(5)); }
	`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "120\n" {
		t.Errorf("stdout = %q, want 120\\n", out)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	out, _, err := run(t, `def main() { println((12 * 8) + (5 / 2)); }`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "98\n" {
		t.Errorf("stdout = %q, want 98\\n", out)
	}
}

func TestWhileBreakContinue(t *testing.T) {
	out, _, err := run(t, `
		def main() {
			store i = 0;
			while (true) {
				i = i + 1;
				if (i == 3) { continue; }
				if (i == 7) { break; }
				println(i);
			}
		}
	`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1\n2\n4\n5\n6\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, code, err := run(t, `def main() { println(10 / 0); }`, "")
	if err == nil {
		t.Fatal("expected a runtime error for division by zero")
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestFloatDivisionByZeroIsInfinity(t *testing.T) {
	out, _, err := run(t, `def main() { println(1.0 / 0.0); }`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "+Inf\n" {
		t.Errorf("stdout = %q, want +Inf", out)
	}
}

func TestStringConcatenation(t *testing.T) {
	out, _, err := run(t, `def main() { println("foo" + "bar"); }`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "foobar\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestBuiltinsAbsMaxMinPow(t *testing.T) {
	out, _, err := run(t, `
		def main() {
			println(abs(-5));
			println(max(3, 7));
			println(min(3, 7));
			println(pow(2, 10));
		}
	`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "5\n7\n3\n1024\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInputReadsOneLine(t *testing.T) {
	out, _, err := run(t, `def main() { store name = input(); println("hi " + name); }`, "world\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hi world\n" {
		t.Errorf("stdout = %q", out)
	}
}
