// Package engine drives the compiler pipeline end to end: lex, parse,
// analyze, then dispatch to whichever back end a caller asked for. It
// exists so cmd/nlangc stays a thin flag-parsing shell, mirroring the
// original_source ExecutionEngine's role of keeping main.rs free of
// pipeline details.
package engine

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/nlangtools/nlangc/pkg/cemit"
	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/parser"
	"github.com/nlangtools/nlangc/pkg/compiler/sema"
	"github.com/nlangtools/nlangc/pkg/diag"
	"github.com/nlangtools/nlangc/pkg/interp"
	"github.com/nlangtools/nlangc/pkg/irgen"
)

// Exit codes, per spec.md section 6: 0 success, 1 a compile-time
// (lex/parse/semantic) failure, 2 a runtime failure.
const (
	ExitSuccess = 0
	ExitCompile = 1
	ExitRuntime = 2
)

// Engine runs the pipeline described above against a single source file.
type Engine struct {
	ModuleName string
}

// New creates an Engine that will treat moduleName as the compiled
// program's name (used for the IR module header and, when compiling,
// the temporary artifact base name).
func New(moduleName string) *Engine {
	return &Engine{ModuleName: moduleName}
}

// checkedProgram is the shared front-half of every pipeline: it lexes,
// parses, and semantically analyzes source, stopping at the first phase
// that reports errors.
func checkedProgram(source []byte) (*ast.Program, *sema.Analyzer, diag.List) {
	p := parser.New(source)
	prog, diags := p.Parse()
	if diags.HasErrors() {
		return prog, nil, diags
	}

	a := sema.New()
	semaDiags := a.Analyze(prog)
	for _, d := range semaDiags.Items() {
		diags.Add(d)
	}
	return prog, a, diags
}

// Run interprets source directly, writing program output to out and
// reading input requests from in. It returns the process exit code the
// caller should use.
func (e *Engine) Run(source []byte, out io.Writer, in io.Reader) (int, error) {
	prog, a, diags := checkedProgram(source)
	if diags.HasErrors() {
		return ExitCompile, diagError(diags)
	}

	it := interp.New(out, in)
	code, err := it.Run(prog, a.EntryName())
	if err != nil {
		return ExitRuntime, err
	}
	return code, nil
}

// GenerateIR lowers source to textual LLVM-style IR.
func (e *Engine) GenerateIR(source []byte) (string, error) {
	prog, a, diags := checkedProgram(source)
	if diags.HasErrors() {
		return "", diagError(diags)
	}
	return irgen.New(e.ModuleName).Emit(prog, a.EntryName())
}

// GenerateC lowers source to a single C99 translation unit.
func (e *Engine) GenerateC(source []byte) (string, error) {
	prog, a, diags := checkedProgram(source)
	if diags.HasErrors() {
		return "", diagError(diags)
	}
	return cemit.New().Emit(prog, a.EntryName())
}

// Compile lowers source to C and shells out to a host C compiler to
// produce a native executable at outputPath. clang/gcc/cc are tried in
// turn, mirroring original_source's fallback chain of trying several
// host toolchains before giving up.
func (e *Engine) Compile(source []byte, outputPath string) error {
	c, err := e.GenerateC(source)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", e.ModuleName+"-*.c")
	if err != nil {
		return fmt.Errorf("creating temporary C file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(c); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temporary C file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	var attempts []string
	for _, cc := range []string{"clang", "gcc", "cc"} {
		if _, lookErr := exec.LookPath(cc); lookErr != nil {
			continue
		}
		cmd := exec.Command(cc, "-O2", "-o", outputPath, tmp.Name(), "-lm")
		cmd.Stderr = os.Stderr
		if runErr := cmd.Run(); runErr == nil {
			return nil
		}
		attempts = append(attempts, cc)
	}

	if len(attempts) == 0 {
		return fmt.Errorf("no C compiler found on PATH (tried clang, gcc, cc)")
	}
	return fmt.Errorf("all host C compilers failed: %v", attempts)
}

func diagError(diags diag.List) error {
	return fmt.Errorf("%d error(s):\n%s", diags.Len(), formatDiags(diags))
}

func formatDiags(diags diag.List) string {
	s := ""
	for _, d := range diags.Items() {
		s += d.String() + "\n"
	}
	return s
}
