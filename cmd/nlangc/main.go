// Command nlangc is the command-line front end for the compiler: it
// parses a subcommand and flags, reads a source file, and drives
// internal/engine to interpret, translate, or compile it. The
// subcommand-plus-stdlib-flag shape (no third-party CLI framework)
// follows the teacher's cmd/npython and cmd/nforth entry points.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nlangtools/nlangc/internal/engine"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(engine.ExitCompile)
	}

	switch os.Args[1] {
	case "run", "r":
		os.Exit(runCommand(os.Args[2:]))
	case "generate-ir", "ir":
		os.Exit(generateCommand(os.Args[2:], (*engine.Engine).GenerateIR, ".ll"))
	case "generate-c", "c-gen":
		os.Exit(generateCommand(os.Args[2:], (*engine.Engine).GenerateC, ".c"))
	case "compile", "c":
		os.Exit(compileCommand(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(engine.ExitCompile)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: nlangc <run|generate-ir|generate-c|compile> FILE [-o OUTPUT]")
}

func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// defaultOutputPath derives the default output path for a generate-ir or
// generate-c invocation with no -o flag: the input path with its
// extension swapped, per spec.md 6 ("OUT (or FILE with the IR extension)").
func defaultOutputPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

func parseArgs(args []string) (input string, output string, ok bool) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 >= len(args) {
				return "", "", false
			}
			output = args[i+1]
			i++
		default:
			if input != "" {
				return "", "", false
			}
			input = args[i]
		}
	}
	return input, output, input != ""
}

func readSource(path string) ([]byte, int) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", path, err)
		return nil, engine.ExitCompile
	}
	return src, engine.ExitSuccess
}

func runCommand(args []string) int {
	input, _, ok := parseArgs(args)
	if !ok {
		usage()
		return engine.ExitCompile
	}
	src, code := readSource(input)
	if src == nil {
		return code
	}

	e := engine.New(moduleName(input))
	code, err := e.Run(src, os.Stdout, os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return code
}

func generateCommand(args []string, generate func(*engine.Engine, []byte) (string, error), defaultExt string) int {
	input, output, ok := parseArgs(args)
	if !ok {
		usage()
		return engine.ExitCompile
	}
	src, code := readSource(input)
	if src == nil {
		return code
	}

	e := engine.New(moduleName(input))
	text, err := generate(e, src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return engine.ExitCompile
	}

	if output == "" {
		output = defaultOutputPath(input, defaultExt)
	}
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", output, err)
		return engine.ExitCompile
	}
	return engine.ExitSuccess
}

func compileCommand(args []string) int {
	input, output, ok := parseArgs(args)
	if !ok {
		usage()
		return engine.ExitCompile
	}
	src, code := readSource(input)
	if src == nil {
		return code
	}
	if output == "" {
		output = moduleName(input)
	}

	e := engine.New(moduleName(input))
	if err := e.Compile(src, output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return engine.ExitCompile
	}
	return engine.ExitSuccess
}
