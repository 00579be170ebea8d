package interp

import (
	"github.com/nlangtools/nlangc/pkg/compiler/token"
	"github.com/nlangtools/nlangc/pkg/diag"
)

// runtimeError builds a Runtime-phase diagnostic. The interpreter raises
// it for division/modulo by zero, invalid int()/float() conversion, an
// undefined identifier, and a call with no built-in or function dispatch.
// Recursion depth is not checked: unbounded recursion exhausts the Go
// stack rather than producing a runtimeError.
func runtimeError(tok token.Token, format string, args ...any) error {
	return diag.New(diag.Runtime, diag.Position{Line: tok.Line, Column: tok.Column}, format, args...)
}
