// Package value defines the interpreter's runtime tagged union
// (spec.md section 3: Int, Float, Bool, String, Null, Function). The
// shape (a Type tag plus payload fields) is grounded on the teacher's pkg/core/value.Value,
// but drops its packed-arena string encoding (offset/length into a byte
// arena via unsafe.String) since nothing here needs that zero-alloc
// sandboxing; strings are ordinary Go strings, shared by reference and
// treated as immutable per spec.md's data model.
package value

import (
	"fmt"
	"math"
	"strconv"

	"github.com/nlangtools/nlangc/pkg/compiler/ast"
)

// Type tags a Value.
type Type uint8

const (
	Null Type = iota
	Int
	Float
	Bool
	String
	Function
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Function:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the interpreter's runtime values.
// Exactly one payload field is meaningful, selected by Type.
type Value struct {
	Type Type
	I    int64
	F    float64
	B    bool
	S    string
	Fn   *ast.FuncDecl
}

func NewInt(i int64) Value      { return Value{Type: Int, I: i} }
func NewFloat(f float64) Value  { return Value{Type: Float, F: f} }
func NewBool(b bool) Value      { return Value{Type: Bool, B: b} }
func NewString(s string) Value  { return Value{Type: String, S: s} }
func NewFunction(fd *ast.FuncDecl) Value { return Value{Type: Function, Fn: fd} }

var Nil = Value{Type: Null}

// Truthy implements bool(x): non-zero number, non-empty string, and any
// function value are true; null and false are false.
func (v Value) Truthy() bool {
	switch v.Type {
	case Bool:
		return v.B
	case Int:
		return v.I != 0
	case Float:
		return v.F != 0
	case String:
		return v.S != ""
	case Null:
		return false
	default:
		return true
	}
}

// String renders the canonical textual form used by print/println/str,
// following the teacher's Value.Format in spirit (one switch over Type)
// though the formatting rules themselves come from spec.md's built-ins.
//
// Float uses the same rule as the compiled back-ends: C's printf/snprintf
// "%g" defaults to 6 significant digits and drops a trailing ".0" on
// whole values, and pkg/cemit and pkg/irgen both format floats with a
// bare "%g". "%.6g" reproduces that precision in Go (Go's own default
// "%g" precision is shortest-round-trip, not 6 digits, and would diverge
// from the compiled output on values like 1.0/3.0), keeping run and
// generate-c/compile byte-identical per spec.md section 8.
func (v Value) String() string {
	switch v.Type {
	case Int:
		return strconv.FormatInt(v.I, 10)
	case Float:
		if math.IsInf(v.F, 0) || math.IsNaN(v.F) {
			return strconv.FormatFloat(v.F, 'g', -1, 64)
		}
		return fmt.Sprintf("%.6g", v.F)
	case Bool:
		if v.B {
			return "true"
		}
		return "false"
	case String:
		return v.S
	case Null:
		return "null"
	case Function:
		if v.Fn != nil {
			return fmt.Sprintf("<function %s>", v.Fn.Name)
		}
		return "<function>"
	default:
		return "<unknown>"
	}
}
