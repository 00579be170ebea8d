// Package types implements the small type sum from spec.md section 3:
// Int, Float, Bool, String, Null, Function, and the internal Unknown used
// only during inference.
package types

import "strings"

// Kind tags the sum. Mirrors the tagged-union style of
// pkg/core/value.Type in the teacher, applied to static types instead of
// runtime values.
type Kind uint8

const (
	Unknown Kind = iota
	Int
	Float
	Bool
	String
	Null
	Function
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Null:
		return "null"
	case Function:
		return "function"
	default:
		return "invalid"
	}
}

// Type is the value of a resolved (or, transiently, unresolved) static
// type. Params/Return are populated only when Kind == Function.
type Type struct {
	Kind   Kind
	Params []Type
	Return *Type
}

var (
	TInt     = Type{Kind: Int}
	TFloat   = Type{Kind: Float}
	TBool    = Type{Kind: Bool}
	TString  = Type{Kind: String}
	TNull    = Type{Kind: Null}
	TUnknown = Type{Kind: Unknown}
)

// Func builds a Function type.
func Func(params []Type, ret Type) Type {
	r := ret
	return Type{Kind: Function, Params: params, Return: &r}
}

// IsNumeric reports whether t is Int or Float.
func (t Type) IsNumeric() bool { return t.Kind == Int || t.Kind == Float }

// Equal reports structural equality, per spec.md's "two types are equal
// iff structurally equal".
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind != Function {
		return true
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !Equal(a.Params[i], b.Params[i]) {
			return false
		}
	}
	if (a.Return == nil) != (b.Return == nil) {
		return false
	}
	if a.Return == nil {
		return true
	}
	return Equal(*a.Return, *b.Return)
}

// Widens reports whether a value of type from may be implicitly used
// where a value of type to is expected: only Int -> Float, per spec.md's
// "Implicit widening: Int -> Float in mixed arithmetic; no other implicit
// conversion."
func Widens(from, to Type) bool {
	if Equal(from, to) {
		return true
	}
	return from.Kind == Int && to.Kind == Float
}

// Join returns the common numeric type of a and b (Float if either
// operand is Float, else Int), and false if neither is numeric or they
// disagree on a non-numeric kind.
func Join(a, b Type) (Type, bool) {
	if a.Kind == Float || b.Kind == Float {
		if a.IsNumeric() && b.IsNumeric() {
			return TFloat, true
		}
		return Type{}, false
	}
	if a.Kind == Int && b.Kind == Int {
		return TInt, true
	}
	return Type{}, false
}

func (t Type) String() string {
	if t.Kind != Function {
		return t.Kind.String()
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	ret := "unknown"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return "def(" + strings.Join(parts, ", ") + ") " + ret
}
