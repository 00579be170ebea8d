// Package builtins holds the fixed catalogue of intrinsic functions
// described by spec.md section 4.7: name, parameter schema, return type,
// and one dispatch tag per back-end. The table shape follows the
// teacher's pkg/stdlib registry (a package-level map populated by
// init-time literals, read-only for the life of the process) though the
// entries themselves are rewritten for this language's built-ins.
package builtins

import "github.com/nlangtools/nlangc/pkg/compiler/types"

// Tag is the opaque per-back-end dispatch token a Descriptor carries.
type Tag string

// Descriptor describes one built-in function.
type Descriptor struct {
	Name string

	// Polymorphic is true for numeric built-ins (max, min, abs, pow) whose
	// parameter and return types are decided per call site by joining the
	// argument types, rather than fixed in the schema.
	Polymorphic bool
	// Arity is the argument count for a Polymorphic descriptor.
	Arity int

	// Params is the fixed parameter type schema; ignored when Polymorphic.
	Params []types.Type
	// AnyArg marks a built-in that accepts exactly one argument of any
	// primitive type (str, bool) rather than a fixed schema.
	AnyArg bool

	Return types.Type

	InterpTag Tag
	IRTag     Tag
	CTag      Tag
}

// Registry is the process-wide read-only table, keyed by source name.
var Registry = map[string]Descriptor{
	"print": {
		Name: "print", AnyArg: true, Return: types.TNull,
		InterpTag: "print", IRTag: "print", CTag: "print",
	},
	"println": {
		Name: "println", AnyArg: true, Return: types.TNull,
		InterpTag: "println", IRTag: "println", CTag: "println",
	},
	"input": {
		Name: "input", Params: []types.Type{}, Return: types.TString,
		InterpTag: "input", IRTag: "input", CTag: "input",
	},
	"len": {
		Name: "len", Params: []types.Type{types.TString}, Return: types.TInt,
		InterpTag: "len", IRTag: "len", CTag: "len",
	},
	"str": {
		Name: "str", AnyArg: true, Return: types.TString,
		InterpTag: "str", IRTag: "str", CTag: "str",
	},
	"int": {
		Name: "int", Params: []types.Type{types.TString}, Return: types.TInt,
		InterpTag: "int", IRTag: "int", CTag: "int",
	},
	"float": {
		Name: "float", Params: []types.Type{types.TString}, Return: types.TFloat,
		InterpTag: "float", IRTag: "float", CTag: "float",
	},
	"bool": {
		Name: "bool", AnyArg: true, Return: types.TBool,
		InterpTag: "bool", IRTag: "bool", CTag: "bool",
	},
	"abs": {
		Name: "abs", Polymorphic: true, Arity: 1,
		InterpTag: "abs", IRTag: "abs", CTag: "abs",
	},
	"max": {
		Name: "max", Polymorphic: true, Arity: 2,
		InterpTag: "max", IRTag: "max", CTag: "max",
	},
	"min": {
		Name: "min", Polymorphic: true, Arity: 2,
		InterpTag: "min", IRTag: "min", CTag: "min",
	},
	"pow": {
		Name: "pow", Polymorphic: true, Arity: 2,
		InterpTag: "pow", IRTag: "pow", CTag: "pow",
	},
}

// Lookup returns the descriptor for name and whether it exists.
func Lookup(name string) (Descriptor, bool) {
	d, ok := Registry[name]
	return d, ok
}

// ExpectedArity reports the number of arguments a Descriptor expects.
func (d Descriptor) ExpectedArity() (int, bool) {
	if d.AnyArg {
		return 1, true
	}
	if d.Polymorphic {
		return d.Arity, true
	}
	return len(d.Params), true
}
