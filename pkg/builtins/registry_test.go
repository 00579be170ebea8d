package builtins_test

import (
	"testing"

	"github.com/nlangtools/nlangc/pkg/builtins"
)

func TestLookupKnownNames(t *testing.T) {
	names := []string{"print", "println", "input", "len", "str", "int", "float", "bool", "abs", "max", "min", "pow"}
	for _, n := range names {
		if _, ok := builtins.Lookup(n); !ok {
			t.Errorf("expected builtin %q to be registered", n)
		}
	}
}

func TestLookupUnknownName(t *testing.T) {
	if _, ok := builtins.Lookup("does_not_exist"); ok {
		t.Error("expected unknown name to not resolve")
	}
}

func TestPolymorphicArity(t *testing.T) {
	abs, _ := builtins.Lookup("abs")
	if n, _ := abs.ExpectedArity(); n != 1 {
		t.Errorf("abs arity = %d, want 1", n)
	}
	maxFn, _ := builtins.Lookup("max")
	if n, _ := maxFn.ExpectedArity(); n != 2 {
		t.Errorf("max arity = %d, want 2", n)
	}
}

func TestFixedSchemaArity(t *testing.T) {
	lenFn, _ := builtins.Lookup("len")
	if n, _ := lenFn.ExpectedArity(); n != 1 {
		t.Errorf("len arity = %d, want 1", n)
	}
	inputFn, _ := builtins.Lookup("input")
	if n, _ := inputFn.ExpectedArity(); n != 0 {
		t.Errorf("input arity = %d, want 0", n)
	}
}
