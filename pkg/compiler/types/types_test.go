package types_test

import (
	"testing"

	"github.com/nlangtools/nlangc/pkg/compiler/types"
)

func TestIsNumeric(t *testing.T) {
	cases := []struct {
		t    types.Type
		want bool
	}{
		{types.TInt, true},
		{types.TFloat, true},
		{types.TBool, false},
		{types.TString, false},
		{types.TNull, false},
	}
	for _, c := range cases {
		if got := c.t.IsNumeric(); got != c.want {
			t.Errorf("IsNumeric(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestEqualPrimitives(t *testing.T) {
	if !types.Equal(types.TInt, types.TInt) {
		t.Errorf("expected Int equal to Int")
	}
	if types.Equal(types.TInt, types.TFloat) {
		t.Errorf("expected Int not equal to Float (no implicit equality across widening)")
	}
}

func TestEqualFunctionsStructural(t *testing.T) {
	a := types.Func([]types.Type{types.TInt, types.TString}, types.TBool)
	b := types.Func([]types.Type{types.TInt, types.TString}, types.TBool)
	c := types.Func([]types.Type{types.TInt, types.TFloat}, types.TBool)
	if !types.Equal(a, b) {
		t.Errorf("expected structurally identical function types to be equal")
	}
	if types.Equal(a, c) {
		t.Errorf("expected function types with different param types to be unequal")
	}
}

func TestWidensIntToFloatOnly(t *testing.T) {
	if !types.Widens(types.TInt, types.TFloat) {
		t.Errorf("expected Int to widen to Float")
	}
	if types.Widens(types.TFloat, types.TInt) {
		t.Errorf("did not expect Float to widen to Int")
	}
	if types.Widens(types.TString, types.TInt) {
		t.Errorf("did not expect String to widen to Int")
	}
	if !types.Widens(types.TBool, types.TBool) {
		t.Errorf("expected a type to trivially widen to itself")
	}
}

func TestJoinNumeric(t *testing.T) {
	if j, ok := types.Join(types.TInt, types.TInt); !ok || j.Kind != types.Int {
		t.Errorf("expected Join(Int, Int) = Int, got %v, %v", j, ok)
	}
	if j, ok := types.Join(types.TInt, types.TFloat); !ok || j.Kind != types.Float {
		t.Errorf("expected Join(Int, Float) = Float, got %v, %v", j, ok)
	}
	if j, ok := types.Join(types.TFloat, types.TFloat); !ok || j.Kind != types.Float {
		t.Errorf("expected Join(Float, Float) = Float, got %v, %v", j, ok)
	}
	if _, ok := types.Join(types.TString, types.TInt); ok {
		t.Errorf("expected Join(String, Int) to fail")
	}
	if _, ok := types.Join(types.TBool, types.TBool); ok {
		t.Errorf("expected Join(Bool, Bool) to fail: booleans are not numeric")
	}
}

func TestStringRendersFunctionSignature(t *testing.T) {
	fn := types.Func([]types.Type{types.TInt, types.TFloat}, types.TBool)
	want := "def(int, float) bool"
	if got := fn.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStringUnresolvedReturnRendersUnknown(t *testing.T) {
	fn := types.Type{Kind: types.Function, Params: nil, Return: nil}
	if got := fn.String(); got != "def() unknown" {
		t.Errorf("String() = %q, want %q", got, "def() unknown")
	}
}
