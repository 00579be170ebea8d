package interp

import (
	"math"
	"strconv"

	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/core/value"
)

func parseIntBuiltin(call *ast.Call, v value.Value) (value.Value, error) {
	i, err := strconv.ParseInt(v.S, 10, 64)
	if err != nil {
		return value.Value{}, runtimeError(call.Pos(), "int(): invalid conversion from %q", v.S)
	}
	return value.NewInt(i), nil
}

func parseFloatBuiltin(call *ast.Call, v value.Value) (value.Value, error) {
	f, err := strconv.ParseFloat(v.S, 64)
	if err != nil {
		return value.Value{}, runtimeError(call.Pos(), "float(): invalid conversion from %q", v.S)
	}
	return value.NewFloat(f), nil
}

func absBuiltin(v value.Value) value.Value {
	if v.Type == value.Float {
		return value.NewFloat(math.Abs(v.F))
	}
	if v.I < 0 {
		return value.NewInt(-v.I)
	}
	return v
}

func minMaxBuiltin(a, b value.Value, wantMax bool) value.Value {
	af, bf := floatOf(a), floatOf(b)
	pickA := af > bf
	if !wantMax {
		pickA = af < bf
	}
	if a.Type != value.Float && b.Type != value.Float {
		if pickA {
			return a
		}
		return b
	}
	if pickA {
		return value.NewFloat(af)
	}
	return value.NewFloat(bf)
}

// powBuiltin follows spec.md 4.4: Int**Int uses repeated multiplication
// (no widening to float), anything involving a Float uses math.Pow.
func powBuiltin(base, exp value.Value) value.Value {
	if base.Type == value.Int && exp.Type == value.Int {
		result := int64(1)
		b := base.I
		for i := int64(0); i < exp.I; i++ {
			result *= b
		}
		return value.NewInt(result)
	}
	return value.NewFloat(math.Pow(floatOf(base), floatOf(exp)))
}
