package interp

import "github.com/nlangtools/nlangc/pkg/core/value"

// signal is spec.md section 4.4's four-valued control-flow result:
// Normal, Returning, Breaking, Continuing. Modelling it explicitly
// (rather than reaching for panic/recover as a host-level non-local
// exit) keeps break/continue/return a property of the evaluator, per
// the design note in spec.md section 9.
type signal uint8

const (
	sigNormal signal = iota
	sigReturning
	sigBreaking
	sigContinuing
)

// flow is the result of executing a statement or block: a signal plus,
// for sigReturning, the value being returned.
type flow struct {
	sig   signal
	value value.Value
}

var normal = flow{sig: sigNormal}
var breaking = flow{sig: sigBreaking}
var continuing = flow{sig: sigContinuing}

func returning(v value.Value) flow { return flow{sig: sigReturning, value: v} }
