package interp

import "github.com/nlangtools/nlangc/pkg/core/value"

// Environment is the interpreter's activation record: a flat map of
// bindings with an optional parent for global lookup. Functions do not
// close over outer locals (spec.md section 3), so the only environments
// that ever exist are the global environment and, during a call, a
// single fresh local environment chained to it — never a deeper nesting
// of function scopes, though a function's own nested blocks (if/while)
// still get their own Environment for correct shadowing of locals
// declared inside them.
type Environment struct {
	parent *Environment
	vars   map[string]value.Value
}

func newEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, vars: make(map[string]value.Value)}
}

// Define binds name in this environment, shadowing any outer binding.
func (e *Environment) Define(name string, v value.Value) {
	e.vars[name] = v
}

// Get resolves name, searching outward through parents.
func (e *Environment) Get(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// Assign updates the nearest existing binding of name. It returns false
// if name is not bound anywhere in the chain (the semantic analyzer is
// expected to have already rejected that case).
func (e *Environment) Assign(name string, v value.Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return true
		}
	}
	return false
}
