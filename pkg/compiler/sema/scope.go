package sema

import "github.com/nlangtools/nlangc/pkg/compiler/types"

// SymbolKind classifies an entry in a Scope.
type SymbolKind uint8

const (
	KindVariable SymbolKind = iota
	KindParameter
	KindFunction
	KindBuiltIn
)

// Symbol is one entry in the symbol table: its name, kind and type. The
// declaration site is not recorded.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type types.Type
}

// Scope is one lexical region of the symbol-table stack described in
// spec.md section 3. The global scope is seeded with built-ins; a nested
// scope shadows identical outer names and is discarded on exit.
type Scope struct {
	parent  *Scope
	symbols map[string]Symbol
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string]Symbol)}
}

// Declare adds name to this scope, returning false if it is already
// declared in THIS scope (re-declaration in the same scope is an error;
// shadowing an outer scope is fine).
func (s *Scope) Declare(sym Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// Resolve looks up name in this scope and its ancestors.
func (s *Scope) Resolve(name string) (Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}
