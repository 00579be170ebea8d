package ast_test

import (
	"testing"

	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/token"
	"github.com/nlangtools/nlangc/pkg/compiler/types"
)

func tok(k token.Kind, lexeme string) token.Token {
	return token.Token{Kind: k, Lexeme: lexeme, Line: 1, Column: 1}
}

func TestExprTypeDefaultsUnknown(t *testing.T) {
	lit := ast.NewIntLit(tok(token.Int, "5"), 5)
	if lit.Type().Kind != types.Unknown {
		t.Errorf("expected a freshly built literal to have Unknown type, got %v", lit.Type())
	}
}

func TestSetTypeRoundTrips(t *testing.T) {
	id := ast.NewIdentifier(tok(token.Identifier, "x"), "x")
	id.SetType(types.TInt)
	if id.Type().Kind != types.Int {
		t.Errorf("expected SetType to be visible through Type(), got %v", id.Type())
	}
}

func TestPosReturnsDeclaringToken(t *testing.T) {
	position := tok(token.Return, "return")
	ret := &ast.Return{Token: position}
	if ret.Pos() != position {
		t.Errorf("expected Pos() to return the node's token")
	}
}

func TestBinaryOpHoldsOperandsAndOperator(t *testing.T) {
	left := ast.NewIntLit(tok(token.Int, "1"), 1)
	right := ast.NewIntLit(tok(token.Int, "2"), 2)
	bin := ast.NewBinaryOp(tok(token.Plus, "+"), token.Plus, left, right)
	if bin.Op != token.Plus || bin.Left != left || bin.Right != right {
		t.Errorf("expected BinaryOp to retain its operator and operands unchanged")
	}
}

func TestFuncDeclResolvedTypeIsMutableInPlace(t *testing.T) {
	fd := &ast.FuncDecl{
		Token:  tok(token.Def, "def"),
		Name:   "f",
		Params: []ast.Param{{Name: "n"}},
	}
	fd.ResolvedType = types.Func([]types.Type{types.TUnknown}, types.TUnknown)

	// Mutating the slice element in place must be visible through the
	// same backing array the symbol table shares with fd.ResolvedType,
	// matching the call-driven inference scheme's core assumption.
	fd.ResolvedType.Params[0] = types.TInt
	if fd.ResolvedType.Params[0].Kind != types.Int {
		t.Fatalf("expected param mutation to stick")
	}

	*fd.ResolvedType.Return = types.TInt
	if fd.ResolvedType.Return.Kind != types.Int {
		t.Errorf("expected return-type mutation through the shared pointer to stick")
	}
}

func TestProgramHoldsTopLevelDeclarationsInOrder(t *testing.T) {
	a := &ast.FuncDecl{Token: tok(token.Def, "def"), Name: "a"}
	b := &ast.FuncDecl{Token: tok(token.Def, "def"), Name: "b"}
	prog := &ast.Program{Declarations: []ast.Statement{a, b}}
	if len(prog.Declarations) != 2 || prog.Declarations[0] != a || prog.Declarations[1] != b {
		t.Errorf("expected declarations to preserve source order")
	}
}
