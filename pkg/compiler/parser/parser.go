// Package parser implements spec.md section 4.2: a recursive-descent
// parser with Pratt-style precedence climbing for expressions. The
// Parser struct (scanner + two-token lookahead) follows the teacher's
// pkg/compiler/parser.Parser shape; the grammar itself is rewritten for
// nlang's brace/semicolon surface syntax instead of the teacher's
// stack-effect Forth dialect.
package parser

import (
	"github.com/nlangtools/nlangc/pkg/compiler/ast"
	"github.com/nlangtools/nlangc/pkg/compiler/lexer"
	"github.com/nlangtools/nlangc/pkg/compiler/token"
	"github.com/nlangtools/nlangc/pkg/diag"
)

// Parser turns a token stream into an ast.Program, accumulating
// diagnostics rather than stopping at the first syntax error (spec.md
// 4.2's error-recovery contract).
type Parser struct {
	scanner *lexer.Scanner
	cur     token.Token
	next    token.Token
	diags   diag.List
	fatal   bool // a lex error was hit; parsing cannot continue at all
}

// New creates a Parser over src.
func New(src []byte) *Parser {
	p := &Parser{scanner: lexer.NewScanner(src)}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.next
	tok, err := p.scanner.Next()
	if err != nil {
		if d, ok := err.(diag.Diagnostic); ok {
			p.diags.Add(d)
		} else {
			p.diags.Addf(diag.Lex, diag.Position{}, "%v", err)
		}
		p.fatal = true
		p.next = token.Token{Kind: token.EOF}
		return
	}
	p.next = tok
}

func (p *Parser) pos() diag.Position { return diag.Position{Line: p.cur.Line, Column: p.cur.Column} }

func (p *Parser) errorf(format string, args ...any) {
	p.diags.Addf(diag.Parse, p.pos(), format, args...)
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

// expect consumes the current token if it has kind k, else records a
// diagnostic and does not advance (so callers can decide how to recover).
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.cur.Kind != k {
		p.errorf("expected %s, found %s %q", k, p.cur.Kind, p.cur.Lexeme)
		return token.Token{}, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

// synchronize implements spec.md 4.2's recovery: advance to the next ';'
// (consuming it) or '}' (not consumed) at the current nesting depth, or
// EOF.
func (p *Parser) synchronize() {
	depth := 0
	for {
		switch p.cur.Kind {
		case token.EOF:
			return
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// Parse parses the whole program. It always returns whatever AST it
// managed to build alongside the accumulated diagnostics; per spec.md
// 4.2, a run with any parse error yields no usable AST to later stages,
// so callers must check Diagnostics().HasErrors() before proceeding.
func (p *Parser) Parse() (*ast.Program, diag.List) {
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		if p.fatal {
			break
		}
		before := p.cur
		stmt := p.parseTopLevel()
		if stmt != nil {
			prog.Declarations = append(prog.Declarations, stmt)
		}
		if p.cur == before && !p.at(token.EOF) {
			// Parser made no progress; force it forward to avoid looping.
			p.errorf("unexpected token %s %q", p.cur.Kind, p.cur.Lexeme)
			p.synchronize()
		}
	}
	return prog, p.diags
}

func (p *Parser) Diagnostics() diag.List { return p.diags }

func (p *Parser) parseTopLevel() ast.Statement {
	exported := false
	if p.at(token.Export) {
		exported = true
		p.advance()
	}
	stmt := p.parseStatement()
	if fd, ok := stmt.(*ast.FuncDecl); ok {
		fd.Exported = exported
	} else if exported {
		p.errorf("'export' may only precede a function definition")
	}
	return stmt
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.Store:
		return p.parseVarDecl()
	case token.Return:
		return p.parseReturn()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.Break:
		tok := p.cur
		p.advance()
		p.consumeSemicolon()
		return &ast.Break{Token: tok}
	case token.Continue:
		tok := p.cur
		p.advance()
		p.consumeSemicolon()
		return &ast.Continue{Token: tok}
	case token.Def:
		return p.parseFuncDecl()
	case token.Import:
		return p.parseImport()
	case token.From:
		return p.parseFromImport()
	case token.AssignMain:
		return p.parseAssignMain()
	case token.Identifier:
		return p.parseIdentifierStatement()
	default:
		p.errorf("unexpected token %s %q at start of statement", p.cur.Kind, p.cur.Lexeme)
		p.synchronize()
		return nil
	}
}

func (p *Parser) consumeSemicolon() {
	p.expect(token.Semicolon)
}

func (p *Parser) parseVarDecl() ast.Statement {
	tok := p.cur
	p.advance() // 'store'
	name, ok := p.expect(token.Identifier)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.Assign); !ok {
		p.synchronize()
		return nil
	}
	value := p.parseExpr()
	p.consumeSemicolon()
	return &ast.VarDecl{Token: tok, Name: name.Lexeme, Value: value}
}

// parseIdentifierStatement disambiguates "NAME = EXPR;" (assignment) from
// a bare expression statement starting with an identifier (a call).
func (p *Parser) parseIdentifierStatement() ast.Statement {
	tok := p.cur
	if p.next.Kind == token.Assign {
		name := p.cur.Lexeme
		p.advance() // identifier
		p.advance() // '='
		value := p.parseExpr()
		p.consumeSemicolon()
		return &ast.Assign{Token: tok, Name: name, Value: value}
	}
	expr := p.parseExpr()
	p.consumeSemicolon()
	return &ast.ExprStmt{Token: tok, X: expr}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.cur
	p.advance() // 'return'
	var value ast.Expr
	if !p.at(token.Semicolon) {
		value = p.parseExpr()
	}
	p.consumeSemicolon()
	return &ast.Return{Token: tok, Value: value}
}

func (p *Parser) parseBlock() []ast.Statement {
	if _, ok := p.expect(token.LBrace); !ok {
		return nil
	}
	var stmts []ast.Statement
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.cur
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
		if p.cur == before && !p.at(token.RBrace) && !p.at(token.EOF) {
			p.errorf("unexpected token %s %q in block", p.cur.Kind, p.cur.Lexeme)
			p.synchronize()
		}
	}
	p.expect(token.RBrace)
	return stmts
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.cur
	p.advance() // 'if'
	if _, ok := p.expect(token.LParen); !ok {
		p.synchronize()
		return nil
	}
	cond := p.parseExpr()
	p.expect(token.RParen)
	then := p.parseBlock()
	var els []ast.Statement
	if p.at(token.Else) {
		p.advance()
		els = p.parseBlock()
	}
	return &ast.If{Token: tok, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.cur
	p.advance() // 'while'
	if _, ok := p.expect(token.LParen); !ok {
		p.synchronize()
		return nil
	}
	cond := p.parseExpr()
	p.expect(token.RParen)
	body := p.parseBlock()
	return &ast.While{Token: tok, Cond: cond, Body: body}
}

func (p *Parser) parseFuncDecl() ast.Statement {
	tok := p.cur
	p.advance() // 'def'
	name, ok := p.expect(token.Identifier)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.LParen); !ok {
		p.synchronize()
		return nil
	}
	var params []ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		pname, ok := p.expect(token.Identifier)
		if !ok {
			break
		}
		params = append(params, ast.Param{Name: pname.Lexeme, Token: pname})
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RParen)
	body := p.parseBlock()
	return &ast.FuncDecl{Token: tok, Name: name.Lexeme, Params: params, Body: body}
}

func (p *Parser) parseImport() ast.Statement {
	tok := p.cur
	p.advance() // 'import'
	module, ok := p.expect(token.Identifier)
	if !ok {
		p.synchronize()
		return nil
	}
	alias := ""
	if p.at(token.As) {
		p.advance()
		aliasTok, ok := p.expect(token.Identifier)
		if ok {
			alias = aliasTok.Lexeme
		}
	}
	p.consumeSemicolon()
	return &ast.Import{Token: tok, Module: module.Lexeme, Alias: alias}
}

func (p *Parser) parseFromImport() ast.Statement {
	tok := p.cur
	p.advance() // 'from'
	module, ok := p.expect(token.Identifier)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.LBrace); !ok {
		p.synchronize()
		return nil
	}
	var names []string
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		n, ok := p.expect(token.Identifier)
		if !ok {
			break
		}
		names = append(names, n.Lexeme)
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBrace)
	p.consumeSemicolon()
	return &ast.FromImport{Token: tok, Module: module.Lexeme, Names: names}
}

func (p *Parser) parseAssignMain() ast.Statement {
	tok := p.cur
	p.advance() // 'assign_main'
	name, ok := p.expect(token.Identifier)
	if !ok {
		p.synchronize()
		return nil
	}
	p.consumeSemicolon()
	return &ast.AssignMain{Token: tok, FuncName: name.Lexeme}
}

// ---- Expressions: precedence climbing, lowest to highest ----
// logical-or, logical-and, equality, comparison, additive,
// multiplicative, unary, call/postfix, primary. All left-associative.

func (p *Parser) parseExpr() ast.Expr { return p.parseOr() }

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.at(token.Or) {
		tok := p.cur
		p.advance()
		right := p.parseAnd()
		left = ast.NewBinaryOp(tok, token.Or, left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.at(token.And) {
		tok := p.cur
		p.advance()
		right := p.parseEquality()
		left = ast.NewBinaryOp(tok, token.And, left, right)
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.at(token.EqEq) || p.at(token.NotEq) {
		op := p.cur
		p.advance()
		right := p.parseComparison()
		left = ast.NewBinaryOp(op, op.Kind, left, right)
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for p.at(token.Lt) || p.at(token.LtEq) || p.at(token.Gt) || p.at(token.GtEq) {
		op := p.cur
		p.advance()
		right := p.parseAdditive()
		left = ast.NewBinaryOp(op, op.Kind, left, right)
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.at(token.Plus) || p.at(token.Minus) {
		op := p.cur
		p.advance()
		right := p.parseMultiplicative()
		left = ast.NewBinaryOp(op, op.Kind, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		op := p.cur
		p.advance()
		right := p.parseUnary()
		left = ast.NewBinaryOp(op, op.Kind, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.Minus) || p.at(token.Not) || p.at(token.Bang) {
		op := p.cur
		p.advance()
		operand := p.parseUnary()
		return ast.NewUnaryOp(op, op.Kind, operand)
	}
	return p.parseCall()
}

func (p *Parser) parseCall() ast.Expr {
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur
	switch tok.Kind {
	case token.Int:
		p.advance()
		return ast.NewIntLit(tok, parseInt(tok.Lexeme))
	case token.Float:
		p.advance()
		return ast.NewFloatLit(tok, parseFloat(tok.Lexeme))
	case token.String:
		p.advance()
		return ast.NewStringLit(tok, tok.Lexeme)
	case token.True:
		p.advance()
		return ast.NewBoolLit(tok, true)
	case token.False:
		p.advance()
		return ast.NewBoolLit(tok, false)
	case token.Null:
		p.advance()
		return ast.NewNullLit(tok)
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen)
		return ast.NewParen(tok, inner)
	case token.Identifier:
		p.advance()
		if p.at(token.LParen) {
			p.advance()
			var args []ast.Expr
			for !p.at(token.RParen) && !p.at(token.EOF) {
				args = append(args, p.parseExpr())
				if p.at(token.Comma) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(token.RParen)
			return ast.NewCall(tok, tok.Lexeme, args)
		}
		return ast.NewIdentifier(tok, tok.Lexeme)
	default:
		p.errorf("unexpected token %s %q in expression", tok.Kind, tok.Lexeme)
		p.advance()
		return ast.NewNullLit(tok)
	}
}
