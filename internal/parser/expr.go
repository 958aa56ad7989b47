package parser

import (
	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/lexer"
)

// parseExpr parses an expression using precedence climbing: minPrec is the
// lowest operator precedence this call is willing to consume, so a
// recursive call asking for prec+1 binds tighter than its caller,
// producing left-associative trees for equal-precedence chains.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parsePostfix(p.parsePrimary())
	for {
		prec := p.cur.Precedence()
		if prec == 0 || prec < minPrec || !p.cur.IsOperator() {
			break
		}
		op := p.cur
		pos := p.pos()
		p.next()
		right := p.parseExpr(prec + 1)
		left = &ast.BinaryExpr{
			Left:    left,
			Op:      op.Literal,
			Right:   right,
			OpIdent: &ast.Ident{Name: op.Literal, Pos: pos},
			Pos:     pos,
		}
	}
	return left
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.INT:
		v := p.cur.Literal
		p.next()
		return &ast.Literal{Kind: ast.IntLiteral, Value: v, Pos: pos}
	case lexer.FLOAT:
		v := p.cur.Literal
		p.next()
		return &ast.Literal{Kind: ast.FloatLiteral, Value: v, Pos: pos}
	case lexer.STRING:
		v := p.cur.Literal
		p.next()
		return &ast.Literal{Kind: ast.StringLiteral, Value: v, Pos: pos}
	case lexer.TRUE:
		p.next()
		return &ast.Literal{Kind: ast.BoolLiteral, Value: "true", Pos: pos}
	case lexer.FALSE:
		p.next()
		return &ast.Literal{Kind: ast.BoolLiteral, Value: "false", Pos: pos}
	case lexer.IDENT:
		return p.parseIdentOrSubscript()
	case lexer.LPAREN:
		p.next()
		e := p.parseExpr(0)
		p.expect(lexer.RPAREN)
		return e
	case lexer.LBRACE:
		return p.parseBlockExpr()
	case lexer.IF:
		return p.parseIfExpr()
	case lexer.FUN:
		return p.parseLambda()
	default:
		p.errorf(diagnostic.SYN001, "unexpected token %s (%q) in expression", p.cur.Type, p.cur.Literal)
		tok := p.cur
		p.next()
		return &ast.ErrorExpr{Msg: "unexpected " + tok.Type.String(), Pos: pos}
	}
}

// parseIdentOrSubscript parses a bare identifier, then — if immediately
// followed by `[...]` — decides between an explicit generic
// specialization (`poly[T: Int]`, entries shaped `label: type`) and a
// subscript expression (`arr[0]`, entries plain values), purely from
// whether the first bracket entry has that shape. This needs only the
// parser's ordinary one-token lookahead, not backtracking.
func (p *Parser) parseIdentOrSubscript() ast.Expr {
	pos := p.pos()
	name := p.cur.Literal
	p.expect(lexer.IDENT)
	ident := &ast.Ident{Name: name, Pos: pos}

	if !p.curIs(lexer.LBRACKET) {
		return ident
	}
	p.next() // consume '['

	if p.curIs(lexer.IDENT) && p.peekIs(lexer.COLON) {
		ident.Specializations = map[string]ast.TypeAnnotation{}
		for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
			key := p.cur.Literal
			p.expect(lexer.IDENT)
			p.expect(lexer.COLON)
			ident.Specializations[key] = p.parseTypeAnnotation()
			if p.curIs(lexer.COMMA) {
				p.next()
			}
		}
		p.expect(lexer.RBRACKET)
		return ident
	}

	var args []*ast.Arg
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseArg())
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACKET)
	return &ast.SubscriptExpr{Owner: ident, Args: args, Pos: pos}
}

// parsePostfix applies zero or more `.name`, `(args)`, `[args]` suffixes to
// base, left to right.
func (p *Parser) parsePostfix(base ast.Expr) ast.Expr {
	for {
		switch p.cur.Type {
		case lexer.DOT:
			pos := p.pos()
			p.next()
			name := p.cur.Literal
			p.expect(lexer.IDENT)
			base = &ast.SelectExpr{Owner: base, Ownee: name, Pos: pos}
		case lexer.LPAREN:
			pos := p.pos()
			p.next()
			var args []*ast.Arg
			for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
				args = append(args, p.parseArg())
				if p.curIs(lexer.COMMA) {
					p.next()
				}
			}
			p.expect(lexer.RPAREN)
			base = &ast.CallExpr{Func: base, Args: args, Pos: pos}
		case lexer.LBRACKET:
			pos := p.pos()
			p.next()
			var args []*ast.Arg
			for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
				args = append(args, p.parseArg())
				if p.curIs(lexer.COMMA) {
					p.next()
				}
			}
			p.expect(lexer.RBRACKET)
			base = &ast.SubscriptExpr{Owner: base, Args: args, Pos: pos}
		default:
			return base
		}
	}
}

func (p *Parser) parseArg() *ast.Arg {
	if p.curIs(lexer.IDENT) && p.peekIs(lexer.COLON) {
		label := p.cur.Literal
		p.next()
		p.next()
		return &ast.Arg{Label: label, Value: p.parseExpr(0)}
	}
	return &ast.Arg{Value: p.parseExpr(0)}
}

func (p *Parser) parseIfExpr() *ast.IfExpr {
	pos := p.pos()
	p.expect(lexer.IF)
	cond := p.parseExpr(0)
	then := p.parseBlockExpr()
	i := &ast.IfExpr{Condition: cond, Then: then, Pos: pos}
	if p.curIs(lexer.ELSE) {
		p.next()
		if p.curIs(lexer.IF) {
			i.Else = p.parseIfExpr()
		} else {
			i.Else = p.parseBlockExpr()
		}
	}
	return i
}

func (p *Parser) parseLambda() *ast.Lambda {
	pos := p.pos()
	p.expect(lexer.FUN)
	l := &ast.Lambda{Pos: pos}
	l.Params = p.parseParamList()
	if p.curIs(lexer.ARROW) {
		p.next()
		l.Codomain = p.parseTypeAnnotation()
	}
	l.Body = p.parseBlockExpr()
	return l
}
