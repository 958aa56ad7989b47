package parser

import (
	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/lexer"
)

// parseBlockExpr parses `{ stmt; stmt; tail }`, the body of a function,
// method, or lambda. The final entry is the tail expression (no trailing
// semicolon) when one is present; otherwise the block's value is Nothing.
func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	pos := p.pos()
	p.expect(lexer.LBRACE)
	b := &ast.BlockExpr{Pos: pos}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		switch p.cur.Type {
		case lexer.LET:
			b.Stmts = append(b.Stmts, p.parseBindingStmt())
		case lexer.RETURN:
			b.Stmts = append(b.Stmts, p.parseReturnStmt())
		case lexer.LBRACE:
			b.Stmts = append(b.Stmts, p.parseNestedBlock())
		default:
			e := p.parseExpr(0)
			if p.curIs(lexer.RBRACE) {
				b.Tail = e
				return p.finishBlock(b)
			}
			if p.curIs(lexer.SEMICOLON) {
				p.next()
			}
			b.Stmts = append(b.Stmts, &ast.ExprStmt{Value: e, Pos: e.Position()})
		}
	}
	return p.finishBlock(b)
}

func (p *Parser) finishBlock(b *ast.BlockExpr) *ast.BlockExpr {
	p.expect(lexer.RBRACE)
	return b
}

// parseNestedBlock parses a bare `{ ... }` statement with no tail value,
// used for scoping effects-only code inside a larger block.
func (p *Parser) parseNestedBlock() *ast.Block {
	pos := p.pos()
	p.expect(lexer.LBRACE)
	blk := &ast.Block{Pos: pos}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		switch p.cur.Type {
		case lexer.LET:
			blk.Stmts = append(blk.Stmts, p.parseBindingStmt())
		case lexer.RETURN:
			blk.Stmts = append(blk.Stmts, p.parseReturnStmt())
		case lexer.LBRACE:
			blk.Stmts = append(blk.Stmts, p.parseNestedBlock())
		default:
			e := p.parseExpr(0)
			if p.curIs(lexer.SEMICOLON) {
				p.next()
			}
			blk.Stmts = append(blk.Stmts, &ast.ExprStmt{Value: e, Pos: e.Position()})
		}
	}
	p.expect(lexer.RBRACE)
	return blk
}

// parseBindingStmt parses `let name[: Type] := op expr`.
func (p *Parser) parseBindingStmt() *ast.BindingStmt {
	pos := p.pos()
	p.expect(lexer.LET)

	name := p.cur.Literal
	p.expect(lexer.IDENT)

	lv := &ast.PropDecl{Name: name, Pos: pos}
	if p.curIs(lexer.COLON) {
		p.next()
		lv.Annotation = p.parseTypeAnnotation()
	}

	p.expect(lexer.ASSIGN)
	op := p.parseBindingOp()
	rvalue := p.parseExpr(0)

	lv.HasBinding = true
	lv.Op = op
	lv.Value = rvalue

	if p.curIs(lexer.SEMICOLON) {
		p.next()
	}
	return &ast.BindingStmt{Lvalue: lv, Op: op, Rvalue: rvalue, Pos: pos}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	pos := p.pos()
	p.expect(lexer.RETURN)
	r := &ast.ReturnStmt{Pos: pos}
	if !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.RBRACE) {
		r.Value = p.parseExpr(0)
	}
	if p.curIs(lexer.SEMICOLON) {
		p.next()
	}
	return r
}
