package parser

import (
	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/lexer"
)

// parseTypeAnnotation parses the syntax of a type position: a bare or
// generic name (`Int`, `Box[Int]`), a function type (`(x: Int) -> Bool`),
// or a qualifier-prefixed annotation (`@mut @stk @ref Foo`).
func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	if p.curIs(lexer.AT) {
		return p.parseQualifiedAnnotation()
	}
	if p.curIs(lexer.LPAREN) {
		return p.parseFuncAnnotation()
	}
	return p.parseNamedAnnotation()
}

func (p *Parser) parseQualifiedAnnotation() ast.TypeAnnotation {
	pos := p.pos()
	var quals []string
	for p.curIs(lexer.AT) {
		p.next()
		quals = append(quals, p.cur.Literal)
		if p.curIs(lexer.REF) {
			p.next()
		} else {
			p.expect(lexer.IDENT)
		}
	}
	inner := p.parseTypeAnnotation()
	return &ast.QualifiedTypeAnnotation{Qualifiers: quals, Inner: inner, Pos: pos}
}

func (p *Parser) parseNamedAnnotation() ast.TypeAnnotation {
	pos := p.pos()
	name := p.cur.Literal
	if !p.expect(lexer.IDENT) {
		return &ast.NamedTypeAnnotation{Name: name, Pos: pos}
	}
	n := &ast.NamedTypeAnnotation{Name: name, Pos: pos}
	if p.curIs(lexer.LBRACKET) {
		p.next()
		for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
			n.Specializations = append(n.Specializations, p.parseTypeAnnotation())
			if p.curIs(lexer.COMMA) {
				p.next()
			}
		}
		p.expect(lexer.RBRACKET)
	}
	return n
}

// parseFuncAnnotation parses `([label:] T, ...) -> U`. Unlike a
// parameter list in a declaration, a func-type annotation names only
// types, not parameter identifiers — so each entry is an optional label
// followed by a type, with the label distinguished from the type name by
// a trailing colon-type pair: `label: T`.
func (p *Parser) parseFuncAnnotation() ast.TypeAnnotation {
	pos := p.pos()
	p.expect(lexer.LPAREN)
	var params []*ast.ParamTypeAnnotation
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		label := ""
		if p.curIs(lexer.IDENT) && p.peekIs(lexer.COLON) {
			label = p.cur.Literal
			p.next()
			p.next() // COLON
		}
		ann := p.parseTypeAnnotation()
		params = append(params, &ast.ParamTypeAnnotation{Label: label, Annotation: ann})
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)

	var codomain ast.TypeAnnotation
	if p.curIs(lexer.ARROW) {
		p.next()
		codomain = p.parseTypeAnnotation()
	}
	return &ast.FuncTypeAnnotation{Params: params, Codomain: codomain, Pos: pos}
}

// parseBindingOp consumes one of copy/move/ref and returns the
// corresponding BindingOp, defaulting to OpCopy (with a diagnostic) if
// none of the three is present — every binding must name its transfer
// mode explicitly.
func (p *Parser) parseBindingOp() ast.BindingOp {
	switch p.cur.Type {
	case lexer.COPY:
		p.next()
		return ast.OpCopy
	case lexer.MOVE:
		p.next()
		return ast.OpMove
	case lexer.REF:
		p.next()
		return ast.OpRef
	default:
		p.errorf(diagnostic.SYN001, "expected a binding operator (copy/move/ref), found %s", p.cur.Type)
		return ast.OpCopy
	}
}
