package parser

import (
	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/lexer"
)

func (p *Parser) parseStructDecl() *ast.StructDecl {
	pos := p.pos()
	var kind ast.StructKind
	switch p.cur.Type {
	case lexer.STRUCT:
		kind = ast.KindStruct
	case lexer.INTERFACE:
		kind = ast.KindInterface
	case lexer.UNION:
		kind = ast.KindUnion
	}
	p.next()

	name := p.cur.Literal
	p.expect(lexer.IDENT)

	s := &ast.StructDecl{Name: name, StructKind: kind, Pos: pos}
	s.Placeholders = p.parsePlaceholderList()

	p.expect(lexer.LBRACE)
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		m := p.parseDecl(s)
		if m != nil {
			s.Members = append(s.Members, m)
		} else {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return s
}

// parsePlaceholderList parses an optional `[T, U, ...]` generic parameter
// list following a struct or function name.
func (p *Parser) parsePlaceholderList() []string {
	if !p.curIs(lexer.LBRACKET) {
		return nil
	}
	p.next()
	var out []string
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		out = append(out, p.cur.Literal)
		p.expect(lexer.IDENT)
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACKET)
	return out
}

// parseFunDecl parses a function, method, constructor, or destructor. The
// name token decides Kind: `new` names a constructor, `del` a destructor,
// anything else a regular function or (inside a struct) a method.
func (p *Parser) parseFunDecl(owner *ast.StructDecl) *ast.FunDecl {
	pos := p.pos()
	p.expect(lexer.FUN)

	f := &ast.FunDecl{Pos: pos}
	switch p.cur.Type {
	case lexer.NEW:
		f.Name = "new"
		f.Kind = ast.FunConstructor
		p.next()
	case lexer.DEL:
		f.Name = "del"
		f.Kind = ast.FunDestructor
		p.next()
	default:
		f.Name = p.cur.Literal
		if owner != nil {
			f.Kind = ast.FunMethod
		} else {
			f.Kind = ast.FunRegular
		}
		p.expect(lexer.IDENT)
	}

	f.Placeholders = p.parsePlaceholderList()
	f.Params = p.parseParamList()

	if p.curIs(lexer.ARROW) {
		p.next()
		f.Codomain = p.parseTypeAnnotation()
	}

	if p.curIs(lexer.LBRACE) {
		f.Body = p.parseBlockExpr()
	} else {
		// Abstract declaration (interface member); no body.
		if p.curIs(lexer.SEMICOLON) {
			p.next()
		}
	}
	return f
}

func (p *Parser) parseParamList() []*ast.ParamDecl {
	p.expect(lexer.LPAREN)
	var params []*ast.ParamDecl
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		params = append(params, p.parseParamDecl())
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

// parseParamDecl parses `[label] name: Type [':=' expr]`. Two consecutive
// identifiers before the colon mean the first is the external label and
// the second the internal name; a single identifier is both the label and
// the name.
func (p *Parser) parseParamDecl() *ast.ParamDecl {
	pos := p.pos()
	name := p.cur.Literal
	label := name
	p.expect(lexer.IDENT)
	if p.curIs(lexer.IDENT) {
		label = name
		name = p.cur.Literal
		p.next()
	}

	param := &ast.ParamDecl{Label: label, Name: name, Pos: pos}
	if p.expect(lexer.COLON) {
		param.Annotation = p.parseTypeAnnotation()
	}
	if p.curIs(lexer.ASSIGN) {
		p.next()
		param.Default = p.parseExpr(0)
	}
	return param
}

// parsePropDecl parses a field (inside a struct) or a top-level global:
// `name[: Type][:= bindingOp expr]`.
func (p *Parser) parsePropDecl() *ast.PropDecl {
	pos := p.pos()
	name := p.cur.Literal
	p.expect(lexer.IDENT)

	prop := &ast.PropDecl{Name: name, Pos: pos}
	if p.curIs(lexer.COLON) {
		p.next()
		prop.Annotation = p.parseTypeAnnotation()
	}
	if p.curIs(lexer.ASSIGN) {
		p.next()
		prop.HasBinding = true
		prop.Op = p.parseBindingOp()
		prop.Value = p.parseExpr(0)
	}
	if prop.Annotation == nil && !prop.HasBinding {
		p.errorf(diagnostic.SYN003, "property %q needs a type annotation, an initializer, or both", name)
	}
	if p.curIs(lexer.SEMICOLON) {
		p.next()
	}
	return prop
}
